package engine

import "container/heap"

// TimerManager - запланированные на будущие тики действия матча:
// страховочный опрос победы, снятие тумана реванша и т.п.
// Живет внутри тик-цикла, поэтому без блокировок.
type TimerManager struct {
	queue   TimerQueue
	itemMap map[string]*TimerItem
}

func NewTimerManager() *TimerManager {
	return &TimerManager{
		queue:   make(TimerQueue, 0),
		itemMap: make(map[string]*TimerItem),
	}
}

// Schedule ставит (или переносит) таймер id на тик dueTick.
func (tm *TimerManager) Schedule(id string, dueTick int64, fire func(tick int64)) {
	if item, ok := tm.itemMap[id]; ok {
		item.Fire = fire
		tm.queue.Update(item, dueTick)
		return
	}

	item := &TimerItem{
		ID:       id,
		Fire:     fire,
		Priority: dueTick,
	}
	heap.Push(&tm.queue, item)
	tm.itemMap[id] = item
}

// Cancel снимает таймер. Отмена незнакомого id - no-op.
func (tm *TimerManager) Cancel(id string) {
	if item, ok := tm.itemMap[id]; ok {
		heap.Remove(&tm.queue, item.Index)
		delete(tm.itemMap, id)
	}
}

// FireDue срабатывает все таймеры, чей срок наступил к тику tick.
// Сработавший таймер снимается; Fire может тут же перепланировать его.
func (tm *TimerManager) FireDue(tick int64) {
	for tm.queue.Len() > 0 && tm.queue[0].Priority <= tick {
		item := heap.Pop(&tm.queue).(*TimerItem)
		delete(tm.itemMap, item.ID)
		item.Fire(tick)
	}
}

func (tm *TimerManager) Len() int {
	return tm.queue.Len()
}
