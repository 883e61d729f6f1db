package engine

import "container/heap"

// TimerItem обертка для элемента очереди приоритетов
type TimerItem struct {
	ID       string           // Имя таймера (ключ для отмены/переноса)
	Fire     func(tick int64) // Действие при срабатывании
	Priority int64            // Тик срабатывания. Чем меньше, тем раньше.
	Index    int              // Индекс в куче (нужен для update)
}

// TimerQueue реализует heap.Interface и хранит TimerItems
type TimerQueue []*TimerItem

func (pq TimerQueue) Len() int { return len(pq) }

func (pq TimerQueue) Less(i, j int) bool {
	// Мы хотим MinHeap, поэтому возвращаем true, если i < j
	return pq[i].Priority < pq[j].Priority
}

func (pq TimerQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *TimerQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*TimerItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *TimerQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// Update изменяет приоритет элемента в очереди
func (pq *TimerQueue) Update(item *TimerItem, priority int64) {
	item.Priority = priority
	heap.Fix(pq, item.Index)
}
