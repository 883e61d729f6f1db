package network

import (
	"sync"

	"frontline-server/pkg/api"
	"frontline-server/pkg/logger"
)

// Два класса доставки поверх одного TCP-соединения:
//   - снапшоты: только свежайший, устаревший молча вытесняется;
//   - события: гарантированная доставка, пропуск недопустим.
// Клиент, не вычитывающий события, отключается как неисправный,
// вместо того чтобы получить тихую дыру в ленте.

const (
	snapshotQueueSize = 1
	eventQueueSize    = 256
)

// Outbox - личные исходящие каналы одного подключения.
type Outbox struct {
	Snapshots chan api.ServerMessage
	Events    chan api.ServerMessage
}

// Broadcaster занимается только рассылкой сообщений подписчикам.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ConnID -> личные каналы
	subscribers map[string]*Outbox

	// onSlowClient вызывается вне мьютекса после отключения
	// не вычитывающего события клиента.
	onSlowClient func(connID string)
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]*Outbox),
	}
}

// OnSlowClient регистрирует обработчик принудительного отключения.
// Вызывать до старта рассылки.
func (b *Broadcaster) OnSlowClient(fn func(connID string)) {
	b.onSlowClient = fn
}

// Register создает каналы для подключения.
func (b *Broadcaster) Register(connID string) *Outbox {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если подписка была, закрываем старую.
	if old, ok := b.subscribers[connID]; ok {
		close(old.Snapshots)
		close(old.Events)
	}

	out := &Outbox{
		Snapshots: make(chan api.ServerMessage, snapshotQueueSize),
		Events:    make(chan api.ServerMessage, eventQueueSize),
	}
	b.subscribers[connID] = out
	return out
}

// Unregister удаляет подписчика.
func (b *Broadcaster) Unregister(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unregisterLocked(connID)
}

func (b *Broadcaster) unregisterLocked(connID string) {
	if out, ok := b.subscribers[connID]; ok {
		close(out.Snapshots)
		close(out.Events)
		delete(b.subscribers, connID)
	}
}

// SendSnapshot кладет снапшот подключению. Невычитанный предшественник
// вытесняется: клиенту всегда достается самое свежее состояние.
func (b *Broadcaster) SendSnapshot(connID string, msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out, ok := b.subscribers[connID]
	if !ok {
		return
	}
	for {
		select {
		case out.Snapshots <- msg:
			return
		default:
			// Канал занят устаревшим снапшотом: выталкиваем его.
			select {
			case <-out.Snapshots:
			default:
			}
		}
	}
}

// SendEvent кладет событие подключению. Переполнение буфера означает
// мертвого или безнадежно отставшего клиента.
// Отправка строго под RLock: Register/Unregister закрывают каналы под
// write-блокировкой, и send вне блокировки гонялся бы с этим close.
func (b *Broadcaster) SendEvent(connID string, msg api.ServerMessage) {
	b.mu.RLock()
	out, ok := b.subscribers[connID]
	if !ok {
		b.mu.RUnlock()
		return
	}
	select {
	case out.Events <- msg:
		b.mu.RUnlock()
		return
	default:
	}
	b.mu.RUnlock()

	logger.Log.WithField("conn_id", connID).Warn("Event queue overflow, dropping slow client")

	b.mu.Lock()
	// Пока мы меняли блокировку, подписка могла исчезнуть или смениться
	// на новую: снимаем только ту, чье переполнение увидели.
	cur, still := b.subscribers[connID]
	dropped := still && cur == out
	if dropped {
		b.unregisterLocked(connID)
	}
	b.mu.Unlock()

	if dropped && b.onSlowClient != nil {
		b.onSlowClient(connID)
	}
}

// BroadcastEvent шлет событие всем подписчикам.
func (b *Broadcaster) BroadcastEvent(msg api.ServerMessage) {
	for _, id := range b.subscriberIDs() {
		b.SendEvent(id, msg)
	}
}

func (b *Broadcaster) subscriberIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.subscribers))
	for id := range b.subscribers {
		ids = append(ids, id)
	}
	return ids
}

// HasSubscriber проверяет, есть ли живая подписка у подключения.
func (b *Broadcaster) HasSubscriber(connID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[connID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
