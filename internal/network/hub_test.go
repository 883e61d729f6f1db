package network

import (
	"os"
	"testing"

	"frontline-server/pkg/api"
	"frontline-server/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func snapMsg(tick int64) api.ServerMessage {
	return api.ServerMessage{Type: api.MsgSnapshot, Snapshot: &api.Snapshot{Tick: tick}}
}

func eventMsg(id string) api.ServerMessage {
	return api.ServerMessage{Type: api.MsgEvent, Event: &api.EventView{ID: id}}
}

func TestSnapshotLatestWins(t *testing.T) {
	b := NewBroadcaster()
	out := b.Register("c1")

	// Клиент не читает: три снапшота подряд, выживает только последний.
	b.SendSnapshot("c1", snapMsg(1))
	b.SendSnapshot("c1", snapMsg(2))
	b.SendSnapshot("c1", snapMsg(3))

	got := <-out.Snapshots
	if got.Snapshot.Tick != 3 {
		t.Errorf("Expected latest snapshot (tick 3), got tick %d", got.Snapshot.Tick)
	}
	select {
	case extra := <-out.Snapshots:
		t.Errorf("Stale snapshot must be evicted, got tick %d", extra.Snapshot.Tick)
	default:
	}
}

func TestEventsPreservedInOrder(t *testing.T) {
	b := NewBroadcaster()
	out := b.Register("c1")

	b.SendEvent("c1", eventMsg("e1"))
	b.SendEvent("c1", eventMsg("e2"))
	b.SendEvent("c1", eventMsg("e3"))

	for _, want := range []string{"e1", "e2", "e3"} {
		got := <-out.Events
		if got.Event.ID != want {
			t.Errorf("Expected event %s, got %s", want, got.Event.ID)
		}
	}
}

func TestEventOverflowDropsClient(t *testing.T) {
	b := NewBroadcaster()
	b.Register("c1")

	dropped := ""
	b.OnSlowClient(func(connID string) { dropped = connID })

	for i := 0; i <= eventQueueSize; i++ {
		b.SendEvent("c1", eventMsg("e"))
	}

	if b.HasSubscriber("c1") {
		t.Error("Overflowing client must be unregistered")
	}
	if dropped != "c1" {
		t.Errorf("Expected slow-client callback for c1, got %q", dropped)
	}
}

// Дисконнект (close каналов под write-блокировкой) наперегонки с
// рассылкой из тик-цикла не должен ронять процесс отправкой в закрытый
// канал. Под -race этот сценарий ловит и саму гонку read/close.
func TestEventSendRacesResubscribe(t *testing.T) {
	b := NewBroadcaster()
	b.Register("c1")

	stop := make(chan struct{})
	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for {
				select {
				case <-stop:
					return
				default:
					b.SendEvent("c1", eventMsg("e"))
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		out := b.Register("c1")
		// Осушаем, чтобы отправители не упирались в переполнение.
		for drained := false; !drained; {
			select {
			case _, ok := <-out.Events:
				drained = !ok
			default:
				drained = true
			}
		}
		b.Unregister("c1")
	}

	close(stop)
	for g := 0; g < 4; g++ {
		<-done
	}
}

func TestRegisterReplacesOldSubscription(t *testing.T) {
	b := NewBroadcaster()
	old := b.Register("c1")
	fresh := b.Register("c1")

	if _, ok := <-old.Events; ok {
		t.Error("Old subscription channels must be closed on re-register")
	}
	b.SendEvent("c1", eventMsg("e1"))
	if got := <-fresh.Events; got.Event.ID != "e1" {
		t.Error("New subscription must receive events")
	}
	if b.SubscriberCount() != 1 {
		t.Errorf("Expected 1 subscriber, got %d", b.SubscriberCount())
	}
}
