package engine

import "testing"

func TestTimerFireOrder(t *testing.T) {
	tm := NewTimerManager()
	var fired []string

	tm.Schedule("late", 30, func(int64) { fired = append(fired, "late") })
	tm.Schedule("early", 10, func(int64) { fired = append(fired, "early") })
	tm.Schedule("mid", 20, func(int64) { fired = append(fired, "mid") })

	tm.FireDue(25)
	if len(fired) != 2 || fired[0] != "early" || fired[1] != "mid" {
		t.Fatalf("Expected [early mid], got %v", fired)
	}
	if tm.Len() != 1 {
		t.Errorf("Expected 1 pending timer, got %d", tm.Len())
	}

	tm.FireDue(100)
	if len(fired) != 3 || fired[2] != "late" {
		t.Errorf("Expected late to fire, got %v", fired)
	}
}

func TestTimerReschedule(t *testing.T) {
	tm := NewTimerManager()
	count := 0
	tm.Schedule("poll", 10, func(int64) { count++ })
	// Перенос существующего таймера двигает срок, а не дублирует его.
	tm.Schedule("poll", 50, func(int64) { count++ })

	tm.FireDue(10)
	if count != 0 {
		t.Error("Rescheduled timer must not fire at the old due tick")
	}
	tm.FireDue(50)
	if count != 1 {
		t.Errorf("Expected exactly one firing, got %d", count)
	}
}

func TestTimerCancel(t *testing.T) {
	tm := NewTimerManager()
	tm.Schedule("poll", 10, func(int64) { t.Error("Cancelled timer must not fire") })
	tm.Cancel("poll")
	tm.Cancel("unknown") // no-op
	tm.FireDue(100)
	if tm.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", tm.Len())
	}
}

func TestTimerSelfReschedule(t *testing.T) {
	tm := NewTimerManager()
	count := 0
	var poll func(tick int64)
	poll = func(tick int64) {
		count++
		if count < 3 {
			tm.Schedule("poll", tick+10, poll)
		}
	}
	tm.Schedule("poll", 10, poll)

	for tick := int64(0); tick <= 40; tick += 10 {
		tm.FireDue(tick)
	}
	if count != 3 {
		t.Errorf("Expected recurring timer to fire 3 times, got %d", count)
	}
}
