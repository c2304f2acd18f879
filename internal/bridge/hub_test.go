package bridge

import (
	"testing"

	"github.com/ytget/video-downloader/internal/model"
)

func TestHub_PublishToAll(t *testing.T) {
	hub := NewHub(4, nil)
	a, unsubA := hub.Subscribe()
	defer unsubA()
	b, unsubB := hub.Subscribe()
	defer unsubB()

	hub.Publish(model.Event{Type: model.EventProgress, TaskID: "t1"})

	for name, ch := range map[string]<-chan model.Event{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.TaskID != "t1" {
				t.Errorf("%s: TaskID = %q, expected %q", name, ev.TaskID, "t1")
			}
		default:
			t.Errorf("%s: expected an event", name)
		}
	}
}

func TestHub_FullSubscriberKeepsLatest(t *testing.T) {
	hub := NewHub(2, nil)
	ch, unsub := hub.Subscribe()
	defer unsub()

	for i := 1; i <= 5; i++ {
		hub.Publish(model.Event{Type: model.EventUpdateProgress, Percent: i * 10})
	}

	var got []int
	for len(ch) > 0 {
		got = append(got, (<-ch).Percent)
	}
	if len(got) != 2 {
		t.Fatalf("queued = %v, expected 2 events", got)
	}
	if got[0] != 40 || got[1] != 50 {
		t.Errorf("queued = %v, expected [40 50]", got)
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub(1, nil)
	ch, unsub := hub.Subscribe()
	if hub.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, expected 1", hub.Subscribers())
	}

	unsub()
	unsub()

	if hub.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, expected 0", hub.Subscribers())
	}
	if _, ok := <-ch; ok {
		t.Errorf("channel still open after unsubscribe")
	}

	// publishing with no listeners must not block or panic
	hub.Publish(model.Event{Type: model.EventProgress})
}
