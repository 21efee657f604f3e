package notify

import (
	"testing"
	"time"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := NewBus(0)
	ch, cancel := b.Subscribe(LevelInfo, 4)
	defer cancel()
	b.Publish(Notification{Level: LevelSuccess, Title: "Number purchased"})
	select {
	case n := <-ch:
		if n.Title != "Number purchased" || n.At.IsZero() {
			t.Fatalf("got %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatalf("no delivery")
	}
}

func TestLevelFilter(t *testing.T) {
	b := NewBus(0)
	ch, cancel := b.Subscribe(LevelWarning, 4)
	defer cancel()
	b.Publish(Notification{Level: LevelInfo, Title: "ignored"})
	b.Publish(Notification{Level: LevelError, Title: "kept"})
	select {
	case n := <-ch:
		if n.Title != "kept" {
			t.Fatalf("filter leaked %q", n.Title)
		}
	case <-time.After(time.Second):
		t.Fatalf("no delivery")
	}
	select {
	case n := <-ch:
		t.Fatalf("unexpected second delivery %q", n.Title)
	default:
	}
}

func TestPublishNeverBlocksDropsOldest(t *testing.T) {
	b := NewBus(0)
	ch, cancel := b.Subscribe(LevelInfo, 2)
	defer cancel()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(Notification{Level: LevelInfo, Title: string(rune('a' + i))})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on full subscriber")
	}
	// buffer holds the most recent two
	first := <-ch
	second := <-ch
	if first.Title != "i" || second.Title != "j" {
		t.Fatalf("drop-oldest kept %q,%q", first.Title, second.Title)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBus(0)
	ch, cancel := b.Subscribe(LevelInfo, 1)
	cancel()
	cancel() // idempotent
	if _, open := <-ch; open {
		t.Fatalf("channel still open after unsubscribe")
	}
	b.Publish(Notification{Level: LevelInfo, Title: "after"}) // must not panic
}

func TestHistoryRetention(t *testing.T) {
	b := NewBus(3)
	for i := 0; i < 5; i++ {
		b.Publish(Notification{Level: LevelInfo, Title: string(rune('a' + i))})
	}
	got := b.Recent(0)
	if len(got) != 3 || got[0].Title != "c" || got[2].Title != "e" {
		t.Fatalf("history = %v", got)
	}
	if got2 := b.Recent(2); len(got2) != 2 || got2[0].Title != "d" {
		t.Fatalf("limited history = %v", got2)
	}
}
