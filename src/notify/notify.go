// Package notify is the in-process notification bus. UI-facing components
// used to reach for an ambient global to flash toasts; here the bus is an
// explicit dependency handed to whoever needs to publish or observe.
package notify

import (
	"sync"
	"time"
)

// Level is the toast severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one bus message.
type Notification struct {
	Level   Level     `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// Bus fans notifications out to subscribers. Publish never blocks: a
// subscriber that stops draining loses its oldest queued notification, not
// the publisher's time.
type Bus struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]subscriber
	history []Notification
	cap     int
}

type subscriber struct {
	ch  chan Notification
	min Level
}

var levelRank = map[Level]int{
	LevelInfo:    0,
	LevelSuccess: 1,
	LevelWarning: 2,
	LevelError:   3,
}

// NewBus returns a bus retaining up to historyCap recent notifications for
// late subscribers to enumerate (0 disables history).
func NewBus(historyCap int) *Bus {
	return &Bus{subs: make(map[int]subscriber), cap: historyCap}
}

// Subscribe registers a buffered channel receiving notifications at or above
// min. Returns the channel and an unsubscribe func; the channel is closed on
// unsubscribe.
func (b *Bus) Subscribe(min Level, buffer int) (<-chan Notification, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Notification, buffer)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = subscriber{ch: ch, min: min}
	b.mu.Unlock()
	once := sync.Once{}
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers n to all subscribers whose level filter admits it. On a
// full subscriber buffer the oldest queued item is dropped to make room.
func (b *Bus) Publish(n Notification) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cap > 0 {
		b.history = append(b.history, n)
		if len(b.history) > b.cap {
			b.history = b.history[len(b.history)-b.cap:]
		}
	}
	for _, s := range b.subs {
		if levelRank[n.Level] < levelRank[s.min] {
			continue
		}
		select {
		case s.ch <- n:
		default:
			// drop-oldest, then the send cannot block
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- n:
			default:
			}
		}
	}
}

// Recent returns up to limit retained notifications, newest last.
func (b *Bus) Recent(limit int) []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.history
	if limit > 0 && len(h) > limit {
		h = h[len(h)-limit:]
	}
	out := make([]Notification, len(h))
	copy(out, h)
	return out
}
