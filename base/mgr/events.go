package mgr

import (
	"sync"
)

// EventMgr is a minimal generic event publisher: callers subscribe and
// receive every subsequently submitted event on a buffered channel. The
// settings module only ever needs simple subscription fan-out, so there
// is no callback-registration variant.
type EventMgr[T any] struct {
	name string

	lock sync.Mutex
	subs []*EventSubscription[T]
}

// EventSubscription is a handle returned by Subscribe.
type EventSubscription[T any] struct {
	name   string
	events chan T
}

// Events returns the channel events are delivered on.
func (s *EventSubscription[T]) Events() <-chan T {
	return s.events
}

// NewEventMgr returns a new, named event manager.
func NewEventMgr[T any](name string) *EventMgr[T] {
	return &EventMgr[T]{name: name}
}

// Subscribe registers a new subscriber and returns its channel handle.
// chanSize bounds how many unconsumed events may queue before Submit
// silently drops further events for that subscriber.
func (em *EventMgr[T]) Subscribe(subscriberName string, chanSize int) *EventSubscription[T] {
	em.lock.Lock()
	defer em.lock.Unlock()

	sub := &EventSubscription[T]{
		name:   subscriberName,
		events: make(chan T, chanSize),
	}
	em.subs = append(em.subs, sub)
	return sub
}

// Submit delivers an event to every current subscriber. Subscribers whose
// buffer is full do not block the submitter; the event is dropped for
// them.
func (em *EventMgr[T]) Submit(event T) {
	em.lock.Lock()
	defer em.lock.Unlock()

	for _, sub := range em.subs {
		select {
		case sub.events <- event:
		default:
		}
	}
}
