package event

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Errors returned by bus operations.
var (
	ErrNilHandler   = errors.New("nil handler")
	ErrInvalidTopic = errors.New("invalid topic")
)

// Topic identifies an event stream.
type Topic string

// Event is anything published on the bus.
type Event interface {
	EventTopic() Topic
}

// HandlerFunc handles a delivered event.
type HandlerFunc func(Event)

// Subscription is a handle for unsubscribing.
type Subscription struct {
	id    uint64
	topic Topic
}

// Bus delivers events to topic subscribers synchronously, in
// subscription order. All methods are safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID atomic.Uint64
	subs   map[Topic][]busEntry
}

type busEntry struct {
	id uint64
	fn HandlerFunc
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Topic][]busEntry),
	}
}

// Subscribe registers fn for events on topic.
func (b *Bus) Subscribe(topic Topic, fn HandlerFunc) (Subscription, error) {
	if fn == nil {
		return Subscription{}, ErrNilHandler
	}
	if topic == "" {
		return Subscription{}, ErrInvalidTopic
	}

	id := b.nextID.Add(1)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], busEntry{id: id, fn: fn})
	b.mu.Unlock()

	return Subscription{id: id, topic: topic}, nil
}

// Unsubscribe removes a subscription. Unknown subscriptions are a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.subs[sub.topic]
	for i, e := range entries {
		if e.id == sub.id {
			b.subs[sub.topic] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every subscriber of its topic.
// Handlers run synchronously in subscription order.
func (b *Bus) Publish(ev Event) {
	if ev == nil {
		return
	}

	b.mu.RLock()
	entries := make([]busEntry, len(b.subs[ev.EventTopic()]))
	copy(entries, b.subs[ev.EventTopic()])
	b.mu.RUnlock()

	for _, e := range entries {
		e.fn(ev)
	}
}

// SubscriberCount returns the number of subscribers for a topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
