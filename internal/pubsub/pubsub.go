// Package pubsub fans published events out to per-listener queues.
//
// Every subscription owns an unbounded FIFO queue. Publish appends to the
// queue of each listener registered on the topic at that moment and returns
// immediately; listeners drain their queue with Next at their own pace.
// Nothing is buffered for listeners that subscribe later.
package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
)

// State is the lifecycle state of a subscription.
type State int

const (
	// Registered means the subscription is active and has received nothing yet.
	Registered State = iota
	// Delivering means at least one event has been queued for the subscription.
	Delivering
	// Closed means the subscription was cancelled and receives no more events.
	Closed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case Registered:
		return "registered"
	case Delivering:
		return "delivering"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Broker routes payloads of type T by topic.
type Broker[T any] struct {
	mu     sync.RWMutex
	topics map[string]map[uint64]*Subscription[T]
	nextID uint64
}

// NewBroker creates an empty broker.
func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		topics: make(map[string]map[uint64]*Subscription[T]),
	}
}

// Subscribe registers a new listener on topic. Callers must Close the
// subscription when done; Close is safe to call more than once.
func (b *Broker[T]) Subscribe(topic string) *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := atomic.AddUint64(&b.nextID, 1)
	sub := &Subscription[T]{
		id:     id,
		topic:  topic,
		broker: b,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[uint64]*Subscription[T])
		b.topics[topic] = subs
	}
	subs[id] = sub

	return sub
}

// Publish queues payload for every listener currently subscribed to topic.
// It never blocks on slow listeners.
func (b *Broker[T]) Publish(topic string, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.topics[topic] {
		sub.push(payload)
	}
}

// Subscribers returns the number of active listeners on topic.
func (b *Broker[T]) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.topics[topic])
}

// Close cancels every subscription on every topic.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	var all []*Subscription[T]
	for _, subs := range b.topics {
		for _, sub := range subs {
			all = append(all, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range all {
		sub.Close()
	}
}

func (b *Broker[T]) remove(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[sub.topic]
	delete(subs, sub.id)
	if len(subs) == 0 {
		delete(b.topics, sub.topic)
	}
}

// Subscription is a single listener registration.
type Subscription[T any] struct {
	id     uint64
	topic  string
	broker *Broker[T]

	mu        sync.Mutex
	queue     []T
	state     State
	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// ID returns the subscription's broker-unique identifier.
func (s *Subscription[T]) ID() uint64 {
	return s.id
}

// Topic returns the topic the subscription listens on.
func (s *Subscription[T]) Topic() string {
	return s.topic
}

// State returns the current lifecycle state.
func (s *Subscription[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Subscription[T]) push(payload T) {
	s.mu.Lock()
	if s.state == Closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, payload)
	s.state = Delivering
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Next blocks until an event is available, the subscription is closed, or ctx
// is done. The boolean is false in the latter two cases.
func (s *Subscription[T]) Next(ctx context.Context) (T, bool) {
	var zero T
	for {
		s.mu.Lock()
		if s.state == Closed {
			s.mu.Unlock()
			return zero, false
		}
		if len(s.queue) > 0 {
			payload := s.queue[0]
			s.queue[0] = zero
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return payload, true
		}
		s.mu.Unlock()

		select {
		case <-s.wake:
		case <-s.done:
			return zero, false
		case <-ctx.Done():
			return zero, false
		}
	}
}

// Pending returns the number of queued, undelivered events.
func (s *Subscription[T]) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close unsubscribes. Queued events are discarded.
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = Closed
		s.queue = nil
		s.mu.Unlock()

		close(s.done)
		s.broker.remove(s)
	})
}
