package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBufferSize is the default channel buffer for subscribers.
const DefaultBufferSize = 64

// BrokerOption configures a Broker.
type BrokerOption[T any] func(*Broker[T])

// WithBufferSize sets the subscriber channel buffer size.
func WithBufferSize[T any](size int) BrokerOption[T] {
	return func(b *Broker[T]) {
		b.bufferSize = size
	}
}

// WithDropPolicy sets whether to drop events for subscribers whose buffer
// is full. With drop disabled Publish blocks until every subscriber has
// room, or until that subscriber goes away.
func WithDropPolicy[T any](drop bool) BrokerOption[T] {
	return func(b *Broker[T]) {
		b.dropOnFull = drop
	}
}

type subscription[T any] struct {
	ch    chan Event[T]
	gone  chan struct{}
	leave sync.Once
}

// cancel unblocks publishers waiting on this subscriber. It takes no lock so
// it can run while a blocking Publish holds the read lock.
func (s *subscription[T]) cancel() {
	s.leave.Do(func() { close(s.gone) })
}

// Broker fans events of one payload type out to any number of subscribers.
// It is safe for concurrent use.
type Broker[T any] struct { //nolint:govet // fieldalignment: preserving logical field order
	name       string
	mu         sync.RWMutex
	subs       map[*subscription[T]]struct{}
	done       chan struct{}
	closeOnce  sync.Once
	bufferSize int
	dropOnFull bool

	published atomic.Int64
	dropped   atomic.Int64
	peak      atomic.Int32
	current   atomic.Int32
}

// NewBroker creates a new typed broker with optional configuration.
func NewBroker[T any](name string, opts ...BrokerOption[T]) *Broker[T] {
	b := &Broker[T]{
		name:       name,
		subs:       make(map[*subscription[T]]struct{}),
		done:       make(chan struct{}),
		bufferSize: DefaultBufferSize,
		dropOnFull: true,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Name returns the broker's name.
func (b *Broker[T]) Name() string {
	return b.name
}

// Subscribe returns a channel receiving events until ctx is done or the
// broker shuts down, at which point the channel is closed.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.IsShutdown() {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	sub := &subscription[T]{
		ch:   make(chan Event[T], b.bufferSize),
		gone: make(chan struct{}),
	}
	b.subs[sub] = struct{}{}
	b.trackPeak(b.current.Add(1))

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}
		sub.cancel()
		b.remove(sub)
	}()

	return sub.ch
}

// Publish sends an event to all current subscribers and returns how many
// received it.
func (b *Broker[T]) Publish(eventType EventType, payload T) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.IsShutdown() || len(b.subs) == 0 {
		return 0
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()}
	b.published.Add(1)

	delivered := 0
	for sub := range b.subs {
		if b.deliver(sub, event) {
			delivered++
		} else {
			b.dropped.Add(1)
		}
	}
	return delivered
}

func (b *Broker[T]) deliver(sub *subscription[T], event Event[T]) bool {
	if b.dropOnFull {
		select {
		case sub.ch <- event:
			return true
		default:
			return false
		}
	}

	select {
	case sub.ch <- event:
		return true
	case <-sub.gone:
		return false
	}
}

func (b *Broker[T]) remove(sub *subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.ch)
	b.current.Add(-1)
}

func (b *Broker[T]) trackPeak(n int32) {
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

// Shutdown closes every subscriber channel. Later publishes are dropped.
func (b *Broker[T]) Shutdown() {
	b.closeOnce.Do(func() {
		close(b.done)

		b.mu.Lock()
		defer b.mu.Unlock()
		for sub := range b.subs {
			sub.cancel()
			delete(b.subs, sub)
			close(sub.ch)
		}
		b.current.Store(0)
	})
}

// IsShutdown returns true if the broker has been shut down.
func (b *Broker[T]) IsShutdown() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker[T]) SubscriberCount() int {
	return int(b.current.Load())
}

// Metrics returns the broker's counters.
func (b *Broker[T]) Metrics() BrokerMetrics {
	return BrokerMetrics{
		Name:            b.name,
		PublishCount:    b.published.Load(),
		DropCount:       b.dropped.Load(),
		SubscriberCount: int(b.current.Load()),
		SubscriberPeak:  int(b.peak.Load()),
	}
}

// BrokerMetrics contains broker statistics.
type BrokerMetrics struct {
	Name            string
	PublishCount    int64
	DropCount       int64
	SubscriberCount int
	SubscriberPeak  int
}
