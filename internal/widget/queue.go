package widget

import (
	"context"
	"log"
	"sync/atomic"
)

// QueueCapacity is the bounded size of the scheduler's message queue.
const QueueCapacity = 16

// Queue is the producer→scheduler handoff: a bounded FIFO with any number
// of non-blocking producers and a single blocking-or-polling consumer.
// Producers never wait; when the queue is full the message is logged and
// dropped. That is safe because the producing reducer has already advanced
// its announced state, so the next natural change re-evaluates from scratch.
type Queue struct {
	ch      chan Message
	dropped atomic.Uint64
}

// NewQueue creates a Queue with the given capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan Message, capacity)}
}

// TryPut enqueues without blocking. Returns false if the message was
// dropped because the queue is full.
func (q *Queue) TryPut(m Message) bool {
	select {
	case q.ch <- m:
		return true
	default:
		q.dropped.Add(1)
		log.Printf("widget: queue full, dropping %s", m)
		return false
	}
}

// Get blocks until a message is available or ctx is cancelled.
func (q *Queue) Get(ctx context.Context) (Message, bool) {
	select {
	case m := <-q.ch:
		return m, true
	case <-ctx.Done():
		return nil, false
	}
}

// Poll returns the next message without waiting.
func (q *Queue) Poll() (Message, bool) {
	select {
	case m := <-q.ch:
		return m, true
	default:
		return nil, false
	}
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Dropped returns the number of messages dropped on overflow since startup.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
