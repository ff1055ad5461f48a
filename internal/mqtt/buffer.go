package mqtt

import "log"

// pendingCapacity bounds how many lifecycle events wait for a reconnect.
const pendingCapacity = 8

// pendingEvents is a fixed-capacity FIFO holding lifecycle events produced
// while the broker is unreachable. On overflow the oldest event is dropped:
// a stale STARTUP is worthless once a newer one exists.
// Not safe for concurrent use — caller must synchronize.
type pendingEvents struct {
	buf      []SystemEvent
	capacity int
	head     int // next write position
	count    int
	overflow bool // true if any event was dropped since last drain
}

func newPendingEvents(capacity int) *pendingEvents {
	return &pendingEvents{
		buf:      make([]SystemEvent, capacity),
		capacity: capacity,
	}
}

func (p *pendingEvents) push(event SystemEvent) {
	if p.count == p.capacity {
		if !p.overflow {
			log.Printf("mqtt: pending buffer full (%d events), dropping oldest", p.capacity)
			p.overflow = true
		}
		// Overwrite oldest: head is already pointing at it
		p.buf[p.head] = event
		p.head = (p.head + 1) % p.capacity
		// count stays at capacity
		return
	}
	p.buf[p.head] = event
	p.head = (p.head + 1) % p.capacity
	p.count++
}

func (p *pendingEvents) drainAll() []SystemEvent {
	if p.count == 0 {
		return nil
	}

	result := make([]SystemEvent, p.count)
	// Oldest item is at (head - count) mod capacity
	start := (p.head - p.count + p.capacity) % p.capacity
	for i := 0; i < p.count; i++ {
		result[i] = p.buf[(start+i)%p.capacity]
	}

	p.count = 0
	p.head = 0
	p.overflow = false
	return result
}

func (p *pendingEvents) len() int {
	return p.count
}
