package widget

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/status-led/internal/led"
	"github.com/sweeney/status-led/internal/pattern"
	"github.com/sweeney/status-led/internal/status"
)

// Scheduler is the single consumer of the message queue. It owns the
// active-pattern mask, the default color and the LED setter; nothing else
// may touch them. Each loop iteration applies at most one message, then
// either idles at the default color or plays the highest-priority active
// pattern to completion.
type Scheduler struct {
	queue   *Queue
	setter  *led.Setter
	tracker *status.Tracker

	mask         pattern.Mask
	defaultColor led.Color
	interval     time.Duration
	counts       status.Counts
}

// NewScheduler creates a Scheduler consuming from queue and writing through
// setter. The tracker may be nil.
func NewScheduler(queue *Queue, setter *led.Setter, tracker *status.Tracker) *Scheduler {
	return &Scheduler{
		queue:    queue,
		setter:   setter,
		tracker:  tracker,
		interval: pattern.IntervalMs * time.Millisecond,
	}
}

// SetInterval overrides the inter-pattern rest. Tests shorten it.
func (s *Scheduler) SetInterval(d time.Duration) {
	s.interval = d
}

// Run executes the scheduler loop until ctx is cancelled. When no pattern
// is active it blocks on the queue; once any pattern is active it polls
// instead, so the loop keeps redisplaying without fresh messages.
func (s *Scheduler) Run(ctx context.Context) {
	s.setter.Set(s.defaultColor, 0)

	for {
		var msg Message
		var ok bool
		if s.mask.Empty() {
			msg, ok = s.queue.Get(ctx)
			if !ok {
				return
			}
		} else {
			if ctx.Err() != nil {
				return
			}
			msg, ok = s.queue.Poll()
		}

		if ok {
			s.apply(msg)
			s.counts.MessagesApplied++
		}

		if s.mask.Empty() {
			s.setter.Set(s.defaultColor, 0)
			s.publishState(pattern.None)
			continue
		}

		highest := s.mask.Highest()
		s.display(highest)
		s.publishState(highest)
	}
}

// apply folds one message into the scheduler state.
func (s *Scheduler) apply(msg Message) {
	switch m := msg.(type) {
	case ColorSet:
		log.Printf("widget: applying %s", m)
		s.defaultColor = m.Color
	case PatternSwap:
		// Clear before set: a swap with off == on leaves the bit set.
		s.mask = s.mask.Clear(m.Off).Set(m.On)
		log.Printf("widget: applying %s, active mask %05b", m, s.mask)
	default:
		log.Printf("widget: unknown message %s", msg)
	}
}

// display plays one full pattern: Times blinks at the level opposite the
// default color, resting at the default color between blinks, then the
// inter-pattern rest. The blocking sleeps are the bounded-latency tradeoff:
// new messages wait until the display finishes.
func (s *Scheduler) display(id pattern.ID) {
	p, ok := pattern.Lookup(id)
	if !ok {
		log.Printf("widget: invalid pattern index %d", id)
		return
	}

	active := s.defaultColor.Opposite()
	for i := uint8(0); i < p.Times; i++ {
		s.setter.Set(active, time.Duration(p.DurationMs)*time.Millisecond)
		if i < p.Times-1 {
			s.setter.Set(s.defaultColor, time.Duration(p.SleepMs)*time.Millisecond)
		}
	}
	s.setter.Set(s.defaultColor, s.interval)
	s.counts.PatternsPlayed++
}

func (s *Scheduler) publishState(lastPlayed pattern.ID) {
	s.counts.MessagesDropped = s.queue.Dropped()
	s.tracker.UpdateScheduler(s.defaultColor.String(), s.mask, lastPlayed, s.counts)
}
