package scheduler

import (
	"math"
	"sync"
	"time"

	"github.com/mcoot/wordrush/internal/dependencies/clock"
)

// DefaultInterval is the countdown granularity
const DefaultInterval = time.Second

// Scheduler runs round countdowns
type Scheduler struct {
	clock    clock.Clock
	interval time.Duration
}

// New creates a new Scheduler ticking once per second
func New(clock clock.Clock) *Scheduler {
	return &Scheduler{clock: clock, interval: DefaultInterval}
}

// Round is one running countdown
type Round struct {
	deadline time.Time
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// Start begins a countdown of the given duration. onTick receives the whole
// seconds remaining after each interval; onEnd runs once when time is up.
// Neither callback runs after Stop has returned unless it was already in flight.
func (s *Scheduler) Start(duration time.Duration, onTick func(remaining int), onEnd func()) *Round {
	r := &Round{
		deadline: s.clock.Now().Add(duration),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	// Created before the goroutine so the first interval is measured from Start
	ticker := s.clock.NewTicker(s.interval)

	go func() {
		defer close(r.done)
		defer ticker.Stop()

		for {
			select {
			case <-r.stop:
				return
			case now := <-ticker.C():
				select {
				case <-r.stop:
					return
				default:
				}

				remaining := Remaining(r.deadline, now)
				if remaining <= 0 {
					onEnd()
					return
				}
				onTick(remaining)
			}
		}
	}()

	return r
}

// Deadline returns when the round ends
func (r *Round) Deadline() time.Time {
	return r.deadline
}

// Stop cancels the countdown. Safe to call more than once, and from inside a callback.
func (r *Round) Stop() {
	r.once.Do(func() {
		close(r.stop)
	})
}

// Done is closed once the countdown goroutine has exited
func (r *Round) Done() <-chan struct{} {
	return r.done
}

// Remaining returns the whole seconds left until deadline, rounded up and never negative
func Remaining(deadline, now time.Time) int {
	left := deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}
