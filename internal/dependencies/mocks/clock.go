package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/wordrush/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// Tickers it creates only fire when the test calls Tick.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
	tickers     []*MockTicker
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = c.currentTime.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t
}

// NewTicker returns a MockTicker registered with this clock
func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTicker{ch: make(chan time.Time), clock: c}
	c.tickers = append(c.tickers, t)
	return t
}

// Tick advances the clock by d and fires every live ticker once
func (c *MockClock) Tick(d time.Duration) {
	c.mu.Lock()
	c.currentTime = c.currentTime.Add(d)
	now := c.currentTime
	tickers := make([]*MockTicker, len(c.tickers))
	copy(tickers, c.tickers)
	c.mu.Unlock()

	for _, t := range tickers {
		t.fire(now)
	}
}

// TickerCount returns the number of tickers that have not been stopped
func (c *MockClock) TickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, t := range c.tickers {
		if !t.isStopped() {
			count++
		}
	}
	return count
}

// MockTicker is a ticker fired manually through MockClock.Tick
type MockTicker struct {
	mu      sync.Mutex
	ch      chan time.Time
	stopped bool
	clock   *MockClock
}

// C returns the tick channel
func (t *MockTicker) C() <-chan time.Time {
	return t.ch
}

// Stop stops the ticker; further ticks are not delivered
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *MockTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// fire blocks until the reader receives the tick or a second passes
func (t *MockTicker) fire(now time.Time) {
	if t.isStopped() {
		return
	}
	select {
	case t.ch <- now:
	case <-time.After(time.Second):
	}
}
