package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/blockfall/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	ticker      *MockTicker
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = t
}

// NewTicker returns the clock's shared MockTicker, recording the interval
func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	t := c.Ticker()
	t.mu.Lock()
	t.Interval = d
	t.stopped = false
	t.mu.Unlock()
	return t
}

// Ticker returns the shared MockTicker, creating it on first use
func (c *MockClock) Ticker() *MockTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker == nil {
		c.ticker = NewMockTicker()
	}
	return c.ticker
}

// MockTicker is a manually driven Ticker
type MockTicker struct {
	mu       sync.Mutex
	Interval time.Duration
	ch       chan time.Time
	stopped  bool
}

// Ensure MockTicker implements Ticker
var _ clock.Ticker = (*MockTicker)(nil)

// NewMockTicker creates a MockTicker with a small buffer of pending ticks
func NewMockTicker() *MockTicker {
	return &MockTicker{ch: make(chan time.Time, 16)}
}

// C returns the tick channel
func (t *MockTicker) C() <-chan time.Time {
	return t.ch
}

// Stop marks the ticker stopped; further Tick calls are ignored
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Tick delivers a single tick unless the ticker is stopped
func (t *MockTicker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.ch <- time.Now()
}

// Stopped reports whether Stop has been called
func (t *MockTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
