package blockchain

import (
	"sync"
	"time"
)

// Clock supplies block timestamps.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// SteppedClock returns start, start+step, start+2*step, ... on successive
// calls. Useful for reproducible chains.
type SteppedClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func NewSteppedClock(start time.Time, step time.Duration) *SteppedClock {
	return &SteppedClock{next: start, step: step}
}

func (c *SteppedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}
