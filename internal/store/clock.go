package store

import (
	"sync"
	"time"
)

// Resolution is the timestamp granularity every backend can store exactly.
const Resolution = time.Microsecond

// Clock hands out strictly increasing UTC timestamps at Resolution, so rows
// created in sequence always sort in creation order.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewClock returns a Clock reading from now, or time.Now when now is nil.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Now returns a timestamp after every value previously returned.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC().Truncate(Resolution)
	if !t.After(c.last) {
		t = c.last.Add(Resolution)
	}
	c.last = t
	return t
}

// Stamp fills zero CreatedAt/UpdatedAt style fields.
func (c *Clock) Stamp(created, updated *time.Time) {
	if created.IsZero() {
		*created = c.Now()
	} else {
		*created = created.UTC().Truncate(Resolution)
	}
	if updated.IsZero() {
		*updated = *created
	} else {
		*updated = updated.UTC().Truncate(Resolution)
	}
}
