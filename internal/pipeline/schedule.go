package pipeline

import (
	"fmt"
	"sync"
	"time"
)

// Scheduler gates the daily refresh: at most one run per calendar day,
// starting no earlier than the configured HH:MM local time.
type Scheduler struct {
	hour, minute int

	mu      sync.Mutex
	lastRun string
}

// NewScheduler parses the "HH:MM" refresh time.
func NewScheduler(at string) (*Scheduler, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh time %q: %w", at, err)
	}
	return &Scheduler{hour: t.Hour(), minute: t.Minute()}, nil
}

// localDay keys runs by the calendar day in now's own location. The cutoff
// below is built in the same location; mixing in a UTC day would mark the
// wrong day as done near midnight.
func localDay(now time.Time) string {
	return now.Format("2006-01-02")
}

// ShouldRefreshNow reports whether a refresh is due at now.
func (s *Scheduler) ShouldRefreshNow(now time.Time) bool {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if now.Before(cutoff) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun != localDay(now)
}

// MarkRun records that today's refresh happened.
func (s *Scheduler) MarkRun(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = localDay(now)
}
