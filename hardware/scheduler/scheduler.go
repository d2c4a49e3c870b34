// Package scheduler keeps the emulated time of the machine and fires timers as
// that time is advanced. The scheduler is not safe for concurrent use and
// should only be used by the emulation goroutine.
package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// Scheduler is the emulated clock and the list of timers
type Scheduler struct {
	now    time.Duration
	timers []*Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current emulated time
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// NewTimer adds a timer to the scheduler. The timer is disabled until Adjust()
// is called
func (s *Scheduler) NewTimer(name string, cb Callback) *Timer {
	t := &Timer{
		sched: s,
		name:  name,
		cb:    cb,
	}
	s.timers = append(s.timers, t)
	return t
}

// Timers returns all timers in the order in which they were created
func (s *Scheduler) Timers() []*Timer {
	return s.timers
}

// next returns the enabled timer with the earliest expiry. timers that share
// an expiry time are returned in creation order
func (s *Scheduler) next() *Timer {
	var n *Timer
	for _, t := range s.timers {
		if !t.enabled {
			continue // for loop
		}
		if n == nil || t.expire < n.expire {
			n = t
		}
	}
	return n
}

// Next returns the time of the next timer expiry. The ok result is false if no
// timer is enabled
func (s *Scheduler) Next() (time.Duration, bool) {
	t := s.next()
	if t == nil {
		return 0, false
	}
	return t.expire, true
}

// Advance moves the clock forward by the duration, firing every timer that
// expires in that time in expiry order. A periodic timer will fire once for
// every period that elapses. The clock never moves backwards. A duration of
// zero fires the timers that expire at the current time
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := s.now + d
	for {
		t := s.next()
		if t == nil || t.expire > target {
			break // for loop
		}
		s.now = t.expire
		t.fire()
	}
	s.now = target
}

// Reset rewinds the clock to zero and rearms every timer that has been
// adjusted with the most recent adjustment
func (s *Scheduler) Reset() {
	s.now = 0
	for _, t := range s.timers {
		t.fired = 0
		t.enabled = t.adjusted
		t.expire = t.start
	}
}

func (s *Scheduler) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("now %v", s.now))
	for _, t := range s.timers {
		b.WriteString("\n")
		b.WriteString(t.String())
	}
	return b.String()
}
