package scheduler

import (
	"fmt"
	"time"
)

// Callback is called when a timer expires. The param value is the value given
// to Timer.Adjust()
type Callback func(param int)

// Timer is created by Scheduler.NewTimer() and lives for the lifetime of the
// scheduler
type Timer struct {
	sched *Scheduler
	name  string
	cb    Callback

	// the parameters of the most recent call to Adjust()
	adjusted bool
	start    time.Duration
	period   time.Duration
	param    int

	enabled bool
	expire  time.Duration
	fired   int
}

func (t *Timer) Name() string {
	return t.name
}

// Adjust schedules the first expiry of the timer for start after the current
// time. A period of zero means that the timer will fire once
func (t *Timer) Adjust(start time.Duration, param int, period time.Duration) {
	t.adjusted = true
	t.start = start
	t.param = param
	t.period = period
	t.enabled = true
	t.expire = t.sched.now + start
}

// Enable or disable the timer. Returns the previous enabled state
func (t *Timer) Enable(enable bool) bool {
	prev := t.enabled
	t.enabled = enable && t.adjusted
	return prev
}

func (t *Timer) Enabled() bool {
	return t.enabled
}

// Period returns the period of the timer. Zero for one-shot timers
func (t *Timer) Period() time.Duration {
	return t.period
}

// Remaining returns the time until the timer next expires. Zero for a disabled
// timer
func (t *Timer) Remaining() time.Duration {
	if !t.enabled {
		return 0
	}
	return t.expire - t.sched.now
}

// Fired returns the number of times the timer has fired since it was created
// or since the last reset
func (t *Timer) Fired() int {
	return t.fired
}

func (t *Timer) fire() {
	t.fired++
	if t.period > 0 {
		t.expire += t.period
	} else {
		t.enabled = false
	}
	if t.cb != nil {
		t.cb(t.param)
	}
}

func (t *Timer) String() string {
	if !t.enabled {
		return fmt.Sprintf("%s: disabled (fired %d)", t.name, t.fired)
	}
	if t.period == 0 {
		return fmt.Sprintf("%s: in %v (fired %d)", t.name, t.Remaining(), t.fired)
	}
	return fmt.Sprintf("%s: in %v every %v (fired %d)", t.name, t.Remaining(), t.period, t.fired)
}
