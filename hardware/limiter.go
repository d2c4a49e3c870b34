package hardware

import (
	"time"
)

// the amount of emulated time between each limiter wait
const limiterQuantum = 10 * time.Millisecond

type limiter struct {
	tick  *time.Ticker
	nudge chan bool

	quantum time.Duration
	acc     time.Duration

	// the payload function for the Wait() method
	wait func()
}

func newLimiter(quantum time.Duration) *limiter {
	l := &limiter{
		nudge:   make(chan bool, 1),
		quantum: quantum,
	}

	// the wait() function deliberatey starts slow and then changes state after a few nudges to
	// normal operation
	//
	// this helps ensure that the audio and emulation synchronise after startup
	var ct int
	l.wait = func() {
		select {
		case <-time.After(time.Duration(float64(quantum) * 1.025)):
		case <-l.nudge:
			ct++
			if ct > 2 {
				l.tick = time.NewTicker(quantum)
				l.wait = func() {
					select {
					case <-l.tick.C:
					case <-l.nudge:
					}
				}
			}
		}
	}

	return l
}

// Advance the limiter by the amount of emulated time. The function will wait
// for every quantum that has passed
func (l *limiter) Advance(d time.Duration) {
	l.acc += d
	for l.acc >= l.quantum {
		l.acc -= l.quantum
		l.Wait()
	}
}

func (l *limiter) Wait() {
	l.wait()
}

func (l *limiter) Nudge() {
	select {
	case l.nudge <- true:
	default:
	}
}
