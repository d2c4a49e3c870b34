package yamaha

import (
	"fmt"
	"time"

	"github.com/jetsetilly/portasound/hardware"
	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/hardware/memory/descramble"
	"github.com/jetsetilly/portasound/hardware/scheduler"
	"github.com/jetsetilly/portasound/logger"
)

const logTag = "yamaha"

// interrupt flag set by the interrupt hack
const hackInterrupt = 3

// the period of the interrupt hack timer
const hackPeriod = time.Millisecond

// installInterruptHack allocates a timer that sets bit 3 of the CPU's IF
// register every millisecond. The flag is never cleared because there is no
// CPU core to service it
func installInterruptHack(m *hardware.Machine) *scheduler.Timer {
	tm := m.Scheduler.NewTimer("interrupt hack", func(_ int) {
		m.CPU.SetStateInt(mn1880.IF, m.CPU.StateInt(mn1880.IF)|1<<hackInterrupt)
	})
	tm.Adjust(hackPeriod, 0, hackPeriod)
	return tm
}

// descrambleRegion applies the wiring to the named region. Unconfirmed wirings
// are only applied if the context allows it
func descrambleRegion(m *hardware.Machine, name string, w descramble.Wiring) error {
	data, ok := m.Regions.Bytes(name)
	if !ok {
		return fmt.Errorf("descramble: no region named %s", name)
	}

	if !w.Confirmed && !m.Context().UnconfirmedDescramble() {
		logger.Logf(logger.Allow, logTag, "%s: %s wiring is unconfirmed. region left scrambled", name, w.Name)
		return nil
	}

	err := w.Apply(data)
	if err != nil {
		return fmt.Errorf("descramble: %s: %w", name, err)
	}

	logger.Logf(logger.Allow, logTag, "%s: descrambled with %s", name, w)
	return nil
}
