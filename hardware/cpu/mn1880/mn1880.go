// Package mn1880 is a skeleton of the Panasonic (Matsushita) MN1880 family of
// CPUs. There is no instruction core. The CPU holds the state registers that
// are visible to the rest of the machine and burns clock cycles for the time
// it is asked to execute.
package mn1880

import (
	"fmt"
	"strings"
	"time"

	"github.com/jetsetilly/portasound/hardware/clocks"
)

// State identifies one of the CPU state registers
type State int

// List of valid State values
const (
	PC State = iota
	SP
	FS
	IE
	IF
	XP
	YP
	LP
	NumStates
)

var stateNames = [NumStates]string{"PC", "SP", "FS", "IE", "IF", "XP", "YP", "LP"}

// the width of each state register
var stateMasks = [NumStates]uint32{0xffff, 0xffff, 0xff, 0xffff, 0xffff, 0xffff, 0xffff, 0xffff}

func (s State) String() string {
	if s < 0 || s >= NumStates {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// StateByName returns the State with the name. The name is not case sensitive
func StateByName(name string) (State, bool) {
	name = strings.ToUpper(name)
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return 0, false
}

// Variant describes a member of the MN1880 family
type Variant struct {
	Name     string
	Clock    int
	SubClock int
}

var MN18801A = Variant{
	Name:     "MN18801A",
	Clock:    clocks.MN18801A,
	SubClock: clocks.MN18801A_sub,
}

// Bus is the interface to an address space of the CPU
type Bus interface {
	Read(address uint32) (uint8, error)
	Write(address uint32, data uint8) error
}

type CPU struct {
	variant Variant

	// the program and data address spaces
	Program Bus
	Data    Bus

	state [NumStates]uint32

	// number of cycles executed since reset
	cycles uint64

	// the part of a cycle left over from the previous call to Execute(). in
	// units of cycles*nanoseconds
	remainder int64
}

func NewCPU(variant Variant) *CPU {
	return &CPU{
		variant: variant,
	}
}

func (mc *CPU) Label() string {
	return mc.variant.Name
}

// Clock returns the clock frequency of the CPU in Hz
func (mc *CPU) Clock() int {
	return mc.variant.Clock
}

// Reset zeroes all state registers and the cycle count
func (mc *CPU) Reset() {
	clear(mc.state[:])
	mc.cycles = 0
	mc.remainder = 0
}

// StateInt returns the value of the state register. Returns zero for an
// unknown state register
func (mc *CPU) StateInt(s State) uint32 {
	if s < 0 || s >= NumStates {
		return 0
	}
	return mc.state[s]
}

// SetStateInt sets the value of the state register. The value is masked to the
// width of the register. Unknown state registers are ignored
func (mc *CPU) SetStateInt(s State, v uint32) {
	if s < 0 || s >= NumStates {
		return
	}
	mc.state[s] = v & stateMasks[s]
}

// StateName returns the name of the state register
func (mc *CPU) StateName(s State) string {
	return s.String()
}

// Execute runs the CPU for the duration. Returns the number of cycles
// executed. There is no instruction core so the cycles are simply counted
func (mc *CPU) Execute(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	acc := int64(d)*int64(mc.variant.Clock) + mc.remainder
	n := acc / int64(time.Second)
	mc.remainder = acc % int64(time.Second)
	mc.cycles += uint64(n)
	return int(n)
}

// Cycles returns the number of cycles executed since the last reset
func (mc *CPU) Cycles() uint64 {
	return mc.cycles
}

func (mc *CPU) String() string {
	var s strings.Builder
	for i := range NumStates {
		if i > 0 {
			s.WriteString(" ")
		}
		if stateMasks[i] == 0xff {
			s.WriteString(fmt.Sprintf("%s=%02x", stateNames[i], mc.state[i]))
		} else {
			s.WriteString(fmt.Sprintf("%s=%04x", stateNames[i], mc.state[i]))
		}
	}
	s.WriteString(fmt.Sprintf(" cycles=%d", mc.cycles))
	return s.String()
}

// PendingInterrupts returns the bits in the IF register as a list of interrupt
// numbers. Interrupts are never serviced because there is no instruction core
func (mc *CPU) PendingInterrupts() []int {
	var p []int
	f := mc.state[IF]
	for i := 0; f != 0; i++ {
		if f&1 == 1 {
			p = append(p, i)
		}
		f >>= 1
	}
	return p
}
