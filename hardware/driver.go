package hardware

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/portasound/hardware/memory/region"
)

// Flags describe the emulation status of a driver
type Flags int

// List of valid Flags
const (
	// the driver is a skeleton. there is enough to start the machine but not
	// much more
	Skeleton Flags = 1 << iota

	// sound is not emulated
	NoSound

	// the machine does not work
	NotWorking
)

func (f Flags) String() string {
	var s []string
	if f&Skeleton == Skeleton {
		s = append(s, "skeleton")
	}
	if f&NoSound == NoSound {
		s = append(s, "no sound")
	}
	if f&NotWorking == NotWorking {
		s = append(s, "not working")
	}
	if len(s) == 0 {
		return "working"
	}
	return strings.Join(s, ", ")
}

// Driver describes a machine that can be emulated
type Driver struct {
	Name         string
	Parent       string
	Year         int
	Manufacturer string
	Description  string
	Flags        Flags
	Regions      []region.Def

	// New creates the driver state for a new machine
	New func() State
}

func (drv Driver) String() string {
	s := fmt.Sprintf("%-8s %d %s %s", drv.Name, drv.Year, drv.Manufacturer, drv.Description)
	if drv.Parent != "" {
		s = fmt.Sprintf("%s (clone of %s)", s, drv.Parent)
	}
	return s
}

// State is the driver specific part of a machine
type State interface {
	// Configure declares the devices of the machine and how they are connected
	Configure(cfg *Config)

	// DriverStart is called once after the ROM regions have been loaded and
	// the address spaces have been created
	DriverStart(m *Machine) error

	// MachineStart is called once after DriverStart(). It is the place to
	// allocate timers
	MachineStart(m *Machine) error
}
