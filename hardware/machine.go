package hardware

import (
	"errors"
	"fmt"
	"time"

	"github.com/jetsetilly/portasound/hardware/audio"
	"github.com/jetsetilly/portasound/hardware/clocks"
	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/hardware/gew"
	"github.com/jetsetilly/portasound/hardware/memory"
	"github.com/jetsetilly/portasound/hardware/memory/region"
	"github.com/jetsetilly/portasound/hardware/scheduler"
	"github.com/jetsetilly/portasound/logger"
)

// Sentinel errors
var (
	ErrUnknownDevice = errors.New("unknown device")
	ErrNoCPU         = errors.New("machine has no CPU")
)

// Context is the environment the machine is running in
type Context interface {
	Rand8Bit() uint8

	// whether descramble wirings that have not been confirmed against real
	// hardware should be applied to ROM regions
	UnconfirmedDescramble() bool
}

// the amount of time to advance the machine by if no timer is scheduled
const idleSlice = time.Millisecond

type Machine struct {
	ctx    Context
	Driver Driver
	state  State
	config Config

	CPU       *mn1880.CPU
	Program   *memory.Space
	Data      *memory.Space
	Regions   *region.Set
	Report    region.Report
	Scheduler *scheduler.Scheduler
	Mixer     *audio.Mixer

	sound map[string]*gew.GEW
	order []string

	// the limiter is always present but is only used if realtime is true
	limiter  *limiter
	realtime bool
}

// resolver implements the memory.Resolver interface for the machine
type resolver struct {
	m       *Machine
	unknown string
}

func (r *resolver) Rand8Bit() uint8 {
	return r.m.ctx.Rand8Bit()
}

func (r *resolver) Region(name string) ([]uint8, bool) {
	return r.m.Regions.Bytes(name)
}

func (r *resolver) Device(tag string) (memory.Area, bool) {
	if g, ok := r.m.sound[tag]; ok {
		return g, true
	}
	r.unknown = tag
	return nil, false
}

// Create a new machine for the driver. ROM files are searched for in the
// directories of the rompath. The search is in a subdirectory or zip file
// named after the driver and then the parent of the driver
func Create(ctx Context, drv Driver, rompath []string) (*Machine, error) {
	if drv.New == nil {
		return nil, fmt.Errorf("hardware: driver %s has no state", drv.Name)
	}

	m := &Machine{
		ctx:       ctx,
		Driver:    drv,
		state:     drv.New(),
		Scheduler: scheduler.NewScheduler(),
		sound:     make(map[string]*gew.GEW),
		limiter:   newLimiter(limiterQuantum),
	}

	// machine configuration
	m.state.Configure(&m.config)
	if m.config.CPU.Program == nil && m.config.CPU.Data == nil {
		return nil, fmt.Errorf("hardware: %s: %w", drv.Name, ErrNoCPU)
	}
	m.CPU = mn1880.NewCPU(m.config.CPU.Variant)

	rate := 0
	for _, snd := range m.config.Sound {
		if _, ok := m.sound[snd.Tag]; ok {
			return nil, fmt.Errorf("hardware: %s: duplicate device tag %s", drv.Name, snd.Tag)
		}
		g := gew.NewGEW(snd.Tag, snd.Variant, snd.Clock)
		m.sound[snd.Tag] = g
		m.order = append(m.order, snd.Tag)
		if rate == 0 {
			rate = g.SampleRate()
		}
	}
	if rate == 0 {
		rate = int(clocks.GEW) / clocks.GEWSampleDivider
	}

	m.Mixer = audio.NewMixer(rate)
	for _, spk := range m.config.Speakers {
		m.Mixer.AddSpeaker(spk.Tag, spk.Position)
	}
	for _, tag := range m.order {
		m.Mixer.AddDevice(m.sound[tag])
	}
	for _, r := range m.config.Routes {
		if _, ok := m.sound[r.Device]; !ok {
			return nil, fmt.Errorf("hardware: %s: %w: %s", drv.Name, ErrUnknownDevice, r.Device)
		}
		err := m.Mixer.AddRoute(r)
		if err != nil {
			return nil, fmt.Errorf("hardware: %s: %w", drv.Name, err)
		}
	}

	// load regions
	names := []string{drv.Name}
	if drv.Parent != "" {
		names = append(names, drv.Parent)
	}
	ld := region.Loader{
		Rompath: rompath,
		Names:   names,
	}
	var err error
	m.Regions, m.Report, err = ld.Load(drv.Regions)
	if err != nil {
		return nil, fmt.Errorf("hardware: %s: %w", drv.Name, err)
	}

	// sound devices read samples from the region with the same name as the
	// device
	for tag, g := range m.sound {
		if data, ok := m.Regions.Bytes(tag); ok {
			g.SetSamples(data)
		}
	}

	// build address spaces
	m.Program, err = m.space("program", m.config.CPU.ProgramWidth, m.config.CPU.Program)
	if err != nil {
		return nil, fmt.Errorf("hardware: %s: %w", drv.Name, err)
	}
	m.Data, err = m.space("data", m.config.CPU.DataWidth, m.config.CPU.Data)
	if err != nil {
		return nil, fmt.Errorf("hardware: %s: %w", drv.Name, err)
	}
	m.CPU.Program = m.Program
	m.CPU.Data = m.Data

	err = m.state.DriverStart(m)
	if err != nil {
		return nil, fmt.Errorf("hardware: %s: %w", drv.Name, err)
	}
	err = m.state.MachineStart(m)
	if err != nil {
		return nil, fmt.Errorf("hardware: %s: %w", drv.Name, err)
	}

	m.Reset(false)

	logger.Logf(logger.Allow, "hardware", "%s started: %s", drv.Name, drv.Flags)

	return m, nil
}

func (m *Machine) space(name string, width int, fn MapFunc) (*memory.Space, error) {
	var mp memory.Map
	if fn != nil {
		fn(&mp)
	}
	if width == 0 {
		width = addressWidth
	}

	res := &resolver{m: m}
	spc, err := memory.NewSpace(name, width, &mp, res)
	if err != nil {
		if res.unknown != "" {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnknownDevice, res.unknown, err)
		}
		return nil, err
	}
	return spc, nil
}

// Context returns the context the machine was created with
func (m *Machine) Context() Context {
	return m.ctx
}

// Sound returns the sound device with the tag
func (m *Machine) Sound(tag string) (*gew.GEW, bool) {
	g, ok := m.sound[tag]
	return g, ok
}

// SoundTags returns the tags of all sound devices in the order they were
// configured
func (m *Machine) SoundTags() []string {
	return m.order
}

// Config returns the machine configuration
func (m *Machine) Config() Config {
	return m.config
}

// Reset the machine. RAM is randomised if random is true, otherwise it is
// cleared
func (m *Machine) Reset(random bool) {
	m.Program.Reset(random)
	m.Data.Reset(random)
	m.CPU.Reset()
	for _, g := range m.sound {
		g.Reset()
	}
	m.Scheduler.Reset()
	m.Mixer.Reset()
}

// Now returns the current emulated time
func (m *Machine) Now() time.Duration {
	return m.Scheduler.Now()
}

// advance moves the machine forward by the duration. the CPU runs first and
// then any timers that have expired are fired
func (m *Machine) advance(d time.Duration) error {
	m.CPU.Execute(d)
	_, err := m.Mixer.Advance(d)
	if err != nil {
		return err
	}
	m.Scheduler.Advance(d)
	return nil
}

// Step advances the machine to the next scheduled event. If no event is
// scheduled the machine is advanced by a small fixed amount. Returns the
// amount of time advanced
func (m *Machine) Step() (time.Duration, error) {
	return m.stepLimited(idleSlice)
}

// stepLimited advances to the next scheduled event but by no more than limit
func (m *Machine) stepLimited(limit time.Duration) (time.Duration, error) {
	d := limit
	if next, ok := m.Scheduler.Next(); ok {
		d = min(max(next-m.Scheduler.Now(), 0), limit)
	}
	return d, m.advance(d)
}

// RunFor advances the machine by the duration of emulated time. Timers are
// fired in order as the machine advances
func (m *Machine) RunFor(d time.Duration) error {
	target := m.Scheduler.Now() + d
	for m.Scheduler.Now() < target {
		_, err := m.stepLimited(min(target-m.Scheduler.Now(), idleSlice))
		if err != nil {
			return err
		}
	}
	return nil
}

// SetRealTime paces the Run() function to real time. Otherwise the
// machine runs as quickly as possible
func (m *Machine) SetRealTime(realtime bool) {
	m.realtime = realtime
}

func (m *Machine) RealTime() bool {
	return m.realtime
}

// Nudge the limiter. This is used by the audio player to keep the limiter
// synchronised with audio output
func (m *Machine) Nudge() {
	m.limiter.Nudge()
}

// Run the machine until the hook function returns an error. The hook is called
// after every step
func (m *Machine) Run(hook func() error) error {
	for {
		d, err := m.Step()
		if err != nil {
			return err
		}

		if m.realtime {
			m.limiter.Advance(d)
		}

		err = hook()
		if err != nil {
			return err
		}
	}
}

// RunUntil is like Run() but returns with a nil error when the emulated time
// reaches the target. A target in the past returns immediately
func (m *Machine) RunUntil(target time.Duration, hook func() error) error {
	for m.Scheduler.Now() < target {
		d, err := m.stepLimited(min(target-m.Scheduler.Now(), idleSlice))
		if err != nil {
			return err
		}

		if m.realtime {
			m.limiter.Advance(d)
		}

		err = hook()
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) String() string {
	return fmt.Sprintf("%s (%s) %v", m.Driver.Name, m.Driver.Description, m.Now())
}
