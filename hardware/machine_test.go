package hardware_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jetsetilly/portasound/hardware"
	"github.com/jetsetilly/portasound/hardware/audio"
	"github.com/jetsetilly/portasound/hardware/clocks"
	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/hardware/gew"
	"github.com/jetsetilly/portasound/hardware/memory"
	"github.com/jetsetilly/portasound/hardware/memory/region"
	"github.com/jetsetilly/portasound/test"
)

type context struct{}

func (_ context) Rand8Bit() uint8 {
	return 0x55
}

func (_ context) UnconfirmedDescramble() bool {
	return false
}

type state struct {
	device string

	// RAM of more than 64k that is not a multiple of 64k in size
	bigRAM bool

	driverStart  int
	machineStart int
	ticks        int
}

func (st *state) Configure(cfg *hardware.Config) {
	cfg.SetCPU(mn1880.MN18801A,
		func(m *memory.Map) {
			m.Range(0x0000, 0x0fff).ROM("program", 0)
		},
		func(m *memory.Map) {
			if st.bigRAM {
				m.Range(0x000080, 0x03ffff).RAM()
				m.Range(0x100000, 0x10000f).Mirror(0x0ff0).Device(st.device)
				return
			}
			m.Range(0x0000, 0x03ff).RAM()
			m.Range(0x8000, 0x800f).Mirror(0x0ff0).Device(st.device)
		})
	cfg.AddSpeaker("lspeaker", audio.FrontLeft)
	cfg.AddSpeaker("rspeaker", audio.FrontRight)
	cfg.AddSound("gew6", gew.GEW6, clocks.GEW)
	cfg.AddRoute("gew6", 1, "lspeaker", 1.0)
	cfg.AddRoute("gew6", 0, "rspeaker", 1.0)
}

func (st *state) DriverStart(m *hardware.Machine) error {
	st.driverStart++
	return nil
}

func (st *state) MachineStart(m *hardware.Machine) error {
	st.machineStart++
	tm := m.Scheduler.NewTimer("tick", func(_ int) {
		st.ticks++
	})
	tm.Adjust(time.Millisecond, 0, time.Millisecond)
	return nil
}

func newDriver(st *state) hardware.Driver {
	return hardware.Driver{
		Name:        "testdrv",
		Year:        1990,
		Description: "test driver",
		Flags:       hardware.Skeleton | hardware.NoSound,
		Regions: []region.Def{
			{
				Name: "program",
				Size: 0x1000,
				ROMs: []region.ROM{region.NoDump("missing.bin", 0, 0x1000)},
			},
		},
		New: func() hardware.State {
			return st
		},
	}
}

func TestCreate(t *testing.T) {
	st := &state{device: "gew6"}
	m, err := hardware.Create(context{}, newDriver(st), []string{t.TempDir()})
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, st.driverStart, 1)
	test.ExpectEquality(t, st.machineStart, 1)
	test.ExpectEquality(t, len(m.Report.NoDump), 1)

	g, ok := m.Sound("gew6")
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, m.Mixer.SampleRate(), g.SampleRate())

	// the sound device is reachable through the data space
	test.ExpectSuccess(t, m.Data.Write(0x8f01, 0x00))
	test.ExpectSuccess(t, m.Data.Write(0x8f02, 0x04))
	test.ExpectSuccess(t, m.Data.Write(0x8f00, 0x80))
	sl, _ := g.Slot(0)
	test.ExpectSuccess(t, sl.KeyOn())

	test.ExpectEquality(t, m.CPU.Label(), "MN18801A")
	test.ExpectEquality(t, m.Driver.Flags.String(), "skeleton, no sound")
}

func TestUnknownDevice(t *testing.T) {
	st := &state{device: "gew8"}
	_, err := hardware.Create(context{}, newDriver(st), []string{t.TempDir()})
	test.ExpectSuccess(t, errors.Is(err, hardware.ErrUnknownDevice))
	test.ExpectSuccess(t, errors.Is(err, memory.ErrBadMap))
}

func TestStep(t *testing.T) {
	st := &state{device: "gew6"}
	m, err := hardware.Create(context{}, newDriver(st), []string{t.TempDir()})
	test.DemandSuccess(t, err)

	// step goes to the next timer expiry
	d, err := m.Step()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, d, time.Millisecond)
	test.ExpectEquality(t, st.ticks, 1)
	test.ExpectEquality(t, m.CPU.Cycles(), 10000)

	test.ExpectSuccess(t, m.RunFor(100*time.Millisecond))
	test.ExpectEquality(t, st.ticks, 101)
	test.ExpectEquality(t, m.Now(), 101*time.Millisecond)

	// audio frames are produced as the machine runs
	test.ExpectInequality(t, m.Mixer.Queued(), 0)

	m.Reset(true)
	test.ExpectEquality(t, m.Now(), 0)
	test.ExpectEquality(t, m.CPU.Cycles(), 0)
	test.ExpectEquality(t, m.Mixer.Queued(), 0)
	v, err := m.Data.Read(0x0010)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x55)
}

func TestRun(t *testing.T) {
	st := &state{device: "gew6"}
	m, err := hardware.Create(context{}, newDriver(st), []string{t.TempDir()})
	test.DemandSuccess(t, err)

	stop := errors.New("stop")

	var ct int
	err = m.Run(func() error {
		ct++
		if ct == 10 {
			return stop
		}
		return nil
	})
	test.ExpectSuccess(t, errors.Is(err, stop))
	test.ExpectEquality(t, st.ticks, 10)
}

func TestRunUntil(t *testing.T) {
	st := &state{device: "gew6"}
	m, err := hardware.Create(context{}, newDriver(st), []string{t.TempDir()})
	test.DemandSuccess(t, err)

	var ct int
	hook := func() error {
		ct++
		return nil
	}

	// the target is not on a timer boundary but is reached exactly
	target := 5*time.Millisecond + 500*time.Microsecond
	test.ExpectSuccess(t, m.RunUntil(target, hook))
	test.ExpectEquality(t, m.Now(), target)
	test.ExpectEquality(t, st.ticks, 5)
	test.ExpectEquality(t, ct, 6)

	// target in the past
	ct = 0
	test.ExpectSuccess(t, m.RunUntil(time.Millisecond, hook))
	test.ExpectEquality(t, m.Now(), target)
	test.ExpectEquality(t, ct, 0)

	stop := errors.New("stop")
	err = m.RunUntil(time.Second, func() error {
		return stop
	})
	test.ExpectSuccess(t, errors.Is(err, stop))
	test.ExpectEquality(t, st.ticks, 6)
}

func TestHeatMap(t *testing.T) {
	st := &state{device: "gew6"}
	m, err := hardware.Create(context{}, newDriver(st), []string{t.TempDir()})
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, m.Data.Write(0x0001, 0xff))
	img := m.HeatMap()
	test.ExpectEquality(t, img.Bounds().Dx(), hardware.HeatMapWidth)
	test.ExpectEquality(t, img.Bounds().Dy(), 4)

	c := img.RGBAAt(1, 0)
	test.ExpectInequality(t, c.R, 0)
	test.ExpectEquality(t, c.G, 0)
	test.ExpectEquality(t, c.B, 0xff>>2)

	c = img.RGBAAt(2, 0)
	test.ExpectEquality(t, c.R, 0)
}

func TestHeatMapLargeRAM(t *testing.T) {
	st := &state{device: "gew6", bigRAM: true}
	m, err := hardware.Create(context{}, newDriver(st), []string{t.TempDir()})
	test.DemandSuccess(t, err)

	// four bytes per pixel
	img := m.HeatMap()
	test.ExpectEquality(t, img.Bounds().Dx(), hardware.HeatMapWidth)
	test.ExpectEquality(t, img.Bounds().Dy(), 256)

	// the last byte of RAM is in the last row
	test.ExpectSuccess(t, m.Data.Write(0x03ffff, 0xff))
	img = m.HeatMap()

	var written int
	for y := range img.Bounds().Dy() {
		for x := range img.Bounds().Dx() {
			if img.RGBAAt(x, y).R != 0 {
				written++
			}
		}
	}
	test.ExpectEquality(t, written, 1)
	test.ExpectInequality(t, img.RGBAAt(223, 255).R, 0)
	test.ExpectEquality(t, img.RGBAAt(223, 255).B, 0xff>>2)
}
