package yamaha_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/portasound/drivers/yamaha"
	"github.com/jetsetilly/portasound/hardware"
	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/hardware/memory"
	"github.com/jetsetilly/portasound/hardware/memory/descramble"
	"github.com/jetsetilly/portasound/hardware/memory/region"
	"github.com/jetsetilly/portasound/test"
)

type context struct {
	unconfirmed bool
}

func (_ context) Rand8Bit() uint8 {
	return 0
}

func (ctx context) UnconfirmedDescramble() bool {
	return ctx.unconfirmed
}

// writeROM creates a file of the given length in the subdirectory of the
// rompath. every 256 byte block is filled with the low byte of its block number
func writeROM(t *testing.T, rompath string, set string, file string, length int) []uint8 {
	t.Helper()
	d := make([]uint8, length)
	for i := range d {
		d[i] = uint8(i >> 8)
	}
	dir := filepath.Join(rompath, set)
	test.DemandSuccess(t, os.MkdirAll(dir, 0700))
	test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, file), d, 0600))
	return d
}

// writePSR500 creates all the required ROMs for the psr500 set
func writePSR500(t *testing.T, rompath string) {
	t.Helper()
	writeROM(t, rompath, "psr500", "xj920c0.ic4", 0x40000)
	writeROM(t, rompath, "psr500", "xj921b0.ic5", 0x100000)
	writeROM(t, rompath, "psr500", "xj426b0.ic3", 0x100000)
}

func TestPSS790(t *testing.T) {
	m, err := hardware.Create(context{}, yamaha.PSS790, []string{t.TempDir()})
	test.DemandSuccess(t, err)

	// no PSS-790 ROM has been dumped
	test.ExpectEquality(t, len(m.Report.NoDump), 3)
	test.ExpectEquality(t, len(m.Report.Missing), 0)

	// work RAM
	test.ExpectSuccess(t, m.Data.Write(0x7fff, 0x12))
	v, err := m.Data.Read(0x7fff)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x12)

	_, err = m.Data.Read(0x8000)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrUnmapped))

	// the GEW6 is mirrored through the range 0x080000 to 0x087fff
	test.ExpectSuccess(t, m.Data.Write(0x087ff1, 0x01))
	test.ExpectSuccess(t, m.Data.Write(0x080012, 0x04))
	test.ExpectSuccess(t, m.Data.Write(0x084560, 0x80))
	g, ok := m.Sound("gew6")
	test.DemandSuccess(t, ok)
	sl, _ := g.Slot(1)
	test.ExpectSuccess(t, sl.KeyOn())

	// program space covers both ROMs
	_, err = m.Program.Read(0x0fffff)
	test.ExpectSuccess(t, err)
	_, err = m.Program.Read(0x100000)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrUnmapped))
}

func TestInterruptHack(t *testing.T) {
	for _, drv := range []hardware.Driver{yamaha.PSS790, yamaha.PSR500, yamaha.PSR400} {
		rompath := t.TempDir()
		writePSR500(t, rompath)

		m, err := hardware.Create(context{}, drv, []string{rompath})
		test.DemandSuccess(t, err, drv.Name)

		test.ExpectEquality(t, m.CPU.StateInt(mn1880.IF), 0, drv.Name)

		m.RunFor(999 * time.Microsecond)
		test.ExpectEquality(t, m.CPU.StateInt(mn1880.IF), 0, drv.Name)

		// step takes the machine to the first expiry of the timer
		d, err := m.Step()
		test.ExpectSuccess(t, err, drv.Name)
		test.ExpectEquality(t, d, time.Microsecond, drv.Name)
		test.ExpectEquality(t, m.CPU.StateInt(mn1880.IF), 1<<3, drv.Name)

		// other bits of IF are preserved
		m.CPU.SetStateInt(mn1880.IF, 0x0101)
		m.RunFor(10 * time.Millisecond)
		test.ExpectEquality(t, m.CPU.StateInt(mn1880.IF), 0x0109, drv.Name)

		// the timer fires every millisecond without skipping
		tm := m.Scheduler.Timers()[0]
		test.ExpectEquality(t, tm.Name(), "interrupt hack", drv.Name)
		test.ExpectEquality(t, tm.Fired(), 11, drv.Name)
		test.ExpectEquality(t, tm.Period(), time.Millisecond, drv.Name)

		// the timer is rearmed on reset
		m.Reset(false)
		test.ExpectEquality(t, m.CPU.StateInt(mn1880.IF), 0, drv.Name)
		m.RunFor(time.Millisecond)
		test.ExpectEquality(t, m.CPU.StateInt(mn1880.IF), 1<<3, drv.Name)
	}
}

func TestPSS790Descramble(t *testing.T) {
	rompath := t.TempDir()
	orig := writeROM(t, rompath, "pss790", "xi105a00.ic15", 0x20000)

	// the wiring is unconfirmed so the ROM is left scrambled by default
	m, err := hardware.Create(context{}, yamaha.PSS790, []string{rompath})
	test.DemandSuccess(t, err)
	for a := uint32(0); a < 0x20000; a += 0x100 {
		v, _ := m.Program.Read(a)
		test.ExpectEquality(t, v, orig[a], a)
	}

	m, err = hardware.Create(context{unconfirmed: true}, yamaha.PSS790, []string{rompath})
	test.DemandSuccess(t, err)
	for a := uint32(0); a < 0x20000; a += 0x100 {
		v, _ := m.Program.Read(a)
		test.ExpectEquality(t, v, orig[descramble.PSS790.Table.Offset(a)], a)
	}

	// the reloaded copies of the program ROM are descrambled in the same way
	for a := uint32(0); a < 0x20000; a += 0x100 {
		v, _ := m.Program.Read(a)
		w, _ := m.Program.Read(a + 0x60000)
		test.ExpectEquality(t, v, w, a)
	}

	// known block from the PSS-790 wiring. address line A12 is connected to
	// chip input A8
	v, _ := m.Program.Read(0x1000)
	test.ExpectEquality(t, v, 0x01)
}

func TestPSR500(t *testing.T) {
	rompath := t.TempDir()
	writePSR500(t, rompath)

	m, err := hardware.Create(context{}, yamaha.PSR500, []string{rompath})
	test.DemandSuccess(t, err)

	// the ROM files have the wrong contents
	test.ExpectEquality(t, len(m.Report.BadChecksum), 3)
	test.ExpectEquality(t, len(m.Report.NoDump), 1)

	// program ROM is descrambled with the confirmed PSR-400 wiring
	v, _ := m.Program.Read(0x0100)
	test.ExpectEquality(t, v, 0x10)
	v, _ = m.Program.Read(0x0400)
	test.ExpectEquality(t, v, 0x40)
	v, _ = m.Program.Read(0x1000)
	test.ExpectEquality(t, v, 0x01)

	// registers
	v, err = m.Data.Read(0x003fee)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x05)
	v, err = m.Data.Read(0x000018)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x00)
	_, err = m.Data.Read(0x003fe0)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrUnmapped))
	_, err = m.Data.Read(0x000000)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrUnmapped))
	test.ExpectSuccess(t, m.Data.Write(0x000000, 0xff))

	// both PSRAMs and their mirrors
	test.ExpectSuccess(t, m.Data.Write(0x000080, 0xaa))
	v, _ = m.Data.Read(0x040080)
	test.ExpectEquality(t, v, 0xaa)
	test.ExpectSuccess(t, m.Data.Write(0x0fffff, 0xbb))
	v, _ = m.Data.Read(0x03ffff)
	test.ExpectEquality(t, v, 0xbb)

	// GEW8
	test.ExpectSuccess(t, m.Data.Write(0x1ffff1, 0x09))
	g, ok := m.Sound("gew8")
	test.DemandSuccess(t, ok)
	slot, _ := g.Selected()
	test.ExpectEquality(t, slot, 8)
}

func TestPSR400(t *testing.T) {
	rompath := t.TempDir()
	writePSR500(t, rompath)

	// the ROMs are found in the parent's directory
	m, err := hardware.Create(context{}, yamaha.PSR400, []string{rompath})
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, m.Data.Write(0x01ffff, 0xcc))
	v, _ := m.Data.Read(0x0dffff)
	test.ExpectEquality(t, v, 0xcc)

	// only one PSRAM
	_, err = m.Data.Read(0x020000)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrUnmapped))
}

func TestMissingROMs(t *testing.T) {
	_, err := hardware.Create(context{}, yamaha.PSR500, []string{t.TempDir()})
	test.ExpectSuccess(t, errors.Is(err, region.ErrMissingROM))
}
