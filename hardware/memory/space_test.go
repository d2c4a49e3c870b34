package memory_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jetsetilly/portasound/hardware/memory"
	"github.com/jetsetilly/portasound/test"
)

type device struct {
	regs [16]uint8
}

func (d *device) Label() string {
	return "device"
}

func (d *device) Read(idx uint32) (uint8, error) {
	return d.regs[idx], nil
}

func (d *device) Write(idx uint32, data uint8) error {
	d.regs[idx] = data
	return nil
}

type resolver struct {
	regions map[string][]uint8
	devices map[string]memory.Area
}

func (_ resolver) Rand8Bit() uint8 {
	return 0
}

func (r resolver) Region(name string) ([]uint8, bool) {
	d, ok := r.regions[name]
	return d, ok
}

func (r resolver) Device(tag string) (memory.Area, bool) {
	d, ok := r.devices[tag]
	return d, ok
}

func newResolver() (resolver, *device) {
	rom := make([]uint8, 0x1000)
	for i := range rom {
		rom[i] = uint8(i >> 4)
	}
	dev := &device{}
	return resolver{
		regions: map[string][]uint8{"program": rom},
		devices: map[string]memory.Area{"dev": dev},
	}, dev
}

func TestROMAndRAM(t *testing.T) {
	res, _ := newResolver()

	var m memory.Map
	m.Range(0x0000, 0x07ff).ROM("program", 0)
	m.Range(0x0800, 0x0fff).ROM("program", 0x800)
	m.Range(0x8000, 0x80ff).RAM()

	spc, err := memory.NewSpace("test", 16, &m, res)
	test.DemandSuccess(t, err)

	v, err := spc.Read(0x0123)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x12)

	v, err = spc.Read(0x0923)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x92)

	// writes to rom are ignored
	test.ExpectSuccess(t, spc.Write(0x0123, 0xff))
	v, _ = spc.Read(0x0123)
	test.ExpectEquality(t, v, 0x12)

	test.ExpectSuccess(t, spc.Write(0x8010, 0x42))
	v, _ = spc.Read(0x8010)
	test.ExpectEquality(t, v, 0x42)

	reads, writes, ok := spc.Heat(0x8010)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, reads, 1)
	test.ExpectEquality(t, writes, 1)

	_, _, ok = spc.Heat(0x0010)
	test.ExpectFailure(t, ok)

	test.ExpectSuccess(t, spc.Write(0x8020, 0x01))
	test.ExpectSuccess(t, spc.Write(0x8020, 0x02))
	test.ExpectSuccess(t, spc.Write(0x8020, 0x03))
	hot := spc.Hottest(10)
	test.DemandEquality(t, len(hot), 2)
	test.ExpectEquality(t, hot[0], memory.Heat{Address: 0x8020, Writes: 3})
	test.ExpectEquality(t, hot[1], memory.Heat{Address: 0x8010, Reads: 1, Writes: 1})
	test.ExpectEquality(t, len(spc.Hottest(1)), 1)

	test.ExpectEquality(t, len(spc.RAMs()), 1)
}

func TestUnmapped(t *testing.T) {
	res, _ := newResolver()

	var m memory.Map
	m.Range(0x8000, 0x80ff).RAM()

	spc, err := memory.NewSpace("test", 16, &m, res)
	test.DemandSuccess(t, err)

	_, err = spc.Read(0x1000)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrUnmapped))
	err = spc.Write(0x1000, 0x00)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrUnmapped))

	_, area, e := spc.MapAddress(0x1000, true)
	test.ExpectEquality(t, area, nil)
	test.ExpectEquality(t, e, nil)
}

func TestMirror(t *testing.T) {
	res, dev := newResolver()

	var m memory.Map
	m.Range(0x080000, 0x08000f).Mirror(0x07ff0).Device("dev")

	spc, err := memory.NewSpace("test", 21, &m, res)
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, spc.Write(0x080001, 0x11))
	test.ExpectEquality(t, dev.regs[1], 0x11)

	// every address with the mirror bits set reaches the same register
	test.ExpectSuccess(t, spc.Write(0x087ff2, 0x22))
	test.ExpectEquality(t, dev.regs[2], 0x22)
	test.ExpectSuccess(t, spc.Write(0x080012, 0x33))
	test.ExpectEquality(t, dev.regs[2], 0x33)

	idx, area, _ := spc.MapAddress(0x0812a5, true)
	test.ExpectEquality(t, idx, 5)
	test.ExpectEquality(t, area, memory.Area(dev))

	// bits outside of the mirror are not ignored
	_, err = spc.Read(0x0c0000)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrUnmapped))

	test.ExpectEquality(t, spc.Last, memory.Area(dev))
}

func TestPriority(t *testing.T) {
	res, _ := newResolver()

	var m memory.Map
	m.Range(0x0000, 0x3fff).RAM()
	m.Range(0x3fe0, 0x3fff).Unmap()
	m.Range(0x3fe3, 0x3fe3).NopRW()
	m.Range(0x3fee, 0x3fee).ReadConst(0x05)
	m.Range(0x0000, 0x0000).NopW()

	spc, err := memory.NewSpace("test", 16, &m, res)
	test.DemandSuccess(t, err)

	// later entries take priority
	_, err = spc.Read(0x3fe0)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrUnmapped))

	v, err := spc.Read(0x3fe3)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x00)

	v, err = spc.Read(0x3fee)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x05)

	// a read only entry does not affect writes to the same address
	err = spc.Write(0x3fee, 0x01)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrUnmapped))

	// a write only entry does not affect reads. the RAM entry is found
	test.ExpectSuccess(t, spc.Write(0x0000, 0x99))
	idx, area, _ := spc.MapAddress(0x0000, true)
	test.ExpectEquality(t, idx, 0)
	test.ExpectEquality(t, area.Label(), "test ram 000000")
	v, _ = spc.Read(0x0000)
	test.ExpectInequality(t, v, 0x99)

	// below the unmapped window
	test.ExpectSuccess(t, spc.Write(0x3fdf, 0x77))
	v, _ = spc.Read(0x3fdf)
	test.ExpectEquality(t, v, 0x77)
}

func TestBadMaps(t *testing.T) {
	res, _ := newResolver()

	var m memory.Map
	m.Range(0x0100, 0x00ff).RAM()
	_, err := memory.NewSpace("test", 16, &m, res)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrBadMap))

	m = memory.Map{}
	m.Range(0x0000, 0x1ffff).RAM()
	_, err = memory.NewSpace("test", 16, &m, res)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrBadMap))

	m = memory.Map{}
	m.Range(0x0000, 0x00ff).Mirror(0x0080).RAM()
	_, err = memory.NewSpace("test", 16, &m, res)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrBadMap))

	m = memory.Map{}
	m.Range(0x0000, 0x1fff).ROM("program", 0)
	_, err = memory.NewSpace("test", 16, &m, res)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrBadMap))

	m = memory.Map{}
	m.Range(0x0000, 0x00ff).ROM("missing", 0)
	_, err = memory.NewSpace("test", 16, &m, res)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrBadMap))

	m = memory.Map{}
	m.Range(0x0000, 0x000f).Device("missing")
	_, err = memory.NewSpace("test", 16, &m, res)
	test.ExpectSuccess(t, errors.Is(err, memory.ErrBadMap))
}

func TestString(t *testing.T) {
	res, _ := newResolver()

	var m memory.Map
	m.Range(0x0000, 0x07ff).ROM("program", 0)
	m.Range(0x8000, 0x800f).Mirror(0x0ff0).Device("dev")
	m.Range(0x9000, 0x9000).NopW().ReadConst(0x05)
	test.ExpectEquality(t, m.Len(), 3)

	spc, err := memory.NewSpace("data", 16, &m, res)
	test.DemandSuccess(t, err)

	s := strings.Split(spc.String(), "\n")
	test.DemandEquality(t, len(s), 4)
	test.ExpectEquality(t, s[0], "data (16 bit)")
	test.ExpectEquality(t, s[1], "000000-0007ff rw: rom program+000000")
	test.ExpectEquality(t, s[2], "008000-00800f mirror 000ff0 rw: device dev")
	test.ExpectEquality(t, s[3], "009000-009000 r: const 05 w: nop")
}
