package gew_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/portasound/hardware/clocks"
	"github.com/jetsetilly/portasound/hardware/gew"
	"github.com/jetsetilly/portasound/test"
)

func TestRegisters(t *testing.T) {
	g := gew.NewGEW("gew6", gew.GEW6, clocks.GEW)

	// select slot 8 and register 4 and then key on
	test.ExpectSuccess(t, g.Write(1, 9))
	test.ExpectSuccess(t, g.Write(2, 4))
	test.ExpectSuccess(t, g.Write(0, 0x80))

	sl, ok := g.Slot(8)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, sl.Regs[4], 0x80)
	test.ExpectSuccess(t, sl.KeyOn())

	// status always reads as zero
	v, err := g.Read(0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0)

	// register address is clamped
	test.ExpectSuccess(t, g.Write(2, 0x7f))
	_, reg := g.Selected()
	test.ExpectEquality(t, reg, 7)

	// every eighth slot value selects no slot and the data is lost
	test.ExpectSuccess(t, g.Write(1, 7))
	slot, _ := g.Selected()
	test.ExpectEquality(t, slot, -1)
	test.ExpectSuccess(t, g.Write(0, 0xff))
	for i := range gew.NumSlots {
		sl, _ := g.Slot(i)
		test.ExpectEquality(t, sl.Regs[7], 0, i)
	}

	// slot values are masked
	test.ExpectSuccess(t, g.Write(1, 0x20|0x1e))
	slot, _ = g.Selected()
	test.ExpectEquality(t, slot, 27)

	// the register interface is repeated every sixteen bytes
	test.ExpectSuccess(t, g.Write(0x11, 0))
	slot, _ = g.Selected()
	test.ExpectEquality(t, slot, 0)

	_, ok = g.Slot(gew.NumSlots)
	test.ExpectFailure(t, ok)
}

func TestString(t *testing.T) {
	g := gew.NewGEW("gew8", gew.GEW8, clocks.GEW)
	test.ExpectEquality(t, strings.HasSuffix(g.String(), "no slots keyed on"), true)

	g.Write(1, 0)
	g.Write(2, 4)
	g.Write(0, 0x80)
	test.ExpectEquality(t, strings.Contains(g.String(), "\n00: 00 00 00 00 80 00 00 00"), true)

	g.Reset()
	sl, _ := g.Slot(0)
	test.ExpectFailure(t, sl.KeyOn())
}

func TestRender(t *testing.T) {
	g := gew.NewGEW("gew6", gew.GEW6, clocks.GEW)
	test.ExpectEquality(t, g.SampleRate(), 41964)
	test.ExpectEquality(t, g.Outputs(), 2)

	out := [][]int16{make([]int16, 16), make([]int16, 16)}
	out[0][0] = 100
	out[1][15] = -100
	g.Render(out)
	for _, o := range out {
		for _, s := range o {
			test.ExpectEquality(t, s, 0)
		}
	}
}
