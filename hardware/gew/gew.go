// Package gew is a skeleton of the Yamaha GEW6 (YM7138) and GEW8 (YMW-258-F)
// AWM tone generators. The register interface is the same as the MultiPCM.
// Sample playback is not emulated and the outputs are always silent.
package gew

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/portasound/hardware/clocks"
)

// Variant describes a member of the GEW family
type Variant struct {
	Name string
	Chip string
}

var (
	GEW6 = Variant{Name: "GEW6", Chip: "YM7138"}
	GEW8 = Variant{Name: "GEW8", Chip: "YMW-258-F"}
)

// NumSlots is the number of voices in the tone generator
const NumSlots = 28

// NumRegisters is the number of registers for each slot
const NumRegisters = 8

// NumOutputs is the number of audio outputs
const NumOutputs = 2

// bit in register 4 that indicates that the slot is keyed on
const keyOn = 0x80

// the slot selected by a write to the slot register. the value written is
// masked with 0x1f. every eighth value does not select a slot
var slotSelect = [32]int{
	0, 1, 2, 3, 4, 5, 6, -1,
	7, 8, 9, 10, 11, 12, 13, -1,
	14, 15, 16, 17, 18, 19, 20, -1,
	21, 22, 23, 24, 25, 26, 27, -1,
}

// register offsets in the address space of the device. the device occupies
// sixteen bytes but only the first three are used
const (
	regData    = 0
	regSlot    = 1
	regAddress = 2
)

type Slot struct {
	Regs [NumRegisters]uint8
}

// KeyOn returns true if the slot is playing
func (s Slot) KeyOn() bool {
	return s.Regs[4]&keyOn == keyOn
}

func (s Slot) String() string {
	return fmt.Sprintf("% x", s.Regs)
}

type GEW struct {
	tag     string
	variant Variant
	clock   int

	slots   [NumSlots]Slot
	slot    int
	address uint8

	// number of writes to the data register. used for debugging
	writes int

	// sample ROM. the tone generator reads sample data directly from the ROM
	// but playback is not emulated
	samples []uint8
}

func NewGEW(tag string, variant Variant, clock int) *GEW {
	g := &GEW{
		tag:     tag,
		variant: variant,
		clock:   clock,
	}
	g.Reset()
	return g
}

func (g *GEW) Reset() {
	for i := range g.slots {
		clear(g.slots[i].Regs[:])
	}
	g.slot = 0
	g.address = 0
	g.writes = 0
}

// Label implements the memory.Area interface
func (g *GEW) Label() string {
	return g.tag
}

// SetSamples attaches the sample ROM to the tone generator
func (g *GEW) SetSamples(data []uint8) {
	g.samples = data
}

func (g *GEW) Variant() Variant {
	return g.variant
}

// SampleRate returns the number of samples generated every second
func (g *GEW) SampleRate() int {
	return g.clock / clocks.GEWSampleDivider
}

// Outputs returns the number of audio outputs
func (g *GEW) Outputs() int {
	return NumOutputs
}

// Read implements the memory.Area interface. The status register always reads
// as zero
func (g *GEW) Read(_ uint32) (uint8, error) {
	return 0, nil
}

// Peek is the same as Read but has no side effects
func (g *GEW) Peek(idx uint32) (uint8, error) {
	return g.Read(idx)
}

// Write implements the memory.Area interface
func (g *GEW) Write(idx uint32, data uint8) error {
	switch idx & 0x0f {
	case regData:
		if g.slot >= 0 {
			g.slots[g.slot].Regs[g.address] = data
		}
		g.writes++
	case regSlot:
		g.slot = slotSelect[data&0x1f]
	case regAddress:
		g.address = min(data, NumRegisters-1)
	}
	return nil
}

// Slot returns the current state of the slot. Returns false if the slot number
// is out of range
func (g *GEW) Slot(n int) (Slot, bool) {
	if n < 0 || n >= NumSlots {
		return Slot{}, false
	}
	return g.slots[n], true
}

// Selected returns the currently selected slot and register. The slot is -1
// if the last slot select did not select a slot
func (g *GEW) Selected() (int, uint8) {
	return g.slot, g.address
}

// Render the outputs of the device. There must be one buffer for each output.
// Because sample playback is not emulated the buffers are filled with silence
func (g *GEW) Render(out [][]int16) {
	for _, o := range out {
		clear(o)
	}
}

func (g *GEW) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s %s (%s) %dHz", g.tag, g.variant.Name, g.variant.Chip, g.SampleRate()))
	if len(g.samples) > 0 {
		s.WriteString(fmt.Sprintf(" %dKB sample ROM", len(g.samples)/1024))
	}
	s.WriteString(fmt.Sprintf("\nslot %d reg %d, %d data writes", g.slot, g.address, g.writes))
	var keyed int
	for i, sl := range g.slots {
		if sl.KeyOn() {
			s.WriteString(fmt.Sprintf("\n%02d: %s", i, sl))
			keyed++
		}
	}
	if keyed == 0 {
		s.WriteString("\nno slots keyed on")
	}
	return s.String()
}
