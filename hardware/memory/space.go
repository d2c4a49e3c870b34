// Package memory implements the address spaces of a machine. An address space
// is created from an address map, which is declared once by the driver and is
// not changed after the space has been created.
package memory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jetsetilly/portasound/hardware/memory/ram"
	"github.com/jetsetilly/portasound/logger"
)

// Sentinel errors
var (
	ErrUnmapped = errors.New("unmapped address")
	ErrBadMap   = errors.New("bad address map")
)

type Area interface {
	// read and write both take an index value. this is an address in the area
	// but with the area origin removed. in other words, the area doesn't need
	// to know about it's location in memory, only the relative placement of
	// addresses within the area
	Read(idx uint32) (uint8, error)
	Write(idx uint32, data uint8) error
	Label() string
}

// Resolver finds the regions and devices named by the entries of an address
// map
type Resolver interface {
	ram.Context
	Region(name string) ([]uint8, bool)
	Device(tag string) (Area, bool)
}

// Space is an address space of the CPU
type Space struct {
	name    string
	width   int
	mask    uint32
	entries []*Entry
	rams    []*ram.RAM

	// the area of the most recent write
	Last Area
}

// NewSpace creates an address space from the address map. Addresses in the
// space are width bits wide.
func NewSpace(name string, width int, m *Map, res Resolver) (*Space, error) {
	spc := &Space{
		name:  name,
		width: width,
		mask:  uint32(1<<width) - 1,
	}

	for _, e := range m.entries {
		if e.End < e.Start {
			return nil, fmt.Errorf("%w: %s: %06x-%06x: end is before start", ErrBadMap, name, e.Start, e.End)
		}
		if e.End > spc.mask || e.mirror > spc.mask {
			return nil, fmt.Errorf("%w: %s: %s: outside of %d bit address space", ErrBadMap, name, e, width)
		}
		if e.Start&e.mirror != 0 || e.End&e.mirror != 0 {
			return nil, fmt.Errorf("%w: %s: %s: mirror overlaps address range", ErrBadMap, name, e)
		}

		var err error
		e.readArea, err = spc.resolve(e, e.read, res)
		if err != nil {
			return nil, err
		}
		if e.write == e.read {
			e.writeArea = e.readArea
		} else {
			e.writeArea, err = spc.resolve(e, e.write, res)
			if err != nil {
				return nil, err
			}
		}

		spc.entries = append(spc.entries, e)
	}

	return spc, nil
}

func (spc *Space) resolve(e *Entry, a access, res Resolver) (Area, error) {
	size := e.End - e.Start + 1

	switch a.kind {
	case accessROM:
		data, ok := res.Region(a.region)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %s: no region named %s", ErrBadMap, spc.name, e, a.region)
		}
		if uint64(a.offset)+uint64(size) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: %s: %s: range is larger than region %s", ErrBadMap, spc.name, e, a.region)
		}
		return &rom{
			label: fmt.Sprintf("%s:%06x", a.region, a.offset),
			data:  data[a.offset : a.offset+size],
			space: spc.name,
		}, nil
	case accessRAM:
		r := ram.Create(res, fmt.Sprintf("%s ram %06x", spc.name, e.Start), int(size))
		spc.rams = append(spc.rams, r)
		return r, nil
	case accessDevice:
		d, ok := res.Device(a.tag)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %s: no device tagged %s", ErrBadMap, spc.name, e, a.tag)
		}
		return d, nil
	case accessNop:
		return nop{}, nil
	case accessConst:
		return constant(a.value), nil
	}

	// accessUnset and accessUnmap have no area
	return nil, nil
}

func (spc *Space) Name() string {
	return spc.name
}

// Mask returns the mask of valid address bits in the address space
func (spc *Space) Mask() uint32 {
	return spc.mask
}

// Reset all RAM in the address space
func (spc *Space) Reset(random bool) {
	for _, r := range spc.rams {
		r.Reset(random)
	}
	spc.Last = nil
}

// RAMs returns all RAM areas in the address space
func (spc *Space) RAMs() []*ram.RAM {
	return spc.rams
}

// MapAddress returns the area and the index into the area corresponding to
// the address. The entry that matched is also returned.
//
// It is possible for a nil Area to be returned. In which case the address is
// unmapped and the index value will be zero.
func (spc *Space) MapAddress(address uint32, read bool) (uint32, Area, *Entry) {
	address &= spc.mask

	for i := len(spc.entries) - 1; i >= 0; i-- {
		e := spc.entries[i]

		a := address &^ e.mirror
		if a < e.Start || a > e.End {
			continue // for loop
		}

		acc := e.write
		area := e.writeArea
		if read {
			acc = e.read
			area = e.readArea
		}

		switch acc.kind {
		case accessUnset:
			continue // for loop
		case accessUnmap:
			return 0, nil, e
		}

		return a - e.Start, area, e
	}

	return 0, nil, nil
}

func (spc *Space) Read(address uint32) (uint8, error) {
	idx, area, _ := spc.MapAddress(address, true)
	if area == nil {
		return 0, fmt.Errorf("%w: %s read %06x", ErrUnmapped, spc.name, address&spc.mask)
	}
	v, err := area.Read(idx)
	if err != nil {
		return 0, fmt.Errorf("%s read %06x: %w", spc.name, address&spc.mask, err)
	}
	return v, nil
}

func (spc *Space) Write(address uint32, data uint8) error {
	idx, area, _ := spc.MapAddress(address, false)
	if area == nil {
		return fmt.Errorf("%w: %s write %06x", ErrUnmapped, spc.name, address&spc.mask)
	}
	spc.Last = area
	err := area.Write(idx, data)
	if err != nil {
		return fmt.Errorf("%s write %06x: %w", spc.name, address&spc.mask, err)
	}
	return nil
}

// areas that can be read without side effects implement the peeker interface
type peeker interface {
	Peek(idx uint32) (uint8, error)
}

// Peek reads the address without affecting the state of the emulation. For
// devices that have no Peek() function the value is zero
func (spc *Space) Peek(address uint32) (uint8, Area, error) {
	idx, area, _ := spc.MapAddress(address, true)
	if area == nil {
		return 0, nil, fmt.Errorf("%w: %s peek %06x", ErrUnmapped, spc.name, address&spc.mask)
	}
	if p, ok := area.(peeker); ok {
		v, err := p.Peek(idx)
		return v, area, err
	}
	return 0, area, nil
}

// Heat returns the number of reads and writes of the address. Only RAM
// records this information and the ok result will be false for any other
// type of area
func (spc *Space) Heat(address uint32) (int, int, bool) {
	idx, area, _ := spc.MapAddress(address, true)
	if r, ok := area.(*ram.RAM); ok {
		reads, writes := r.Heat(idx)
		return reads, writes, true
	}
	return 0, 0, false
}

// Heat is the access count for a single address
type Heat struct {
	Address uint32
	Reads   int
	Writes  int
}

func (h Heat) String() string {
	return fmt.Sprintf("%06x: %d reads %d writes", h.Address, h.Reads, h.Writes)
}

// Hottest returns the n RAM addresses in the space that have been accessed the
// most. Addresses are listed as they are in the address map and not as any of
// the mirrored addresses
func (spc *Space) Hottest(n int) []Heat {
	var heat []Heat

	for _, e := range spc.entries {
		r, ok := e.readArea.(*ram.RAM)
		if !ok || e.read.kind != accessRAM {
			continue // for loop
		}
		for idx := range uint32(r.Size()) {
			reads, writes := r.Heat(idx)
			if reads+writes > 0 {
				heat = append(heat, Heat{
					Address: e.Start + idx,
					Reads:   reads,
					Writes:  writes,
				})
			}
		}
	}

	sort.SliceStable(heat, func(i, j int) bool {
		return heat[i].Reads+heat[i].Writes > heat[j].Reads+heat[j].Writes
	})

	if n >= 0 && len(heat) > n {
		heat = heat[:n]
	}
	return heat
}

// String lists the entries of the address map in priority order. Entries
// nearer the bottom of the list have the highest priority
func (spc *Space) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s (%d bit)\n", spc.name, spc.width))
	for _, e := range spc.entries {
		s.WriteString(e.String())
		s.WriteString("\n")
	}
	return strings.TrimSuffix(s.String(), "\n")
}

type rom struct {
	label string
	data  []uint8
	space string

	// whether a write attempt has been logged
	logged bool
}

func (r *rom) Label() string {
	return r.label
}

func (r *rom) Read(idx uint32) (uint8, error) {
	return r.data[idx], nil
}

func (r *rom) Peek(idx uint32) (uint8, error) {
	return r.data[idx], nil
}

func (r *rom) Write(idx uint32, _ uint8) error {
	if !r.logged {
		logger.Logf(logger.Allow, r.space, "ignoring write to ROM %s+%06x", r.label, idx)
		r.logged = true
	}
	return nil
}

type nop struct{}

func (_ nop) Label() string {
	return "nop"
}

func (_ nop) Read(_ uint32) (uint8, error) {
	return 0, nil
}

func (_ nop) Peek(_ uint32) (uint8, error) {
	return 0, nil
}

func (_ nop) Write(_ uint32, _ uint8) error {
	return nil
}

type constant uint8

func (c constant) Label() string {
	return fmt.Sprintf("const %02x", uint8(c))
}

func (c constant) Read(_ uint32) (uint8, error) {
	return uint8(c), nil
}

func (c constant) Peek(_ uint32) (uint8, error) {
	return uint8(c), nil
}

func (c constant) Write(_ uint32, _ uint8) error {
	return nil
}
