package memory

import (
	"fmt"
	"strings"
)

type accessKind int

const (
	// the entry does not handle accesses in this direction. lower priority
	// entries will be checked instead
	accessUnset accessKind = iota

	// the entry explicitely unmaps the range. lower priority entries are not
	// checked
	accessUnmap

	accessROM
	accessRAM
	accessDevice
	accessNop
	accessConst
)

type access struct {
	kind   accessKind
	region string
	offset uint32
	tag    string
	value  uint8
}

func (a access) String() string {
	switch a.kind {
	case accessUnmap:
		return "unmapped"
	case accessROM:
		return fmt.Sprintf("rom %s+%06x", a.region, a.offset)
	case accessRAM:
		return "ram"
	case accessDevice:
		return fmt.Sprintf("device %s", a.tag)
	case accessNop:
		return "nop"
	case accessConst:
		return fmt.Sprintf("const %02x", a.value)
	}
	return "-"
}

// Entry is a single line of an address map. The methods of Entry are used to
// declare how the address range is handled. Each method returns the Entry so
// that calls can be chained:
//
//	m.Range(0x080000, 0x08000f).Mirror(0x07ff0).Device("gew6")
type Entry struct {
	Start  uint32
	End    uint32
	mirror uint32

	read  access
	write access

	// resolved areas. these are set by NewSpace()
	readArea  Area
	writeArea Area
}

func (e *Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%06x-%06x", e.Start, e.End))
	if e.mirror != 0 {
		s.WriteString(fmt.Sprintf(" mirror %06x", e.mirror))
	}
	if e.read == e.write {
		s.WriteString(fmt.Sprintf(" rw: %s", e.read))
	} else {
		s.WriteString(fmt.Sprintf(" r: %s w: %s", e.read, e.write))
	}
	return s.String()
}

// Mirror sets the address bits that are ignored by the chip select logic
func (e *Entry) Mirror(mask uint32) *Entry {
	e.mirror = mask
	return e
}

// ROM maps the range to the named region, starting at offset. Writes are
// ignored.
func (e *Entry) ROM(region string, offset uint32) *Entry {
	e.read = access{kind: accessROM, region: region, offset: offset}
	e.write = e.read
	return e
}

// RAM maps the range to RAM of the same size as the range
func (e *Entry) RAM() *Entry {
	e.read = access{kind: accessRAM}
	e.write = e.read
	return e
}

// Device maps the range to the device with the tag. The device sees the
// address relative to the start of the range.
func (e *Entry) Device(tag string) *Entry {
	e.read = access{kind: accessDevice, tag: tag}
	e.write = e.read
	return e
}

// NopR causes reads to return zero
func (e *Entry) NopR() *Entry {
	e.read = access{kind: accessNop}
	return e
}

// NopW causes writes to be ignored
func (e *Entry) NopW() *Entry {
	e.write = access{kind: accessNop}
	return e
}

// NopRW is the same as NopR() and NopW()
func (e *Entry) NopRW() *Entry {
	return e.NopR().NopW()
}

// Unmap explicitely unmaps reads and writes in the range
func (e *Entry) Unmap() *Entry {
	e.read = access{kind: accessUnmap}
	e.write = e.read
	return e
}

// ReadConst causes reads to return the value
func (e *Entry) ReadConst(v uint8) *Entry {
	e.read = access{kind: accessConst, value: v}
	return e
}

// Map is the declaration of an address map. Entries declared later take
// priority over earlier entries that cover the same address.
type Map struct {
	entries []*Entry
}

// Range adds a new entry to the map covering the addresses start to end
// inclusive
func (m *Map) Range(start uint32, end uint32) *Entry {
	e := &Entry{
		Start: start,
		End:   end,
	}
	m.entries = append(m.entries, e)
	return e
}

// Len returns the number of entries in the map
func (m *Map) Len() int {
	return len(m.entries)
}
