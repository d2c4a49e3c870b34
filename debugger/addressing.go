package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/portasound/hardware/memory"
)

type mappedAddress struct {
	space   *memory.Space
	address uint32
	area    memory.Area
	idx     uint32
}

func (ma mappedAddress) String() string {
	return fmt.Sprintf("%s:$%06x", ma.space.Name(), ma.address)
}

// parseAddress accepts decimal, 0x prefixed or $ prefixed hexadecimal. the
// address is in the data space unless it is prefixed with p: for the program
// space. the d: prefix is also accepted for the data space
func (m *debugger) parseAddress(address string) (mappedAddress, error) {
	return m.parseMappedAddress(address, true)
}

// parseWriteAddress is the same as parseAddress but the address must be
// mapped for writing. write-only registers are accepted
func (m *debugger) parseWriteAddress(address string) (mappedAddress, error) {
	return m.parseMappedAddress(address, false)
}

func (m *debugger) parseMappedAddress(address string, read bool) (mappedAddress, error) {
	var ma mappedAddress

	ma.space = m.machine.Data
	switch {
	case strings.HasPrefix(strings.ToLower(address), "p:"):
		ma.space = m.machine.Program
		address = address[2:]
	case strings.HasPrefix(strings.ToLower(address), "d:"):
		address = address[2:]
	}

	if strings.HasPrefix(address, "$") {
		address = fmt.Sprintf("0x%s", address[1:])
	}

	addr, err := strconv.ParseUint(address, 0, 32)
	if err != nil {
		return ma, fmt.Errorf("address is not valid: %s", address)
	}
	if uint32(addr) > ma.space.Mask() {
		return ma, fmt.Errorf("address is outside of the %s space: %s", ma.space.Name(), address)
	}
	ma.address = uint32(addr)

	ma.idx, ma.area, _ = ma.space.MapAddress(ma.address, read)
	if ma.area == nil {
		return ma, fmt.Errorf("address is not mapped: %s", address)
	}

	return ma, nil
}
