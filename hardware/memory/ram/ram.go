package ram

import (
	"fmt"
	"strings"
)

type RAM struct {
	ctx   Context
	label string
	data  []uint8

	// access counts for every byte of RAM. these are used to draw the heat map
	// in the gui and the monitor
	reads  []int
	writes []int
}

type Context interface {
	Rand8Bit() uint8
}

func Create(ctx Context, label string, size int) *RAM {
	return &RAM{
		ctx:    ctx,
		label:  label,
		data:   make([]uint8, size),
		reads:  make([]int, size),
		writes: make([]int, size),
	}
}

func (r *RAM) Reset(random bool) {
	if random {
		for i := range len(r.data) {
			r.data[i] = r.ctx.Rand8Bit()
		}
	} else {
		clear(r.data)
	}
	r.ClearHeat()
}

func (r *RAM) String() string {
	var s strings.Builder
	for i := 0; i <= (len(r.data)-1)/16; i++ {
		j := i * 16
		s.WriteString(fmt.Sprintf("%06x : % 02x\n", j, r.data[j:min(j+16, len(r.data))]))
	}
	return strings.TrimSuffix(s.String(), "\n")
}

func (r *RAM) Label() string {
	return r.label
}

func (r *RAM) Status() string {
	return fmt.Sprintf("%s: %d bytes", r.label, len(r.data))
}

func (r *RAM) Size() int {
	return len(r.data)
}

func (r *RAM) Read(idx uint32) (uint8, error) {
	if int(idx) >= len(r.data) {
		return 0, fmt.Errorf("%s: read index out of range: %06x", r.label, idx)
	}
	r.reads[idx]++
	return r.data[idx], nil
}

func (r *RAM) Write(idx uint32, data uint8) error {
	if int(idx) >= len(r.data) {
		return fmt.Errorf("%s: write index out of range: %06x", r.label, idx)
	}
	r.writes[idx]++
	r.data[idx] = data
	return nil
}

// Peek returns the value at idx without affecting the heat counts
func (r *RAM) Peek(idx uint32) (uint8, error) {
	if int(idx) >= len(r.data) {
		return 0, fmt.Errorf("%s: peek index out of range: %06x", r.label, idx)
	}
	return r.data[idx], nil
}

// Heat returns the number of reads and writes at idx since the last reset
func (r *RAM) Heat(idx uint32) (int, int) {
	if int(idx) >= len(r.data) {
		return 0, 0
	}
	return r.reads[idx], r.writes[idx]
}

func (r *RAM) ClearHeat() {
	clear(r.reads)
	clear(r.writes)
}
