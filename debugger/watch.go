package debugger

import (
	"cmp"
	"fmt"
	"slices"
)

type watch struct {
	ma   mappedAddress
	data uint8
	prev uint8
}

func (w watch) String() string {
	return fmt.Sprintf("%s = %02x (%s)", w.ma, w.data, w.ma.area.Label())
}

// watches are keyed by the string representation of the mapped address so
// that the same address in different spaces can be watched
func (m *debugger) addWatch(ma mappedAddress) error {
	if _, ok := m.watches[ma.String()]; ok {
		return fmt.Errorf("watch for %s already present", ma)
	}
	d, _, err := ma.space.Peek(ma.address)
	if err != nil {
		return fmt.Errorf("watch address is not readable: %s", ma)
	}
	m.watches[ma.String()] = watch{
		ma:   ma,
		data: d,
	}
	return nil
}

func (m *debugger) dropWatch(ma mappedAddress) error {
	if _, ok := m.watches[ma.String()]; !ok {
		return fmt.Errorf("watch for %s not present", ma)
	}
	delete(m.watches, ma.String())
	return nil
}

func (m *debugger) checkWatches() (*watch, error) {
	for i, w := range m.watches {
		d, _, err := w.ma.space.Peek(w.ma.address)
		if err != nil {
			return nil, fmt.Errorf("watch: %w", err)
		}
		if d != w.data {
			w.prev = w.data
			w.data = d
			m.watches[i] = w
			return &w, nil
		}
	}
	return nil, nil
}

// sorted list of watches
func (m *debugger) listWatches() []watch {
	var l []watch
	for _, w := range m.watches {
		l = append(l, w)
	}
	slices.SortFunc(l, func(a, b watch) int {
		if c := cmp.Compare(a.ma.space.Name(), b.ma.space.Name()); c != 0 {
			return c
		}
		return cmp.Compare(a.ma.address, b.ma.address)
	})
	return l
}
