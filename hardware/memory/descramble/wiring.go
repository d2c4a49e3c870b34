package descramble

import "fmt"

// Wiring is a named descrambling table for a specific keyboard. A wiring that
// hasn't been confirmed against a real ROM dump should not be applied without
// the user asking for it.
type Wiring struct {
	Name      string
	Table     Table
	Confirmed bool
}

func (w Wiring) String() string {
	if w.Confirmed {
		return fmt.Sprintf("%s wiring: %s", w.Name, w.Table)
	}
	return fmt.Sprintf("%s wiring (unconfirmed): %s", w.Name, w.Table)
}

// Apply transmutes data using the wiring's table
func (w Wiring) Apply(data []byte) error {
	if err := Transmute(data, w.Table); err != nil {
		return fmt.Errorf("%s: %w", w.Name, err)
	}
	return nil
}

// PSR400 wiring. A8 to A14 and A16 are scrambled.
//
//	Address Line | A16 | A15 | A14 | A13 | A12 | A11 | A10 |  A9 |  A8
//	Chip Input   |  A9 | A15 | A10 | A11 |  A8 | A14 | A16 | A13 | A12
var PSR400 = Wiring{
	Name:      "PSR-400",
	Table:     Table{9, 15, 10, 11, 8, 14, 16, 13, 12},
	Confirmed: true,
}

// PSS790 wiring taken from the service manual schematic. A15 is not
// scrambled. The PSS-790 ROMs have not been dumped so it isn't known whether
// this is correct.
//
//	Address Line | A16 | A15 | A14 | A13 | A12 | A11 | A10 |  A9 |  A8
//	Chip Input   | A10 | A15 | A11 |  A9 |  A8 | A13 | A14 | A16 | A12
var PSS790 = Wiring{
	Name:      "PSS-790",
	Table:     Table{10, 15, 11, 9, 8, 13, 14, 16, 12},
	Confirmed: false,
}

func init() {
	for _, w := range []Wiring{PSR400, PSS790} {
		if err := w.Table.Validate(); err != nil {
			panic(fmt.Sprintf("%s: %s", w.Name, err))
		}
	}
}
