package clocks

const Mhz = 1000000
const Khz = 1000

// crystals fitted to the PSS-790 and PSR-400/PSR-500 main boards
const (
	// main clock of the MN18801A
	MN18801A = 10 * Mhz

	// the MN18801A also has a 500 kHz secondary resonator connected to XI
	MN18801A_sub = 500 * Khz

	// both the GEW6 (YM7138) and the GEW8 (YMW-258-F) are clocked at 9.4MHz
	GEW = 9.4 * Mhz
)

// the GEW sample rate is the clock divided by this value. this is the same as
// the MultiPCM
const GEWSampleDivider = 224
