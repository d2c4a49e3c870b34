// Package yamaha contains the drivers for the Yamaha PortaSound PSS-790 and the
// PSR-400/PSR-500 keyboards. All drivers are skeletons: the ROMs are loaded and
// descrambled, the address maps are declared and the CPU receives a periodic
// interrupt flag, but there is no CPU core or sound playback.
//
// The two keyboards share a CPU (Matsushita MN18801A) and have related tone
// generators. The PSS-790 has a GEW6 (YM7138) and the PSR-400/PSR-500 has a
// GEW8 (YMW-258-F). Both have the address lines of the program ROM scrambled.
package yamaha
