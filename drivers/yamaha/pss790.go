package yamaha

import (
	"github.com/jetsetilly/portasound/hardware"
	"github.com/jetsetilly/portasound/hardware/audio"
	"github.com/jetsetilly/portasound/hardware/clocks"
	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/hardware/gew"
	"github.com/jetsetilly/portasound/hardware/memory"
	"github.com/jetsetilly/portasound/hardware/memory/descramble"
	"github.com/jetsetilly/portasound/hardware/memory/region"
	"github.com/jetsetilly/portasound/hardware/scheduler"
)

// PSS790 board:
//
//	CPU: Matsushita MN18801A, 10MHz with a 500kHz secondary resonator
//	IC15: 1Mbit program ROM. enabled when A19 is low
//	IC5: 4Mbit 'ABC' ROM. enabled when A19 is high
//	IC6: 256Kbit work RAM
//	IC2: YM7138 (GEW6) tone generator. four outputs mixed to stereo by a
//	     resistor ladder
//	IC3: 8Mbit voice ROM
//
// The CPU's peripheral ports (keyboard and button matrix, ADC for pitch bend
// and vector synth, seven segment display) are not emulated.
var PSS790 = hardware.Driver{
	Name:         "pss790",
	Year:         1990,
	Manufacturer: "Yamaha",
	Description:  "PSS-790",
	Flags:        hardware.Skeleton | hardware.NoSound | hardware.NotWorking,
	Regions: []region.Def{
		{
			Name: "program",
			Size: 0x100000,
			ROMs: []region.ROM{
				// CS <= AB19 (low)
				region.NoDump("xi105a00.ic15", 0x000000, 0x020000),

				// mirroring due to unreferenced address lines AB18 to AB17
				region.Reload(0x020000, 0x020000),
				region.Reload(0x040000, 0x020000),
				region.Reload(0x060000, 0x020000),

				// CS <= AB19 (high)
				region.NoDump("xh725a00.ic5", 0x080000, 0x080000),
			},
		},
		{
			Name: "gew6",
			Size: 0x100000,
			ROMs: []region.ROM{
				region.NoDump("xi104a00.ic3", 0x000000, 0x100000),
			},
		},
	},
	New: func() hardware.State {
		return &pss790{}
	},
}

type pss790 struct {
	hack *scheduler.Timer
}

func (st *pss790) Configure(cfg *hardware.Config) {
	cfg.SetCPU(mn1880.MN18801A, st.programMap, st.dataMap)

	cfg.AddSpeaker("lspeaker", audio.FrontLeft)
	cfg.AddSpeaker("rspeaker", audio.FrontRight)

	cfg.AddSound("gew6", gew.GEW6, clocks.GEW)
	cfg.AddRoute("gew6", 1, "lspeaker", 1.0)
	cfg.AddRoute("gew6", 0, "rspeaker", 1.0)
}

func (st *pss790) programMap(m *memory.Map) {
	// 1Mbit program ROM (and its mirrors)
	m.Range(0x000000, 0x07ffff).ROM("program", 0x000000)

	// 4Mbit 'ABC' ROM
	m.Range(0x080000, 0x0fffff).ROM("program", 0x080000)
}

func (st *pss790) dataMap(m *memory.Map) {
	// 256Kbit work RAM
	m.Range(0x000000, 0x007fff).RAM()

	// CS <= AB15 (high)
	m.Range(0x080000, 0x08000f).Mirror(0x07ff0).Device("gew6")
}

// DriverStart descrambles the program region. This covers both the program
// ROM and the ABC ROM
func (st *pss790) DriverStart(m *hardware.Machine) error {
	return descrambleRegion(m, "program", descramble.PSS790)
}

func (st *pss790) MachineStart(m *hardware.Machine) error {
	st.hack = installInterruptHack(m)
	return nil
}
