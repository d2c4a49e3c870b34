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

var psr500Regions = []region.Def{
	{
		Name: "program",
		Size: 0x200000,
		ROMs: []region.ROM{
			// 2Mbit ROM. CS <= AB20 (low)
			region.Load("xj920c0.ic4", 0x000000, 0x040000, 0xbd45d962, "fe46ceae5584b56e36f31f27bedd9e7d578eb35b"),

			// mirroring due to unreferenced address lines AB19 to AB17
			region.Reload(0x040000, 0x040000),
			region.Reload(0x080000, 0x040000),
			region.Reload(0x0c0000, 0x040000),

			// 8Mbit ROM. CS <= AB20 (high)
			region.Load("xj921b0.ic5", 0x100000, 0x100000, 0xdd1a8afc, "5d5b47577faeed165f0bd73283f148d112e4d1e9"),
		},
	},
	{
		Name: "gew8",
		Size: 0x100000,
		ROMs: []region.ROM{
			region.Load("xj426b0.ic3", 0x000000, 0x100000, 0xef566734, "864f5689dbaa82bd8a1be4e53bdb21ec71be03cc"),
		},
	},
	{
		Name: "mpscpu",
		Size: 0x1000,
		ROMs: []region.ROM{
			region.NoDump("xj450a00.ic1", 0x0000, 0x1000),
		},
	},
}

// PSR500 has two 1Mbit PSRAMs
var PSR500 = hardware.Driver{
	Name:         "psr500",
	Year:         1991,
	Manufacturer: "Yamaha",
	Description:  "PSR-500",
	Flags:        hardware.Skeleton | hardware.NoSound | hardware.NotWorking,
	Regions:      psr500Regions,
	New: func() hardware.State {
		return &psr500{ramTop: 0x03ffff}
	},
}

// PSR400 is the same as the PSR500 but with only one PSRAM
var PSR400 = hardware.Driver{
	Name:         "psr400",
	Parent:       "psr500",
	Year:         1991,
	Manufacturer: "Yamaha",
	Description:  "PSR-400",
	Flags:        hardware.Skeleton | hardware.NoSound | hardware.NotWorking,
	Regions:      psr500Regions,
	New: func() hardware.State {
		return &psr500{ramTop: 0x01ffff}
	},
}

type psr500 struct {
	// the last address of PSRAM
	ramTop uint32

	hack *scheduler.Timer
}

func (st *psr500) Configure(cfg *hardware.Config) {
	cfg.SetCPU(mn1880.MN18801A, st.programMap, st.dataMap)

	cfg.AddSpeaker("lspeaker", audio.FrontLeft)
	cfg.AddSpeaker("rspeaker", audio.FrontRight)

	cfg.AddSound("gew8", gew.GEW8, clocks.GEW)
	cfg.AddRoute("gew8", 1, "lspeaker", 1.0)
	cfg.AddRoute("gew8", 0, "rspeaker", 1.0)
}

func (st *psr500) programMap(m *memory.Map) {
	m.Range(0x000000, 0x1fffff).ROM("program", 0)
}

// the purpose of most of the registers at the bottom of the data space is not
// known
func (st *psr500) dataMap(m *memory.Map) {
	m.Range(0x000000, 0x000000).NopW()
	m.Range(0x000001, 0x000001).NopR()
	m.Range(0x000011, 0x000011).NopRW()
	m.Range(0x000014, 0x000014).NopRW()

	// serial status and serial transmit buffer
	m.Range(0x000018, 0x000018).ReadConst(0x00)
	m.Range(0x00001a, 0x00001a).NopW()

	m.Range(0x000030, 0x000031).RAM()
	m.Range(0x000034, 0x000036).NopRW()
	m.Range(0x00003a, 0x00003b).NopRW()
	m.Range(0x00003e, 0x00003f).NopRW()
	m.Range(0x000050, 0x000053).RAM()
	m.Range(0x000055, 0x000055).NopRW()
	m.Range(0x00005d, 0x00005e).NopRW()

	// CE1/ = ~( A20/ & A17/ )
	// CE2/ = ~( A20/ & A17 )
	m.Range(0x000080, st.ramTop).Mirror(0xc0000).RAM()

	// window for more internal SFRs
	m.Range(0x003fe0, 0x003fff).Unmap()
	m.Range(0x003fe3, 0x003fe3).NopRW()
	m.Range(0x003fe6, 0x003fe6).NopW()
	m.Range(0x003fe7, 0x003fe7).NopRW()
	m.Range(0x003fe9, 0x003fe9).NopR()
	m.Range(0x003fee, 0x003fee).ReadConst(0x05).NopW()
	m.Range(0x003ff3, 0x003ff3).NopRW()

	// CS <= AB20 (high)
	m.Range(0x100000, 0x10000f).Mirror(0xffff0).Device("gew8")
}

func (st *psr500) DriverStart(m *hardware.Machine) error {
	return descrambleRegion(m, "program", descramble.PSR400)
}

func (st *psr500) MachineStart(m *hardware.Machine) error {
	st.hack = installInterruptHack(m)
	return nil
}
