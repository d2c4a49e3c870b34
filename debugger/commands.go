package debugger

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jetsetilly/portasound/drivers"
	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/logger"
)

// the number of addresses listed by the HEAT command
const heatListLen = 16

// the largest range of addresses the DUMP command will output
const maxDumpLen = 0x1000

// returns true if debugger is to quit
func (m *debugger) commands(cmd []string) bool {
	if len(cmd) == 0 {
		return false
	}

	switch strings.ToUpper(cmd[0]) {
	case "R", "RUN":
		var limit time.Duration
		if len(cmd) > 1 {
			ms, err := strconv.ParseFloat(cmd[1], 64)
			if err != nil || ms <= 0 {
				fmt.Println(m.styles.err.Render(
					fmt.Sprintf("RUN requires a positive number of milliseconds: %s", cmd[1]),
				))
				break // switch
			}
			limit = time.Duration(ms * float64(time.Millisecond))
		}
		return m.run(limit)

	case "ST", "STEP":
		if len(cmd) > 1 {
			if !m.parseStepRule(cmd[1:]) {
				break // switch
			}
		}
		return m.step()

	case "RESET":
		m.reset()

	case "CPU":
		fmt.Println(m.styles.cpu.Render(
			m.machine.CPU.String(),
		))

	case "IF":
		m.printInterrupts()

	case "TIMERS", "TIMER":
		fmt.Println(m.styles.timer.Render(
			m.machine.Scheduler.String(),
		))

	case "MAP":
		spc := m.machine.Data
		if len(cmd) > 1 {
			switch strings.ToUpper(cmd[1]) {
			case "PROGRAM", "P":
				spc = m.machine.Program
			case "DATA", "D":
			default:
				fmt.Println(m.styles.err.Render(
					fmt.Sprintf("unrecognised argument for MAP command: %s", cmd[1]),
				))
				return false
			}
		}
		fmt.Println(m.styles.mem.Render(
			spc.String(),
		))

	case "REGIONS":
		for _, n := range m.machine.Regions.Names() {
			r, _ := m.machine.Regions.Region(n)
			fmt.Println(m.styles.mem.Render(r.Status()))
		}
		fmt.Println(m.styles.mem.Render(
			fmt.Sprintf("ROMs: %s", m.machine.Report),
		))

	case "DUMP":
		if len(cmd) < 3 {
			fmt.Println(m.styles.err.Render(
				"DUMP requires a 'from' and a 'to' address",
			))
			break // switch
		}

		from, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("dump: %s", err.Error()),
			))
			break // switch
		}

		to, err := m.parseAddress(cmd[2])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("dump: %s", err.Error()),
			))
			break // switch
		}

		if to.address < from.address {
			fmt.Println(m.styles.err.Render(
				"dump: the 'to' address is less than the 'from' address",
			))
			break // switch
		}

		if from.space != to.space {
			fmt.Println(m.styles.err.Render(
				"dump: the 'from' and 'to' addresses are in different address spaces",
			))
			break // switch
		}

		if to.address-from.address >= maxDumpLen {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("dump: range is too large. the maximum is %#x bytes", maxDumpLen),
			))
			break // switch
		}

		fmt.Print(m.dump(from, to))

	case "PEEK":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"PEEK requires an address",
			))
			break // switch
		}

		ma, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("peek: %s", err.Error()),
			))
			break // switch
		}

		data, area, err := ma.space.Peek(ma.address)
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("peek address is not readable: %s", cmd[1]),
			))
			break // switch
		}

		fmt.Println(m.styles.mem.Render(
			fmt.Sprintf("%s = %02x (%s)", ma, data, area.Label()),
		))

	case "POKE":
		if len(cmd) < 3 {
			fmt.Println(m.styles.err.Render(
				"POKE requires an address and a value",
			))
			break // switch
		}

		ma, err := m.parseWriteAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("poke: %s", err.Error()),
			))
			break // switch
		}

		v := cmd[2]
		if strings.HasPrefix(v, "$") {
			v = fmt.Sprintf("0x%s", v[1:])
		}
		data, err := strconv.ParseUint(v, 0, 8)
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("poke: value is not valid: %s", cmd[2]),
			))
			break // switch
		}

		// the write is made through the address space in the same way as a
		// CPU write so ROM and nop areas will ignore the value
		err = ma.space.Write(ma.address, uint8(data))
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("poke: %s", err.Error()),
			))
			break // switch
		}
		ma.space.Last = nil

		// write-only addresses can not be read back
		d, area, err := ma.space.Peek(ma.address)
		if err != nil || area == nil {
			fmt.Println(m.styles.mem.Render(
				fmt.Sprintf("%s written %02x (%s)", ma, data, ma.area.Label()),
			))
			break // switch
		}
		fmt.Println(m.styles.mem.Render(
			fmt.Sprintf("%s = %02x (%s)", ma, d, area.Label()),
		))

	case "HEAT":
		spc := m.machine.Data
		if len(cmd) > 1 && strings.ToUpper(cmd[1]) == "CLEAR" {
			for _, r := range spc.RAMs() {
				r.ClearHeat()
			}
			break // switch
		}
		h := spc.Hottest(heatListLen)
		if len(h) == 0 {
			fmt.Println(m.styles.mem.Render("no RAM accesses"))
			break // switch
		}
		for _, e := range h {
			fmt.Println(m.styles.mem.Render(e.String()))
		}

	case "GEW", "SOUND":
		for _, tag := range m.machine.SoundTags() {
			g, _ := m.machine.Sound(tag)
			fmt.Println(m.styles.sound.Render(g.String()))
		}

	case "AUDIO":
		fmt.Println(m.styles.sound.Render(
			m.machine.Mixer.String(),
		))
		fmt.Println(m.styles.sound.Render(
			fmt.Sprintf("%d frames queued, %d dropped", m.machine.Mixer.Queued(), m.machine.Mixer.Dropped()),
		))

	case "WATCH":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"WATCH requires an address",
			))
			break // switch
		}

		// we check the first argument for special keywords before assuming
		// it is an address. the keywords are case insensitive
		arg := strings.ToUpper(cmd[1])

		if arg == "DROP" {
			if len(cmd) < 3 {
				fmt.Println(m.styles.err.Render(
					"WATCH DROP requires an address",
				))
				break // switch
			}

			if strings.ToUpper(cmd[2]) == "ALL" {
				clear(m.watches)
				break // switch
			}

			ma, err := m.parseAddress(cmd[2])
			if err != nil {
				fmt.Println(m.styles.err.Render(
					fmt.Sprintf("watch: %s", err.Error()),
				))
				break // switch
			}
			err = m.dropWatch(ma)
			if err != nil {
				fmt.Println(m.styles.debugger.Render(err.Error()))
				break // switch
			}
			fmt.Println(m.styles.debugger.Render(
				fmt.Sprintf("watch %s has been removed", ma),
			))
			break // switch
		}

		ma, err := m.parseAddress(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("watch: %s", err.Error()),
			))
			break // switch
		}

		err = m.addWatch(ma)
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
			break // switch
		}
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("added watch for %s", ma),
		))

	case "LIST":
		fmt.Println(m.styles.debugger.Render("watches"))
		l := m.listWatches()
		if len(l) == 0 {
			fmt.Println("none")
		} else {
			for _, w := range l {
				fmt.Println(w)
			}
		}

	case "DRIVERS":
		for _, drv := range drivers.List() {
			s := drv.String()
			if drv.Name == m.machine.Driver.Name {
				s = fmt.Sprintf("%s *", s)
			}
			fmt.Println(m.styles.debugger.Render(s))
			fmt.Printf("\t%s\n", drv.Flags)
		}

	case "SCRIPT":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"SCRIPT requires a filename",
			))
			break // switch
		}
		err := m.runScriptFile(cmd[1])
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
		}
		m.show()
		return m.quit

	case "LOG":
		switch len(cmd) {
		case 1:
			logger.Tail(os.Stdout, -1)
		case 2:
			c := strings.ToUpper(cmd[1])
			switch c {
			case "ECHO":
				logger.SetEcho(os.Stdout)
			case "NOECHO":
				logger.SetEcho(nil)
			default:
				n, err := strconv.Atoi(c)
				if err != nil {
					fmt.Println(m.styles.err.Render(
						fmt.Sprintf("unrecognised argument for LOG command: %s", c),
					))
					break // switch
				}
				logger.Tail(os.Stdout, n)
			}
		default:
			fmt.Println(m.styles.err.Render(
				"too many arguments to LOG command",
			))
		}

	case "HELP":
		fmt.Println(m.styles.debugger.Render(help))

	case "QUIT":
		return true

	default:
		fmt.Println(m.styles.err.Render(
			fmt.Sprintf("unrecognised command: %s", strings.Join(cmd, " ")),
		))
	}

	return false
}

const help = `RUN [ms]  STEP [n|TIMER name|IF]  RESET  CPU  IF  TIMERS
MAP [PROGRAM|DATA]  REGIONS  PEEK addr  POKE addr val  DUMP from to
HEAT [CLEAR]  GEW  AUDIO  WATCH addr  WATCH DROP addr|ALL  LIST
DRIVERS  SCRIPT file  LOG [n|ECHO|NOECHO]  QUIT
addresses are in the data space unless prefixed with p:`

func (m *debugger) printInterrupts() {
	f := m.machine.CPU.StateInt(mn1880.IF)
	p := m.machine.CPU.PendingInterrupts()
	if len(p) == 0 {
		fmt.Println(m.styles.cpu.Render(
			fmt.Sprintf("IF=%04x no pending interrupts", f),
		))
		return
	}
	fmt.Println(m.styles.cpu.Render(
		fmt.Sprintf("IF=%04x pending %v", f, p),
	))
}

// dump returns a hex dump of the addresses between from and to inclusive.
// unreadable addresses are shown as --
func (m *debugger) dump(from mappedAddress, to mappedAddress) string {
	var s strings.Builder
	var column int
	for a := from.address; a <= to.address; a++ {
		if column == 0 {
			s.WriteString(fmt.Sprintf("%06x", a))
		}

		data, _, err := from.space.Peek(a)
		if err != nil {
			s.WriteString(" --")
		} else {
			s.WriteString(fmt.Sprintf(" %02x", data))
		}

		column++
		if column > 15 {
			s.WriteString("\n")
			column = 0
		}
	}
	if column != 0 {
		s.WriteString("\n")
	}
	return s.String()
}
