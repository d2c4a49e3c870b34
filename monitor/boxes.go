package monitor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gdamore/tcell"
	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/hardware/memory"
	"github.com/jetsetilly/portasound/hardware/scheduler"
	"github.com/jetsetilly/portasound/logger"
)

// number of rows of sixteen bytes in the RAM box
const ramRows = 8

// draw 128 bytes of the address space starting at base. bytes are coloured by
// how they have been accessed: green for read only, red for write only and
// yellow for both
func ramBox(s tcell.Screen, x, y int, label string, base uint32, spc *memory.Space) {
	labelledBox(s, x, y, 59, ramRows+3, label)

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Underline(true)
	colhead := "x0 x1 x2 x3 x4 x5 x6 x7  x8 x9 xA xB xC xD xE xF"
	drawString(s, x+10, y+1, style, colhead)

	for row := range ramRows {
		addr := base + uint32(row*16)
		style = tcell.StyleDefault.Foreground(tcell.ColorWhite)
		drawString(s, x+2, y+2+row, style, fmt.Sprintf("$%06X", addr&spc.Mask()))

		for low := range 16 {
			a := (addr + uint32(low)) & spc.Mask()
			col := x + 10 + low*3
			if low >= 8 {
				col++
			}

			val, _, err := spc.Peek(a)
			if err != nil {
				style = tcell.StyleDefault.Foreground(tcell.ColorGray)
				drawString(s, col, y+2+row, style, "--")
				continue // for loop
			}

			reads, writes, _ := spc.Heat(a)
			switch {
			case writes == 0 && reads > 0:
				style = tcell.StyleDefault.Foreground(tcell.ColorGreen)
			case reads == 0 && writes > 0:
				style = tcell.StyleDefault.Foreground(tcell.ColorRed)
			case reads > 0 && writes > 0:
				style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
			default:
				style = tcell.StyleDefault.Foreground(tcell.ColorGray)
			}
			drawString(s, col, y+2+row, style, fmt.Sprintf("%02X", val))
		}
	}
}

func cpuBox(s tcell.Screen, x, y int, cpu *mn1880.CPU) {
	labelledBox(s, x, y, 22, ramRows+3, cpu.Label())

	col := x + 2
	row := y + 2
	for st := range mn1880.NumStates {
		style := tcell.StyleDefault.Foreground(tcell.ColorGray)
		drawString(s, col, row, style, fmt.Sprintf("%2s:", st))

		style = tcell.StyleDefault.Foreground(tcell.ColorWhite)
		drawString(s, col+4, row, style, fmt.Sprintf("$%04X", cpu.StateInt(st)))

		// interrupt flags are shown in binary as well
		if st == mn1880.IF {
			drawString(s, col+10, row, style, fmt.Sprintf("%08b", cpu.StateInt(st)&0xff))
		}
		row++
	}
}

func timerBox(s tcell.Screen, x, y int, sch *scheduler.Scheduler) {
	tms := sch.Timers()
	labelledBox(s, x, y, 82, max(len(tms), 1)+1, "Timers")

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	if len(tms) == 0 {
		drawString(s, x+2, y+1, style, "none")
		return
	}
	for i, tm := range tms {
		style = tcell.StyleDefault.Foreground(tcell.ColorWhite)
		if !tm.Enabled() {
			style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		}
		drawString(s, x+2, y+1+i, style, tm.String())
	}
}

// number of log entries shown in the log box
const logRows = 8

func logBox(s tcell.Screen, x, y int, label string) {
	labelledBox(s, x, y, 82, logRows+1, label)

	var b bytes.Buffer
	logger.Tail(&b, logRows)
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, l := range lines {
		if i >= logRows {
			break // for loop
		}
		if len(l) > 78 {
			l = l[:78]
		}
		drawString(s, x+2, y+1+i, style, l)
	}
}
