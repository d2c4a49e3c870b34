// Package monitor is a full screen alternative to the line based debugger. It
// shows a page of data memory, the CPU state registers, the scheduler's timers
// and the most recent log entries.
//
// Keys:
//
//	r		run/pause
//	s		step to the next event (when paused)
//	PgUp/PgDn	move the memory page
//	p		switch between data and program space
//	q		quit
package monitor

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell"
	"github.com/jetsetilly/portasound/hardware"
	"github.com/jetsetilly/portasound/hardware/memory"
	"github.com/jetsetilly/portasound/logger"
)

// the screen is redrawn every tick. when running, the emulation is advanced by
// the same amount of emulated time for every tick
const tick = 25 * time.Millisecond

// the number of bytes the PgUp/PgDn keys move the memory page by
const pageSize = ramRows * 16

type monitor struct {
	screen  tcell.Screen
	machine *hardware.Machine

	running bool
	spc     *memory.Space
	base    uint32

	// error from the emulation. shown in the status line
	err error
}

func newMonitor(screen tcell.Screen, machine *hardware.Machine) *monitor {
	return &monitor{
		screen:  screen,
		machine: machine,
		spc:     machine.Data,
	}
}

// Launch the monitor for the machine. The function returns when the user quits
// the monitor or when the quit channel is signalled
func Launch(machine *hardware.Machine, quit chan bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	defer screen.Fini()

	mon := newMonitor(screen, machine)

	events := make(chan tcell.Event, 1)
	done := make(chan bool)
	defer close(done)

	go func() {
		for {
			ev := screen.PollEvent()
			select {
			case events <- ev:
			case <-done:
				return
			}

			// PollEvent() returns nil once the screen has been finalised
			if ev == nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return nil
		case ev := <-events:
			if ev == nil || mon.handle(ev) {
				return nil
			}
			mon.draw()
		case <-ticker.C:
			mon.update()
			mon.draw()
		}
	}
}

// handle returns true if the event means the monitor should quit
func (mon *monitor) handle(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyCtrlC:
			return true
		case tcell.KeyPgUp:
			mon.base = (mon.base - pageSize) & mon.spc.Mask()
		case tcell.KeyPgDn:
			mon.base = (mon.base + pageSize) & mon.spc.Mask()
		case tcell.KeyRune:
			switch e.Rune() {
			case 'q', 'Q':
				return true
			case 'r', 'R':
				mon.running = !mon.running
				logger.Logf(logger.Allow, "monitor", "running: %v", mon.running)
			case 's', 'S':
				if !mon.running {
					_, mon.err = mon.machine.Step()
				}
			case 'p', 'P':
				if mon.spc == mon.machine.Data {
					mon.spc = mon.machine.Program
				} else {
					mon.spc = mon.machine.Data
				}
				mon.base &= mon.spc.Mask()
			}
		}
	case *tcell.EventResize:
		mon.screen.Sync()
	}
	return false
}

// update advances the emulation if it is running
func (mon *monitor) update() {
	if !mon.running {
		return
	}
	mon.err = mon.machine.RunFor(tick)
	if mon.err != nil {
		mon.running = false
	}
}

func (mon *monitor) draw() {
	mon.screen.Clear()

	ramBox(mon.screen, 1, 1, mon.spc.Name(), mon.base, mon.spc)
	cpuBox(mon.screen, 61, 1, mon.machine.CPU)
	timerBox(mon.screen, 1, ramRows+5, mon.machine.Scheduler)

	y := ramRows + 5 + max(len(mon.machine.Scheduler.Timers()), 1) + 2
	logBox(mon.screen, 1, y, "Log")

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	state := "paused"
	if mon.running {
		state = "running"
	}
	drawString(mon.screen, 2, 0, style, fmt.Sprintf("%s  %s  %s", mon.machine.Driver.Name, mon.machine.Now(), state))

	if mon.err != nil {
		style = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
		drawString(mon.screen, 2, y+logRows+3, style, mon.err.Error())
	} else {
		style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		drawString(mon.screen, 2, y+logRows+3, style, "r run/pause  s step  p space  PgUp/PgDn page  q quit")
	}

	mon.screen.Show()
}
