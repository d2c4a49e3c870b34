package debugger

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/jetsetilly/portasound/drivers"
	"github.com/jetsetilly/portasound/hardware"
	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/logger"
	"github.com/jetsetilly/portasound/monitor"
	"github.com/jetsetilly/portasound/resources"
	"github.com/jetsetilly/portasound/statsview"
	"github.com/jetsetilly/portasound/ui"
	"github.com/jetsetilly/portasound/version"
	"github.com/jetsetilly/portasound/wavwriter"
	"golang.org/x/term"
)

type debugger struct {
	ctx context

	guiQuit chan bool
	sig     chan os.Signal
	input   chan input

	// a quit signal from the gui has been received while running a script
	quit bool

	ui      *ui.UI
	machine *hardware.Machine
	watches map[string]watch

	// rule for stepping. by default (the field is nil) the step will move
	// forward to the next event
	stepRule func() bool
	postStep func()

	// printing styles
	styles styles

	// the prompt is only printed if stdin is a terminal
	interactive bool

	// the last time an image was sent to the gui
	lastShow time.Time
}

// the minimum period between images sent to the gui while the emulation is
// running
const showInterval = 20 * time.Millisecond

// show sends the current heat map and status line to the gui
func (m *debugger) show() {
	m.ui.Show(ui.Image{
		Main:   m.machine.HeatMap(),
		Status: m.status(),
	})
	m.lastShow = time.Now()
}

func (m *debugger) status() string {
	return fmt.Sprintf("%s %s IF=%04x", m.machine.Driver.Name, m.machine.Now(),
		m.machine.CPU.StateInt(mn1880.IF))
}

// returns true if a running emulation or script should stop. a quit from the
// gui is remembered so that the command loop also ends
func (m *debugger) quitRequested() bool {
	select {
	case <-m.sig:
		return true
	case <-m.guiQuit:
		m.quit = true
	default:
	}
	return m.quit
}

func (m *debugger) reset() {
	m.ctx.Reset()
	m.machine.Reset(m.ctx.random)
	fmt.Println(m.styles.debugger.Render("machine reset"))
	fmt.Println(m.styles.cpu.Render(
		m.machine.CPU.String(),
	))
}

// step advances the emulation to the next event according to the current step
// rule. the step rule will be reset after the step has completed
//
// returns true if quit signal has been received
func (m *debugger) step() bool {
	defer func() {
		m.stepRule = nil
		m.postStep = nil
	}()

	// the number of steps and the amount of emulated time stepped over
	var ct int
	var elapsed time.Duration

	// loop until the step rule returns true
	var done bool
	for !done {
		select {
		case <-m.sig:
			done = true
			continue // for loop
		case <-m.guiQuit:
			return true
		default:
		}

		d, err := m.machine.Step()
		if err != nil {
			fmt.Println(m.styles.err.Render(
				err.Error(),
			))
			return false
		}
		elapsed += d
		ct++

		w, err := m.checkWatches()
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
			return false
		}
		if w != nil {
			fmt.Println(m.styles.watch.Render(
				fmt.Sprintf("watch: %s = %02x -> %02x", w.ma, w.prev, w.data),
			))
			done = true
			continue // for loop
		}

		// apply step rule
		if m.stepRule == nil {
			done = true
		} else {
			done = m.stepRule()
			if !done && ct >= maxRuleSteps {
				fmt.Println(m.styles.err.Render(
					fmt.Sprintf("step rule not satisfied after %d steps", ct),
				))
				done = true
			}
		}
	}

	m.show()

	// report how many steps were taken if it is more than one
	if ct > 1 {
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("%d steps (%s)", ct, elapsed),
		))
	}

	if m.postStep == nil {
		// by default we print the general status of the emulation
		fmt.Println(m.styles.timer.Render(
			fmt.Sprintf("%s (+%s)", m.machine.Now(), elapsed),
		))
		fmt.Println(m.styles.cpu.Render(
			m.machine.CPU.String(),
		))
		if m.machine.Data.Last != nil {
			fmt.Println(m.styles.mem.Render(
				fmt.Sprintf("last write: %s", m.machine.Data.Last.Label()),
			))
			m.machine.Data.Last = nil
		}
	} else {
		m.postStep()
	}

	return false
}

// run the emulation for the duration of emulated time. a limit of zero means
// the emulation runs until it is interrupted
//
// returns true if quit signal has been received
func (m *debugger) run(limit time.Duration) bool {
	fmt.Println(m.styles.debugger.Render("emulation running"))

	// sentinal errors for the hook function
	var (
		watchErr  = errors.New("watch")
		endRunErr = errors.New("end run")
		quitErr   = errors.New("quit")
	)

	// hook is called after every step
	hook := func() error {
		select {
		case <-m.sig:
			return endRunErr
		case <-m.guiQuit:
			return quitErr
		default:
		}

		w, err := m.checkWatches()
		if err != nil {
			return err
		}
		if w != nil {
			return fmt.Errorf("%w: %s = %02x -> %02x", watchErr, w.ma, w.prev, w.data)
		}

		if time.Since(m.lastShow) > showInterval {
			m.show()
		}

		return nil
	}

	startTime := time.Now()
	startEmulated := m.machine.Now()

	m.ui.Push(ui.StateRunning)
	var err error
	if limit > 0 {
		err = m.machine.RunUntil(startEmulated+limit, hook)
	} else {
		err = m.machine.Run(hook)
	}
	m.ui.Push(ui.StatePaused)

	if errors.Is(err, quitErr) {
		return true
	}

	m.show()

	if err == nil || errors.Is(err, endRunErr) {
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("%s emulated in %.02f seconds", m.machine.Now()-startEmulated,
				time.Since(startTime).Seconds()),
		))
	} else if errors.Is(err, watchErr) {
		fmt.Println(m.styles.watch.Render(err.Error()))
	} else {
		fmt.Println(m.styles.err.Render(err.Error()))
	}

	// it's useful to see the state of the CPU at the end of the run
	fmt.Println(m.styles.cpu.Render(m.machine.CPU.String()))

	// consume last memory access information
	m.machine.Data.Last = nil

	return false
}

func (m *debugger) loop() {
	for {
		if m.interactive {
			fmt.Printf("%s> ", m.machine.Now())
		}

		var cmd []string

		select {
		case input := <-m.input:
			if input.err != nil {
				if !errors.Is(input.err, io.EOF) {
					fmt.Println(m.styles.err.Render(input.err.Error()))
				}
				return
			}
			cmd = strings.Fields(input.s)
			if len(cmd) == 0 {
				cmd = []string{"STEP"}
			}
		case <-m.sig:
			fmt.Print("\r")
			return
		case <-m.guiQuit:
			fmt.Print("\n")
			return
		}

		if m.commands(cmd) || m.quit {
			return
		}
	}
}

const programName = "portasound"

// the resources file in which the last successful rompath is stored
const rompathFile = "rompath"

func Launch(guiQuit chan bool, u *ui.UI, args []string) error {
	var driver string
	var rompath string
	var unconfirmed bool
	var random bool
	var wav string
	var tui bool
	var realtime bool
	var stats bool
	var script string
	var profile bool

	defaultRompath := "roms"
	if s, err := resources.Read(rompathFile); err != nil {
		logger.Log(logger.Allow, "debugger", err)
	} else if s = strings.TrimSpace(s); s != "" {
		defaultRompath = s
	}

	flgs := flag.NewFlagSet(programName, flag.ExitOnError)
	flgs.StringVar(&driver, "driver", drivers.Default, "name of the machine to emulate")
	flgs.StringVar(&rompath, "rompath", defaultRompath, "list of directories to search for ROM files")
	flgs.BoolVar(&unconfirmed, "unconfirmed", false, "apply descramble wirings that have not been confirmed")
	flgs.BoolVar(&random, "random", false, "randomise RAM on reset")
	flgs.StringVar(&wav, "wav", "", "record audio output to WAV file")
	flgs.BoolVar(&tui, "tui", false, "use the full screen monitor instead of the command line")
	flgs.BoolVar(&realtime, "realtime", false, "run the emulation in real time")
	flgs.BoolVar(&stats, "statsview", false, fmt.Sprintf("run stats server (available: %v)", statsview.Available()))
	flgs.StringVar(&script, "script", "", "lua script to run on startup")
	flgs.BoolVar(&profile, "profile", false, "create CPU profile for emulator")
	err := flgs.Parse(args)
	if err != nil {
		return err
	}
	args = flgs.Args()

	if len(args) == 1 {
		driver = args[0]
	} else if len(args) > 1 {
		return fmt.Errorf("too many arguments to debugger")
	}

	m, err := newDebugger(guiQuit, u, driver, rompath, context{
		unconfirmed: unconfirmed,
		random:      random,
	})
	if err != nil {
		return err
	}

	err = resources.Write(rompathFile, rompath)
	if err != nil {
		logger.Log(logger.Allow, "debugger", err)
	}

	fmt.Println(m.styles.debugger.Render(version.Banner()))
	fmt.Println(m.styles.debugger.Render(m.machine.Driver.String()))
	fmt.Println(m.styles.mem.Render(
		fmt.Sprintf("ROMs: %s", m.machine.Report),
	))

	m.machine.SetRealTime(realtime)

	if wav != "" {
		w, err := wavwriter.New(wav, m.machine.Mixer.SampleRate())
		if err != nil {
			return err
		}
		m.machine.Mixer.SetSink(w)
		defer func() {
			err := w.Close()
			if err != nil {
				logger.Log(logger.Allow, "debugger", err)
			}
		}()
	}

	if stats {
		if !statsview.Available() {
			fmt.Println(m.styles.err.Render("stats server not available in this build"))
		} else {
			statsview.Launch(os.Stdout)
		}
	}

	// audio player is created by the gui
	select {
	case u.AudioSetup <- ui.AudioSetup{
		Freq: m.machine.Mixer.SampleRate(),
		Read: audioSource{machine: m.machine},
	}:
	default:
	}

	signal.Notify(m.sig, syscall.SIGINT)

	if profile {
		f, err := os.Create("cpu.profile")
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer func() {
			err := f.Close()
			if err != nil {
				logger.Log(logger.Allow, "performance", err)
			}
		}()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	m.show()

	if script != "" {
		err := m.runScriptFile(script)
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
		}
		if m.quit {
			return nil
		}
	}

	if tui {
		signal.Stop(m.sig)
		return monitor.Launch(m.machine, guiQuit)
	}

	m.interactive = term.IsTerminal(int(os.Stdin.Fd()))
	go readInput(os.Stdin, m.input)

	m.loop()

	return nil
}

// newDebugger creates the machine for the named driver and the debugger that
// controls it
func newDebugger(guiQuit chan bool, u *ui.UI, driver string, rompath string, ctx context) (*debugger, error) {
	drv, err := drivers.Find(driver)
	if err != nil {
		return nil, err
	}

	m := &debugger{
		ctx:     ctx,
		guiQuit: guiQuit,
		ui:      u,
		sig:     make(chan os.Signal, 1),
		input:   make(chan input, 1),
		styles:  newStyles(),
		watches: make(map[string]watch),
	}
	m.ctx.Reset()

	m.machine, err = hardware.Create(&m.ctx, drv, filepath.SplitList(rompath))
	if err != nil {
		return nil, err
	}
	if m.ctx.random {
		m.machine.Reset(true)
	}

	return m, nil
}
