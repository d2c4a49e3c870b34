package debugger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/test"
	"github.com/jetsetilly/portasound/ui"
)

func newTestDebugger(t *testing.T) *debugger {
	t.Helper()
	m, err := newDebugger(make(chan bool, 1), ui.NewUI(), "pss790", t.TempDir(), context{})
	test.DemandSuccess(t, err)
	return m
}

func TestUnknownDriver(t *testing.T) {
	_, err := newDebugger(make(chan bool, 1), ui.NewUI(), "dx7", t.TempDir(), context{})
	test.ExpectFailure(t, err)
}

func TestParseAddress(t *testing.T) {
	m := newTestDebugger(t)

	ma, err := m.parseAddress("$7fff")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ma.space, m.machine.Data)
	test.ExpectEquality(t, ma.address, 0x7fff)
	test.ExpectEquality(t, ma.String(), "data:$007fff")

	ma, err = m.parseAddress("p:0x1000")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ma.space, m.machine.Program)
	test.ExpectEquality(t, ma.address, 0x1000)

	ma, err = m.parseAddress("D:4096")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ma.space, m.machine.Data)
	test.ExpectEquality(t, ma.address, 0x1000)

	// unmapped
	_, err = m.parseAddress("$8000")
	test.ExpectFailure(t, err)

	// outside of the address space
	_, err = m.parseAddress("$200000")
	test.ExpectFailure(t, err)

	// not a number
	_, err = m.parseAddress("foo")
	test.ExpectFailure(t, err)
}

func TestStepAndRun(t *testing.T) {
	m := newTestDebugger(t)

	test.ExpectEquality(t, m.commands([]string{"STEP"}), false)
	test.ExpectEquality(t, m.machine.Now(), time.Millisecond)

	// the interrupt hack has fired
	test.ExpectEquality(t, m.machine.CPU.StateInt(mn1880.IF), 1<<3)

	test.ExpectEquality(t, m.commands([]string{"step", "5"}), false)
	test.ExpectEquality(t, m.machine.Now(), 6*time.Millisecond)

	test.ExpectEquality(t, m.commands([]string{"RUN", "10.5"}), false)
	test.ExpectEquality(t, m.machine.Now(), 16*time.Millisecond+500*time.Microsecond)

	// bad arguments leave the emulation where it is
	test.ExpectEquality(t, m.commands([]string{"RUN", "-1"}), false)
	test.ExpectEquality(t, m.commands([]string{"STEP", "0"}), false)
	test.ExpectEquality(t, m.commands([]string{"STEP", "FOO"}), false)
	test.ExpectEquality(t, m.machine.Now(), 16*time.Millisecond+500*time.Microsecond)

	test.ExpectEquality(t, m.commands([]string{"RESET"}), false)
	test.ExpectEquality(t, m.machine.Now(), 0)
	test.ExpectEquality(t, m.machine.CPU.StateInt(mn1880.IF), 0)

	// a step sends an image to the gui
	select {
	case img := <-m.ui.SetImage:
		test.ExpectSuccess(t, img.Main != nil)
		test.ExpectSuccess(t, strings.HasPrefix(img.Status, "pss790"))
	default:
		t.Errorf("no image sent to gui")
	}
}

func TestStepRules(t *testing.T) {
	m := newTestDebugger(t)

	test.ExpectEquality(t, m.commands([]string{"STEP", "IF"}), false)
	test.ExpectEquality(t, m.machine.Now(), time.Millisecond)

	// IF does not change again because the flag is never cleared
	test.ExpectEquality(t, m.commands([]string{"STEP", "TIMER", "interrupt", "hack"}), false)
	test.ExpectEquality(t, m.machine.Now(), 2*time.Millisecond)

	// rules are forgotten after the step
	test.ExpectSuccess(t, m.stepRule == nil)
	test.ExpectSuccess(t, m.postStep == nil)

	test.ExpectEquality(t, m.commands([]string{"STEP", "TIMER", "nonexistent"}), false)
	test.ExpectEquality(t, m.machine.Now(), 2*time.Millisecond)
}

func TestPokeAndWatch(t *testing.T) {
	m := newTestDebugger(t)

	test.ExpectEquality(t, m.commands([]string{"POKE", "$10", "$aa"}), false)
	v, _, err := m.machine.Data.Peek(0x10)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0xaa)

	// writes to ROM are ignored
	test.ExpectEquality(t, m.commands([]string{"POKE", "p:$10", "$aa"}), false)
	v, _, err = m.machine.Program.Peek(0x10)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x00)

	test.ExpectEquality(t, m.commands([]string{"WATCH", "$10"}), false)
	test.ExpectEquality(t, m.commands([]string{"WATCH", "p:$10"}), false)
	test.ExpectEquality(t, len(m.watches), 2)

	// duplicate watch
	test.ExpectEquality(t, m.commands([]string{"WATCH", "$10"}), false)
	test.ExpectEquality(t, len(m.watches), 2)

	w, err := m.checkWatches()
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, w == nil)

	test.ExpectSuccess(t, m.machine.Data.Write(0x10, 0xbb))
	w, err = m.checkWatches()
	test.ExpectSuccess(t, err)
	test.DemandSuccess(t, w != nil)
	test.ExpectEquality(t, w.prev, 0xaa)
	test.ExpectEquality(t, w.data, 0xbb)

	l := m.listWatches()
	test.DemandEquality(t, len(l), 2)
	test.ExpectEquality(t, l[0].ma.space, m.machine.Data)
	test.ExpectEquality(t, l[1].ma.space, m.machine.Program)

	test.ExpectEquality(t, m.commands([]string{"WATCH", "DROP", "$10"}), false)
	test.ExpectEquality(t, len(m.watches), 1)
	test.ExpectEquality(t, m.commands([]string{"WATCH", "DROP", "ALL"}), false)
	test.ExpectEquality(t, len(m.watches), 0)
}

// the psr500 data map has registers that can be written but not read
func TestPokeWriteOnly(t *testing.T) {
	rompath := t.TempDir()
	dir := filepath.Join(rompath, "psr500")
	test.DemandSuccess(t, os.MkdirAll(dir, 0700))
	for file, length := range map[string]int{
		"xj920c0.ic4": 0x40000,
		"xj921b0.ic5": 0x100000,
		"xj426b0.ic3": 0x100000,
	} {
		test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, file), make([]byte, length), 0600))
	}

	m, err := newDebugger(make(chan bool, 1), ui.NewUI(), "psr500", rompath, context{})
	test.DemandSuccess(t, err)

	for _, a := range []string{"$00", "$1a", "$3fe6"} {
		_, err = m.parseAddress(a)
		test.ExpectFailure(t, err, a)

		ma, err := m.parseWriteAddress(a)
		test.ExpectSuccess(t, err, a)
		test.ExpectSuccess(t, ma.area != nil, a)

		test.ExpectEquality(t, m.commands([]string{"POKE", a, "$55"}), false)
	}

	// explicitly unmapped
	_, err = m.parseWriteAddress("$3fe0")
	test.ExpectFailure(t, err)

	test.ExpectEquality(t, m.commands([]string{"POKE", "$80", "$12"}), false)
	v, _, err := m.machine.Data.Peek(0x80)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x12)
}

func TestDump(t *testing.T) {
	m := newTestDebugger(t)
	test.ExpectSuccess(t, m.machine.Data.Write(0x7ff1, 0x01))

	from, err := m.parseAddress("$7ff0")
	test.DemandSuccess(t, err)
	to, err := m.parseAddress("$7ff3")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.dump(from, to), "007ff0 00 01 00 00\n")
}

func TestQuit(t *testing.T) {
	m := newTestDebugger(t)
	test.ExpectEquality(t, m.commands([]string{"CPU"}), false)
	test.ExpectEquality(t, m.commands([]string{"NOSUCHCOMMAND"}), false)
	test.ExpectEquality(t, m.commands([]string{"quit"}), true)

	// quit from the gui stops a run and is reported to the command loop
	m.guiQuit <- true
	test.ExpectEquality(t, m.commands([]string{"RUN"}), true)
}

func TestScript(t *testing.T) {
	m := newTestDebugger(t)

	script := `
poke(0x10, 0x42)
assert(peek(0x10) == 0x42)
assert(ppeek(0x10) == 0)
assert(step(3) == 3)
assert(run(2.5) == 5.5)
assert(now() == 5.5)
assert(state("IF") == 8)
log("script finished")
`
	err := m.runScript(strings.NewReader(script), "test")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m.machine.Now(), 5*time.Millisecond+500*time.Microsecond)

	// unmapped address
	err = m.runScript(strings.NewReader("peek(0x8000)"), "test")
	test.ExpectFailure(t, err)

	// unknown CPU state
	err = m.runScript(strings.NewReader(`state("ZZ")`), "test")
	test.ExpectFailure(t, err)

	// syntax error
	err = m.runScript(strings.NewReader("poke(0x10"), "test")
	test.ExpectFailure(t, err)
}

func TestReadInput(t *testing.T) {
	ch := make(chan input, 3)
	readInput(strings.NewReader("step\nrun 10\n"), ch)

	in := <-ch
	test.ExpectEquality(t, in.s, "step")
	in = <-ch
	test.ExpectEquality(t, in.s, "run 10")
	in = <-ch
	test.ExpectEquality(t, in.err, io.EOF)
}

func TestAudioSource(t *testing.T) {
	m := newTestDebugger(t)
	test.ExpectImplements[ui.AudioReader](t, audioSource{machine: m.machine})

	test.ExpectEquality(t, m.commands([]string{"RUN", "10"}), false)
	buf := make([]uint8, 64)
	n, err := audioSource{machine: m.machine}.Read(buf)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 64)
}
