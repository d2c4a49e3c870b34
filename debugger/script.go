package debugger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
	"github.com/jetsetilly/portasound/hardware/memory"
	"github.com/jetsetilly/portasound/logger"
	lua "github.com/yuin/gopher-lua"
)

// errScriptQuit is returned when the quit signal is received by a running script
var errScriptQuit = errors.New("script interrupted")

// runScriptFile loads and runs the lua script in the named file
func (m *debugger) runScriptFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	defer f.Close()
	return m.runScript(f, filepath.Base(filename))
}

// runScript runs the lua script read from r. the script has access to the
// machine through the functions registered by registerScriptAPI()
func (m *debugger) runScript(r io.Reader, name string) error {
	L := lua.NewState()
	defer L.Close()

	m.registerScriptAPI(L)

	fn, err := L.Load(r, name)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}

	L.Push(fn)
	err = L.PCall(0, lua.MultRet, nil)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}

	return nil
}

func (m *debugger) registerScriptAPI(L *lua.LState) {
	peek := func(spc *memory.Space) lua.LGFunction {
		return func(L *lua.LState) int {
			addr := uint32(L.CheckInt(1))
			v, _, err := spc.Peek(addr)
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(lua.LNumber(v))
			return 1
		}
	}
	L.SetGlobal("peek", L.NewFunction(peek(m.machine.Data)))
	L.SetGlobal("ppeek", L.NewFunction(peek(m.machine.Program)))

	L.SetGlobal("poke", L.NewFunction(func(L *lua.LState) int {
		addr := uint32(L.CheckInt(1))
		v := L.CheckInt(2)
		if v < 0 || v > 0xff {
			L.ArgError(2, "value must be between 0 and 255")
			return 0
		}
		err := m.machine.Data.Write(addr, uint8(v))
		if err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}))

	// step and run return the emulated time in milliseconds after completion
	L.SetGlobal("step", L.NewFunction(func(L *lua.LState) int {
		n := L.OptInt(1, 1)
		for range n {
			if m.quitRequested() {
				L.RaiseError("%s", errScriptQuit.Error())
				return 0
			}
			_, err := m.machine.Step()
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
		}
		L.Push(lua.LNumber(milliseconds(m.machine.Now())))
		return 1
	}))

	L.SetGlobal("run", L.NewFunction(func(L *lua.LState) int {
		ms := L.CheckNumber(1)
		target := m.machine.Now() + time.Duration(float64(ms)*float64(time.Millisecond))
		err := m.machine.RunUntil(target, func() error {
			if m.quitRequested() {
				return errScriptQuit
			}
			return nil
		})
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		L.Push(lua.LNumber(milliseconds(m.machine.Now())))
		return 1
	}))

	L.SetGlobal("state", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		s, ok := mn1880.StateByName(name)
		if !ok {
			L.ArgError(1, fmt.Sprintf("unknown CPU state: %s", name))
			return 0
		}
		L.Push(lua.LNumber(m.machine.CPU.StateInt(s)))
		return 1
	}))

	L.SetGlobal("now", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(milliseconds(m.machine.Now())))
		return 1
	}))

	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		s := L.CheckString(1)
		logger.Log(logger.Allow, "script", s)
		fmt.Println(m.styles.script.Render(s))
		return 0
	}))
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
