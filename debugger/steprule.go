package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/portasound/hardware/cpu/mn1880"
)

// the maximum number of steps a step rule can take before the step is abandoned
const maxRuleSteps = 1000000

func (m *debugger) parseStepRule(cmd []string) bool {
	rule := strings.ToUpper(cmd[0])

	if n, err := strconv.Atoi(rule); err == nil {
		if n < 1 {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("STEP %d is not a valid number of steps", n),
			))
			return false
		}
		ct := 0
		m.stepRule = func() bool {
			ct++
			return ct >= n
		}
		return true
	}

	switch rule {
	case "TIMER", "TM":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"STEP TIMER requires the name of a timer",
			))
			return false
		}
		name := strings.Join(cmd[1:], " ")
		for _, tm := range m.machine.Scheduler.Timers() {
			if !strings.EqualFold(tm.Name(), name) {
				continue // for loop
			}
			if !tm.Enabled() {
				fmt.Println(m.styles.err.Render(
					fmt.Sprintf("timer %s is not enabled", tm.Name()),
				))
				return false
			}
			fired := tm.Fired()
			m.stepRule = func() bool {
				return tm.Fired() != fired
			}
			m.postStep = func() {
				fmt.Println(m.styles.timer.Render(tm.String()))
			}
			return true
		}
		fmt.Println(m.styles.err.Render(
			fmt.Sprintf("no timer named %s", name),
		))
		return false

	case "IF":
		// steps until the interrupt flags register changes
		f := m.machine.CPU.StateInt(mn1880.IF)
		m.stepRule = func() bool {
			return m.machine.CPU.StateInt(mn1880.IF) != f
		}
		m.postStep = func() {
			m.printInterrupts()
		}
		return true
	}

	fmt.Println(m.styles.err.Render(
		fmt.Sprintf("STEP %s is unsupported", rule),
	))
	return false
}
