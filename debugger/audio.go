package debugger

import "github.com/jetsetilly/portasound/hardware"

// audioSource implements the ui.AudioReader interface for the machine's mixer
type audioSource struct {
	machine *hardware.Machine
}

func (a audioSource) Read(buf []byte) (int, error) {
	return a.machine.Mixer.Read(buf)
}

func (a audioSource) Nudge() {
	a.machine.Nudge()
}
