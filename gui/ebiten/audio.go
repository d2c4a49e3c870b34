package ebiten

import (
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/jetsetilly/portasound/ui"
)

type audioPlayer struct {
	p *oto.Player
	r ui.AudioReader

	// the state field is accessed by the Read() function via the audio
	// engine, and by the GUI which is in another goroutine. access to the state
	// field therefore, is proctected by a mutex
	crit  sync.Mutex
	state ui.State
}

func (a *audioPlayer) setState(state ui.State) {
	a.crit.Lock()
	defer a.crit.Unlock()
	a.state = state
	if a.p != nil {
		if state == ui.StatePaused {
			a.p.Pause()
		} else {
			a.p.Play()
		}
	}
}

// the number of bytes the player should have buffered. the emulation is
// nudged if there is less than this
const prefetch = 4096

func (a *audioPlayer) Read(buf []uint8) (int, error) {
	a.crit.Lock()
	defer a.crit.Unlock()
	if a.state != ui.StateRunning || a.r == nil {
		return 0, nil
	}

	if a.p != nil && a.p.BufferedSize() < prefetch {
		a.r.Nudge()
	}

	n, err := a.r.Read(buf)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// the player is closed outside of the critical section because the player
// may be calling Read() at the same time
func (a *audioPlayer) close() error {
	a.crit.Lock()
	p := a.p
	a.p = nil
	a.crit.Unlock()

	if p == nil {
		return nil
	}
	return p.Close()
}
