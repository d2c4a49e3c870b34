package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// the window has no connection to the keyboard of the emulated machine. keys
// only control the window itself
func (eg *guiEbiten) inputKeyboard() error {
	var released []ebiten.Key
	released = inpututil.AppendJustReleasedKeys(released)

	for _, r := range released {
		switch r {
		case ebiten.KeyEscape:
			return ebiten.Termination
		case ebiten.KeyF11:
			ebiten.SetFullscreen(!ebiten.IsFullscreen())
		case ebiten.KeyTab:
			eg.showStatus = !eg.showStatus
		}
	}

	return nil
}
