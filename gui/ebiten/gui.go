// Package ebiten shows the emulation's memory heat map in a window and plays
// the audio output of the machine.
package ebiten

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jetsetilly/portasound/logger"
	"github.com/jetsetilly/portasound/ui"
	"github.com/jetsetilly/portasound/version"
)

type windowGeometry struct {
	x, y int
	w, h int
}

func (g windowGeometry) valid() bool {
	return g.x >= 0 && g.y >= 0 && g.w > 0 && g.h > 0
}

type guiEbiten struct {
	u    *ui.UI
	geom windowGeometry

	endGui chan bool

	state ui.State

	main   *ebiten.Image
	status string

	// width/height of incoming image from emulation. not to be confused with window dimensions
	width  int
	height int

	// whether the status line is drawn over the image
	showStatus bool

	// the audio player can be stopped and recreated as required
	audio audioPlayer
}

// the size of the window's logical screen
const (
	screenWidth  = 512
	screenHeight = 512
)

func (eg *guiEbiten) Update() error {
	// deal with quit condition
	select {
	case <-eg.endGui:
		return ebiten.Termination
	default:
	}

	// handle user input
	err := eg.inputKeyboard()
	if err != nil {
		return err
	}

	// change state if necessary
	select {
	case eg.state = <-eg.u.State:
		eg.audio.setState(eg.state)
	default:
	}

	// create audio if necessary
	select {
	case s := <-eg.u.AudioSetup:
		err := eg.setupAudio(s)
		if err != nil {
			return err
		}
	default:
	}

	// retrieve any pending images
	select {
	case img := <-eg.u.SetImage:
		eg.setImage(img)
	default:
	}

	return nil
}

func (eg *guiEbiten) setImage(img ui.Image) {
	eg.status = img.Status
	if img.Main == nil {
		return
	}
	if eg.main == nil || eg.main.Bounds() != img.Main.Bounds() {
		eg.width = img.Main.Bounds().Dx()
		eg.height = img.Main.Bounds().Dy()
		eg.main = ebiten.NewImage(eg.width, eg.height)
	}
	eg.main.WritePixels(img.Main.Pix)
}

// oto allows only one context per program so the context is created with the
// first audio setup and reused
var otoContext *oto.Context
var otoFreq int

func (eg *guiEbiten) setupAudio(s ui.AudioSetup) error {
	if s.Read == nil {
		return nil
	}

	err := eg.audio.close()
	if err != nil {
		return fmt.Errorf("ebiten: %w", err)
	}

	if otoContext == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   s.Freq,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return fmt.Errorf("ebiten: %w", err)
		}

		select {
		case <-ready:
		case <-eg.endGui:
			return ebiten.Termination
		}

		otoContext = ctx
		otoFreq = s.Freq
	} else if otoFreq != s.Freq {
		logger.Logf(logger.Allow, "gui", "audio frequency cannot change from %dHz to %dHz", otoFreq, s.Freq)
	}

	eg.audio.crit.Lock()
	eg.audio.r = s.Read
	eg.audio.p = otoContext.NewPlayer(&eg.audio)
	eg.audio.crit.Unlock()

	// the player will start when the emulation is running
	eg.audio.setState(eg.state)

	return nil
}

func (eg *guiEbiten) Draw(screen *ebiten.Image) {
	if eg.main != nil {
		// scale heat map to fill the screen
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(float64(screenWidth)/float64(eg.width), float64(screenHeight)/float64(eg.height))
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(eg.main, &op)
	}

	if eg.showStatus {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\n%s", eg.status, eg.state))
	}

	eg.geom.x, eg.geom.y = ebiten.WindowPosition()
	eg.geom.w, eg.geom.h = ebiten.WindowSize()
}

func (eg *guiEbiten) Layout(width, height int) (int, int) {
	return screenWidth, screenHeight
}

// Launch must be called from the main goroutine. It returns when the window
// is closed or when the endGui channel is signalled
func Launch(endGui chan bool, u *ui.UI) error {
	eg := &guiEbiten{
		endGui:     endGui,
		u:          u,
		state:      ui.StatePaused,
		showStatus: true,
		audio: audioPlayer{
			state: ui.StatePaused,
		},
	}

	// wait for the first image and a possible quit request. the emulation
	// sends an image as soon as the machine has been created
	select {
	case img := <-u.SetImage:
		defer func() {
			err := eg.audio.close()
			if err != nil {
				logger.Log(logger.Allow, "gui", err)
			}
		}()

		ebiten.SetWindowTitle(version.Title())
		ebiten.SetVsyncEnabled(true)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetWindowSize(screenWidth, screenHeight)
		ebiten.SetWindowPosition(10, 10)
		ebiten.SetTPS(ebiten.SyncWithFPS)

		// the first image can only be written to an ebiten.Image once the game
		// is running so it is returned to the channel
		u.Show(img)
	case <-endGui:
		return nil
	}

	var err error

	eg.geom, err = onWindowOpen()
	if err != nil {
		logger.Log(logger.Allow, "gui", err.Error())
	}

	defer func() {
		err := onWindowClose(eg.geom)
		if err != nil {
			logger.Log(logger.Allow, "gui", err.Error())
			return
		}
	}()

	return ebiten.RunGame(eg)
}
