package ebiten

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jetsetilly/portasound/resources"
)

// the resources file in which the window geometry is stored
const windowFile = "window"

func parseGeometry(s string) (windowGeometry, error) {
	var g windowGeometry
	_, err := fmt.Sscanf(s, "%d %d %d %d", &g.x, &g.y, &g.w, &g.h)
	if err != nil {
		return windowGeometry{}, fmt.Errorf("window geometry: %w", err)
	}
	if !g.valid() {
		return windowGeometry{}, fmt.Errorf("window geometry: invalid values: %s", s)
	}
	return g, nil
}

func (g windowGeometry) String() string {
	return fmt.Sprintf("%d %d %d %d", g.x, g.y, g.w, g.h)
}

func onWindowOpen() (windowGeometry, error) {
	s, err := resources.Read(windowFile)
	if err != nil {
		return windowGeometry{}, err
	}

	// no geometry has been saved yet
	if s == "" {
		return windowGeometry{}, nil
	}

	g, err := parseGeometry(s)
	if err != nil {
		return windowGeometry{}, err
	}

	ebiten.SetWindowPosition(g.x, g.y)
	ebiten.SetWindowSize(g.w, g.h)

	return g, nil
}

func onWindowClose(geom windowGeometry) error {
	if !geom.valid() {
		return nil
	}
	return resources.Write(windowFile, geom.String())
}
