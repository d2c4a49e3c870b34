package monitor

import (
	"github.com/gdamore/tcell"
)

func drawString(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, c := range str {
		s.SetContent(x, y, c, nil, style)
		x++
	}
}

func box(s tcell.Screen, x, y, w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)

	// corners
	s.SetContent(x, y, tcell.RuneULCorner, nil, style)
	s.SetContent(x+w, y, tcell.RuneURCorner, nil, style)
	s.SetContent(x, y+h, tcell.RuneLLCorner, nil, style)
	s.SetContent(x+w, y+h, tcell.RuneLRCorner, nil, style)

	// top/bottom
	for col := x + 1; col < x+w; col++ {
		s.SetContent(col, y, tcell.RuneHLine, nil, style)
		s.SetContent(col, y+h, tcell.RuneHLine, nil, style)
	}

	// left/right
	for row := y + 1; row < y+h; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, style)
		s.SetContent(x+w, row, tcell.RuneVLine, nil, style)
	}
}

func clearArea(s tcell.Screen, x, y, w, h int) {
	style := tcell.StyleDefault
	for col := x; col <= x+w; col++ {
		for row := y; row <= y+h; row++ {
			s.SetContent(col, row, ' ', nil, style)
		}
	}
}

// labelledBox draws an empty box with the label in the top border
func labelledBox(s tcell.Screen, x, y, w, h int, label string) {
	box(s, x, y, w, h)
	clearArea(s, x+1, y+1, w-2, h-2)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	drawString(s, x+2, y, style, " "+label+" ")
}
