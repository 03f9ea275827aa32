// Package widgets draws a gauge panel in the terminal with termui.
package widgets

import (
	"github.com/gizak/termui/v3"

	"github.com/xxxserxxx/speedo/canvas"
	"github.com/xxxserxxx/speedo/panel"
)

type Widget interface {
	Update()
}

type Widgets []Widget

func (ws Widgets) Update() {
	for _, wid := range ws {
		wid.Update()
	}
}

var palette = []termui.Color{
	termui.ColorBlack,
	termui.ColorRed,
	termui.ColorGreen,
	termui.ColorYellow,
	termui.ColorBlue,
	termui.ColorMagenta,
	termui.ColorCyan,
	termui.ColorWhite,
}

// termColor picks the basic terminal color nearest to c.
func termColor(c panel.Color) termui.Color {
	rgba := canvas.Parse(c)
	best, dist := termui.ColorWhite, 4.0
	for i, tc := range palette {
		// bit 0 is red, bit 1 green, bit 2 blue
		r, g, b := float64(i&1), float64(i>>1&1), float64(i>>2&1)
		d := (rgba.R-r)*(rgba.R-r) + (rgba.G-g)*(rgba.G-g) + (rgba.B-b)*(rgba.B-b)
		if d < dist {
			best, dist = tc, d
		}
	}
	return best
}
