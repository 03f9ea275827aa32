package panel

import "image"

// Color is a CSS-style color: a `#rrggbb` hex string or a color name.
type Color string

// Needle and dial colors.
const (
	NeedleDefault       Color = "darkgray"
	NeedleGradientStart Color = "#7F7F7F"
	// NeedleStopped colors the needle tip while the gauge value is zero.
	NeedleStopped Color = "#999999"
	NeedleOutline Color = "white"
	// Background fills the surface when the dial image is not available.
	Background Color = "white"
)

// ColorStop is a gradient stop; Offset is in [0,1].
type ColorStop struct {
	Offset float64
	Color  Color
}

// LinearGradient runs from (X0,Y0) to (X1,Y1) in the surface's current user
// space.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

// Surface is an immediate-mode 2D drawing context with canvas semantics: the
// current path survives Fill and Stroke until the next BeginPath, and all
// coordinates pass through the transform set by Translate and Rotate.
type Surface interface {
	Size() (width, height int)
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
	FillRect(x, y, w, h float64, c Color)
	// DrawImage copies the sw x sh rectangle at (sx,sy) of img to (dx,dy).
	DrawImage(img image.Image, sx, sy, sw, sh, dx, dy float64)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, r, start, end float64)
	ClosePath()
	Fill(g LinearGradient) error
	Stroke(c Color, width float64) error
}

// Sprite is an image that becomes available at some point after creation.
type Sprite interface {
	Ready() bool
	Image() image.Image
}

// TextElement displays a line of text, e.g. a label next to the dial.
type TextElement interface {
	SetText(string)
}

// DisplayResolver looks up a text element by its identifier.
type DisplayResolver interface {
	Resolve(id string) (TextElement, bool)
}

// DisplayFunc adapts a plain function to DisplayResolver.
type DisplayFunc func(id string) (TextElement, bool)

func (f DisplayFunc) Resolve(id string) (TextElement, bool) {
	return f(id)
}

func ready(s Sprite) bool {
	return s != nil && s.Ready() && s.Image() != nil
}
