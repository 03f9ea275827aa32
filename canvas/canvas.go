// Package canvas implements panel.Surface on top of a gg drawing context.
package canvas

import (
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/pkg/errors"

	"github.com/xxxserxxx/speedo/panel"
)

// Canvas is a raster panel.Surface.  Paths follow HTML canvas rules: a path
// is kept across Fill and Stroke until BeginPath, arcs are joined to the
// current point with a straight line, and gradients are given in user space.
type Canvas struct {
	dc *gg.Context
	// images converted for gg, keyed by the source image
	images map[image.Image]*gg.ImageBuf
}

var _ panel.Surface = (*Canvas)(nil)

func New(width, height int) *Canvas {
	return &Canvas{
		dc:     gg.NewContext(width, height),
		images: make(map[image.Image]*gg.ImageBuf),
	}
}

func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// Clear makes the whole canvas transparent.
func (c *Canvas) Clear() {
	c.dc.Clear()
}

func (c *Canvas) SavePNG(path string) error {
	return errors.Wrapf(c.dc.SavePNG(path), "saving %s", path)
}

func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

func (c *Canvas) Close() error {
	c.images = nil
	return c.dc.Close()
}

func (c *Canvas) Size() (int, int) {
	return c.dc.Width(), c.dc.Height()
}

func (c *Canvas) Save() {
	c.dc.Push()
}

func (c *Canvas) Restore() {
	c.dc.Pop()
}

func (c *Canvas) Translate(x, y float64) {
	c.dc.Translate(x, y)
}

func (c *Canvas) Rotate(angle float64) {
	c.dc.Rotate(angle)
}

// FillRect paints a rectangle.  It replaces the current path.
func (c *Canvas) FillRect(x, y, w, h float64, col panel.Color) {
	c.dc.ClearPath()
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.SetFillBrush(gg.Solid(Parse(col)))
	_ = c.dc.Fill()
}

func (c *Canvas) DrawImage(img image.Image, sx, sy, sw, sh, dx, dy float64) {
	if sw <= 0 || sh <= 0 {
		return
	}
	buf, ok := c.images[img]
	if !ok {
		buf = gg.ImageBufFromImage(img)
		c.images[img] = buf
	}
	// gg addresses the converted buffer from (0,0)
	origin := img.Bounds().Min
	x0 := int(math.Round(sx)) - origin.X
	y0 := int(math.Round(sy)) - origin.Y
	src := image.Rect(x0, y0, x0+int(math.Round(sw)), y0+int(math.Round(sh)))
	if src.Empty() {
		return
	}
	c.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:         math.Round(dx),
		Y:         math.Round(dy),
		DstWidth:  float64(src.Dx()),
		DstHeight: float64(src.Dy()),
		SrcRect:   &src,
		Opacity:   1.0,
		BlendMode: gg.BlendNormal,
	})
}

func (c *Canvas) BeginPath() {
	c.dc.ClearPath()
}

func (c *Canvas) MoveTo(x, y float64) {
	c.dc.MoveTo(x, y)
}

func (c *Canvas) LineTo(x, y float64) {
	c.dc.LineTo(x, y)
}

// Arc adds a clockwise arc around (x,y).  gg only maps the arc's center
// through the transform, so the current rotation is added to both angles.
func (c *Canvas) Arc(x, y, r, start, end float64) {
	sx, sy := x+r*math.Cos(start), y+r*math.Sin(start)
	if _, _, ok := c.dc.GetCurrentPoint(); ok {
		c.dc.LineTo(sx, sy)
	} else {
		c.dc.MoveTo(sx, sy)
	}
	rot := c.rotation()
	c.dc.DrawArc(x, y, r, start+rot, end+rot)
}

func (c *Canvas) ClosePath() {
	c.dc.ClosePath()
}

func (c *Canvas) Fill(g panel.LinearGradient) error {
	x0, y0 := c.dc.TransformPoint(g.X0, g.Y0)
	x1, y1 := c.dc.TransformPoint(g.X1, g.Y1)
	brush := gg.NewLinearGradientBrush(x0, y0, x1, y1)
	for _, s := range g.Stops {
		brush.AddColorStop(s.Offset, Parse(s.Color))
	}
	c.dc.SetFillBrush(brush)
	return errors.Wrap(c.dc.FillPreserve(), "fill")
}

func (c *Canvas) Stroke(col panel.Color, width float64) error {
	c.dc.SetLineWidth(width)
	c.dc.SetStrokeBrush(gg.Solid(Parse(col)))
	return errors.Wrap(c.dc.StrokePreserve(), "stroke")
}

func (c *Canvas) rotation() float64 {
	m := c.dc.GetTransform()
	return math.Atan2(m.D, m.A)
}
