package assets

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/xxxserxxx/speedo/panel"
)

var stripBackground = color.RGBA{0x20, 0x20, 0x20, 0xff}

// DigitStrip draws the glyphs 0 to 9 in col, stacked top to bottom in cells
// of panel.DigitWidth x panel.DigitHeight.
func DigitStrip(col color.Color) *image.RGBA {
	face := basicfont.Face7x13
	img := image.NewRGBA(image.Rect(0, 0, panel.DigitWidth, 10*panel.DigitHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(stripBackground), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
	}
	x := (panel.DigitWidth - face.Advance) / 2
	// center the glyph box vertically in its cell
	top := (panel.DigitHeight - face.Height) / 2
	for i := 0; i < 10; i++ {
		d.Dot = fixed.P(x, i*panel.DigitHeight+top+face.Ascent)
		d.DrawString(strconv.Itoa(i))
	}
	return img
}

// DialBackground draws a plain dial face with tick marks for a surface of the
// given size.  Major ticks are at powers of two of max, so they line up with
// the needle's log scale.
func DialBackground(width, height int, max float64) image.Image {
	dc := gg.NewContext(width, height)
	defer dc.Close()
	cx, cy := float64(width)/2, float64(height)/2
	r := math.Min(cx, cy) - 2

	dc.ClearWithColor(gg.Hex("#ffffff"))
	dc.DrawCircle(cx, cy, r)
	dc.SetFillBrush(gg.Solid(gg.Hex("#f0f0f0")))
	_ = dc.FillPreserve()
	dc.SetLineWidth(3)
	dc.SetStrokeBrush(gg.Solid(gg.Hex("#404040")))
	_ = dc.Stroke()

	dc.SetLineWidth(2)
	for _, a := range tickAngles(max) {
		a += panel.AngleStart
		cos, sin := math.Cos(a), math.Sin(a)
		dc.MoveTo(cx+(r-14)*cos, cy+(r-14)*sin)
		dc.LineTo(cx+(r-4)*cos, cy+(r-4)*sin)
	}
	_ = dc.Stroke()

	dc.DrawCircle(cx, cy, 8)
	dc.SetFillBrush(gg.Solid(gg.Hex("#404040")))
	_ = dc.Fill()
	return dc.Image()
}

// tickAngles returns the needle angles of 1, 2, 4, ... up to max.  A max of
// 1 or less has no log scale to mark, so the range is split evenly.
func tickAngles(max float64) []float64 {
	rv := make([]float64, 0)
	logMax := math.Log2(max)
	if math.IsInf(logMax, 1) {
		return append(rv, 0)
	}
	if !(logMax >= 1) {
		for i := 0; i <= 6; i++ {
			rv = append(rv, float64(i)*panel.AngleRange/6)
		}
		return rv
	}
	step := 1.0
	if logMax > 24 {
		step = math.Ceil(logMax / 24)
	}
	for e := 0.0; e <= logMax; e += step {
		rv = append(rv, e/logMax*panel.AngleRange)
	}
	return rv
}
