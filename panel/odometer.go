package panel

import (
	"image"
	"math"
)

// Odometer dimensions.  Digit strips are DigitWidth wide and hold the glyphs
// 0 through 9 stacked top to bottom, DigitHeight pixels each.
const (
	DigitWidth       = 12
	DigitHeight      = 14
	MaxOdometerValue = 999999.99
	// OdometerColumns is six integer digits plus the tenths digit.
	OdometerColumns = 7
)

type blit struct {
	srcY, height, dstY float64
}

// digitBlits returns the strip slices that show a digit whose value is in
// [0,10).  The fractional part rolls the digit: past the last glyph the strip
// wraps around to its top, so a partial 9 is followed by a partial 0 and the
// slices always add up to DigitHeight.
func digitBlits(value, stripHeight float64) []blit {
	offset := value * DigitHeight
	drawn := math.Min(stripHeight-offset, DigitHeight)
	rv := make([]blit, 0, 2)
	if drawn > 0 {
		rv = append(rv, blit{srcY: offset, height: drawn, dstY: 0})
	} else {
		drawn = 0
	}
	if wrap := DigitHeight - drawn; wrap > 0 {
		rv = append(rv, blit{srcY: 0, height: wrap, dstY: drawn})
	}
	return rv
}

// odometerDigits splits v into the rolling values of each odometer column,
// most significant first.  The last column is tenths.
func odometerDigits(v float64) [OdometerColumns]float64 {
	var d [OdometerColumns]float64
	v = math.Round(v*100) / 100
	if math.IsNaN(v) {
		return d
	}
	v = clamp(v, 0, MaxOdometerValue)
	d[OdometerColumns-1] = (v - math.Floor(v)) * 10
	for c := OdometerColumns - 2; c >= 0; c-- {
		x := v / 10
		d[c] = (x - math.Floor(x)) * 10
		v = x
	}
	return d
}

func (p *Panel) drawOdometer(s Surface, g *gauge) {
	if !ready(p.sprites.Digits) || !ready(p.sprites.Tenths) {
		return
	}
	digits, tenths := p.sprites.Digits.Image(), p.sprites.Tenths.Image()
	s.Save()
	defer s.Restore()
	s.Translate(g.Odometer.X, g.Odometer.Y)
	for col, v := range odometerDigits(g.Value) {
		strip := digits
		if col == OdometerColumns-1 {
			strip = tenths
		}
		drawDigit(s, strip, v, col)
	}
}

func drawDigit(s Surface, strip image.Image, value float64, column int) {
	b := strip.Bounds()
	x := float64(column * DigitWidth)
	for _, bl := range digitBlits(value, float64(b.Dy())) {
		s.DrawImage(strip,
			float64(b.Min.X), float64(b.Min.Y)+bl.srcY, DigitWidth, bl.height,
			x, bl.dstY)
	}
}
