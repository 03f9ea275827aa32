package panel

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stripHeight = 10 * DigitHeight

func TestDigitBlitsWrapAroundStrip(t *testing.T) {
	bs := digitBlits(9.8, stripHeight)
	require.Len(t, bs, 2)
	assert.InDelta(t, 9.8*DigitHeight, bs[0].srcY, 1e-9)
	assert.InDelta(t, 2.8, bs[0].height, 1e-9)
	assert.Equal(t, 0.0, bs[0].dstY)
	// the rest comes from the top of the strip, the "0" glyph
	assert.Equal(t, 0.0, bs[1].srcY)
	assert.InDelta(t, 11.2, bs[1].height, 1e-9)
	assert.InDelta(t, 2.8, bs[1].dstY, 1e-9)
}

func TestDigitBlitsWholeDigit(t *testing.T) {
	bs := digitBlits(3, stripHeight)
	require.Len(t, bs, 1)
	assert.Equal(t, blit{srcY: 3 * DigitHeight, height: DigitHeight, dstY: 0}, bs[0])

	bs = digitBlits(9, stripHeight)
	require.Len(t, bs, 1)
	assert.Equal(t, blit{srcY: 9 * DigitHeight, height: DigitHeight, dstY: 0}, bs[0])
}

func TestDigitBlitsNoGap(t *testing.T) {
	for d := 0; d < 10; d++ {
		for f := 0.0; f < 1; f += 0.05 {
			v := float64(d) + f
			total := 0.0
			next := 0.0
			for _, b := range digitBlits(v, stripHeight) {
				assert.InDelta(t, next, b.dstY, 1e-9, "slices of %v must be contiguous", v)
				assert.GreaterOrEqual(t, b.srcY, 0.0)
				assert.LessOrEqual(t, b.srcY+b.height, float64(stripHeight)+1e-9)
				total += b.height
				next = b.dstY + b.height
			}
			assert.InDelta(t, float64(DigitHeight), total, 1e-9, "value %v", v)
		}
	}
}

func floors(d [OdometerColumns]float64) []int {
	rv := make([]int, len(d))
	for i, v := range d {
		rv[i] = int(math.Floor(v + 1e-9))
	}
	return rv
}

func TestOdometerDigits(t *testing.T) {
	d := odometerDigits(123456.7)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, floors(d))
	// lower columns roll with the fraction of the value below them
	assert.InDelta(t, 6.7, d[5], 1e-6)
	assert.InDelta(t, 5.67, d[4], 1e-6)

	assert.Equal(t, []int{0, 0, 0, 0, 0, 4, 2}, floors(odometerDigits(4.2)))
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0}, floors(odometerDigits(0)))
}

func TestOdometerClamp(t *testing.T) {
	assert.Equal(t, odometerDigits(MaxOdometerValue), odometerDigits(5000000))
	assert.Equal(t, odometerDigits(0), odometerDigits(-12))
	assert.Equal(t, odometerDigits(0), odometerDigits(math.NaN()))
	assert.Equal(t, []int{9, 9, 9, 9, 9, 9, 9}, floors(odometerDigits(5000000)))
}

func TestRenderOdometer(t *testing.T) {
	digits, tenths := strip(), strip()
	p := New(Sprites{Digits: digits, Tenths: tenths})
	p.AddGauge("a", GaugeOptions{Value: 12.5, Odometer: Offset{30, 40}})

	s := &recorder{w: 100, h: 100}
	require.NoError(t, p.Render(s, nil))
	imgs := s.ops("image")
	require.Len(t, imgs, OdometerColumns)
	for col, c := range imgs {
		assert.Equal(t, float64(col*DigitWidth), c.args[4], "column %d", col)
		assert.Equal(t, float64(DigitWidth), c.args[2])
		assert.Equal(t, float64(DigitHeight), c.args[3])
	}
	assert.Equal(t, image.Image(tenths.img), imgs[6].img)
	assert.Equal(t, image.Image(digits.img), imgs[5].img)
	// tenths column shows 5
	assert.InDelta(t, 5*DigitHeight, imgs[6].args[1], 1e-9)
	// units column is rolling between 2 and 3
	assert.InDelta(t, 2.5*DigitHeight, imgs[5].args[1], 1e-9)

	translates := s.ops("translate")
	assert.Equal(t, []float64{30, 40}, translates[len(translates)-1].args)
	assert.Equal(t, 0, s.depth)
}

func TestRenderOdometerNeedsBothStrips(t *testing.T) {
	p := New(Sprites{Digits: strip(), Tenths: &sprite{}})
	p.AddGauge("a", GaugeOptions{Value: 12.5})
	s := &recorder{w: 100, h: 100}
	require.NoError(t, p.Render(s, nil))
	assert.Empty(t, s.ops("image"))
}
