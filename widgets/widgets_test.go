package widgets

import (
	"image"
	"testing"

	"github.com/gizak/termui/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxserxxx/speedo/panel"
)

func TestTermColor(t *testing.T) {
	assert.Equal(t, termui.ColorRed, termColor("red"))
	assert.Equal(t, termui.ColorBlue, termColor("#0000ff"))
	assert.Equal(t, termui.ColorWhite, termColor("white"))
	assert.Equal(t, termui.ColorBlack, termColor("#101010"))
	assert.Equal(t, termui.ColorCyan, termColor("cyan"))
}

func TestLabels(t *testing.T) {
	l := NewLabels("values", []string{"cpu", "温度", "cpu"})
	te, ok := l.Resolve("cpu")
	require.True(t, ok)
	te.SetText("12.000")
	_, ok = l.Resolve("nope")
	assert.False(t, ok)
	assert.Equal(t, "12.000", l.Text("cpu"))
	assert.Equal(t, "", l.Text("nope"))
	// 温度 is four cells wide
	assert.Equal(t, []string{"cpu   12.000", "温度  "}, l.Rows())

	l.SetRect(0, 0, 20, 4)
	buf := termui.NewBuffer(l.GetRect())
	l.Draw(buf)
	assert.Equal(t, 'c', buf.GetCell(image.Pt(1, 1)).Rune)
	assert.Equal(t, '1', buf.GetCell(image.Pt(7, 1)).Rune)
}

func TestDeflection(t *testing.T) {
	p := panel.New(panel.Sprites{})
	p.AddGauge("a", panel.GaugeOptions{Color: "lime", Value: 1})
	d := NewDeflection(p, "a")
	assert.Equal(t, termui.ColorGreen, d.BarColor)
	d.Update()
	assert.Equal(t, 0, d.Percent)

	// log2(1) is 0 for max 1, so raise the maximum and let the needle travel
	_, err := p.SetMaximumValue(4)
	require.NoError(t, err)
	p.UpdateValue("a", 4)
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Render(nopSurface{}, nil))
	}
	d.Update()
	assert.Equal(t, 100, d.Percent)
	assert.Equal(t, "100% of 4", d.Label)

	missing := NewDeflection(p, "b")
	missing.Update()
	assert.Equal(t, "-", missing.Label)
}

func TestDial(t *testing.T) {
	p := panel.New(panel.Sprites{})
	p.AddGauge("a", panel.GaugeOptions{Value: 2.5, Display: "a"})
	labels := NewLabels("", []string{"a"})
	d := NewDial(p, 60, 40, nil, labels)
	defer d.Close()
	assert.Nil(t, d.Image.Image)
	d.Update()
	require.NotNil(t, d.Image.Image)
	assert.Equal(t, image.Rect(0, 0, 60, 40), d.Image.Image.Bounds())
	assert.Equal(t, "2.500", labels.Text("a"))
}

type nopSurface struct{}

func (nopSurface) Size() (int, int) { return 100, 100 }
func (nopSurface) Save() {}
func (nopSurface) Restore() {}
func (nopSurface) Translate(x, y float64) {}
func (nopSurface) Rotate(a float64) {}
func (nopSurface) FillRect(x, y, w, h float64, c panel.Color) {}
func (nopSurface) DrawImage(image.Image, float64, float64, float64, float64, float64, float64) {}
func (nopSurface) BeginPath() {}
func (nopSurface) MoveTo(x, y float64) {}
func (nopSurface) LineTo(x, y float64) {}
func (nopSurface) Arc(x, y, r, start, end float64) {}
func (nopSurface) ClosePath() {}
func (nopSurface) Fill(panel.LinearGradient) error { return nil }
func (nopSurface) Stroke(panel.Color, float64) error { return nil }
