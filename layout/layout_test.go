package layout

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxserxxx/speedo"
	"github.com/xxxserxxx/speedo/panel"
)

func TestBuiltinsParse(t *testing.T) {
	conf := speedo.NewConfig()
	for _, name := range Builtin() {
		conf.Layout = name
		r, err := Get(&conf)
		require.NoError(t, err, name)
		l, err := Parse(r)
		require.NoError(t, err, name)
		assert.NotEmpty(t, l.Gauges, name)
		assert.Greater(t, l.Maximum, 0.0, name)
	}
}

func TestParse(t *testing.T) {
	l, err := Parse(strings.NewReader(`
maximum = 250.5
[[gauge]]
name = "speed"
color = "#ff0000"
odometer = [10, 20.5]
label = "spd"
source = "gps.speed"

[[gauge]]
name = "rpm"
`))
	require.NoError(t, err)
	assert.Equal(t, 250.5, l.Maximum)
	require.Len(t, l.Gauges, 2)
	assert.Equal(t, panel.GaugeOptions{
		Color:    "#ff0000",
		Odometer: panel.Offset{X: 10, Y: 20.5},
		Display:  "spd",
	}, l.Gauges[0].Options())
	assert.Equal(t, panel.GaugeOptions{}, l.Gauges[1].Options())
	assert.Equal(t, map[string]string{"speed": "gps.speed", "rpm": "rpm"}, l.Bindings())
	assert.Equal(t, []string{"gps.speed", "rpm"}, l.Sources())
	assert.Equal(t, []string{"spd"}, l.Labels())
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"no name":   "[[gauge]]\ncolor = \"red\"\n",
		"duplicate": "[[gauge]]\nname = \"a\"\n[[gauge]]\nname = \"a\"\n",
		"odometer":  "[[gauge]]\nname = \"a\"\nodometer = [1, 2, 3]\n",
		"maximum":   "maximum = -1.0\n",
		"color":     "[[gauge]]\nname = \"a\"\ncolor = \"reddish\"\n",
		"hex color": "[[gauge]]\nname = \"a\"\ncolor = \"#12345\"\n",
	}
	for name, in := range tests {
		_, err := Parse(strings.NewReader(in))
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrInvalid), name)
	}
	_, err := Parse(strings.NewReader("[[gauge]\nname = "))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestParseColors(t *testing.T) {
	l, err := Parse(strings.NewReader("[[gauge]]\nname = \"a\"\ncolor = \"#ff8800\"\n[[gauge]]\nname = \"b\"\ncolor = \"SteelBlue\"\n[[gauge]]\nname = \"c\"\n"))
	require.NoError(t, err)
	require.Len(t, l.Gauges, 3)

	p := panel.New(panel.Sprites{})
	require.NoError(t, Apply(l, p))
	g, _ := p.Gauge("c")
	assert.Equal(t, panel.NeedleDefault, g.Color)
}

func TestParseSharedSource(t *testing.T) {
	l, err := Parse(strings.NewReader("[[gauge]]\nname = \"a\"\nsource = \"cpu\"\n[[gauge]]\nname = \"b\"\nsource = \"cpu\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu"}, l.Sources())
}

func TestApply(t *testing.T) {
	conf := speedo.NewConfig()
	conf.Layout = "default"
	r, err := Get(&conf)
	require.NoError(t, err)
	l, err := Parse(r)
	require.NoError(t, err)

	p := panel.New(panel.Sprites{})
	require.NoError(t, Apply(l, p))
	assert.Equal(t, 100.0, p.MaximumValue())
	assert.Equal(t, []string{"cpu", "mem", "batt"}, p.Names())
	g, ok := p.Gauge("cpu")
	require.True(t, ok)
	assert.Equal(t, panel.Color("red"), g.Color)
	assert.Equal(t, panel.Offset{X: 158, Y: 250}, g.Odometer)
	assert.Equal(t, "cpu", g.Display)
}

func TestApplyKeepsMaximum(t *testing.T) {
	p := panel.New(panel.Sprites{})
	_, err := p.SetMaximumValue(42)
	require.NoError(t, err)
	require.NoError(t, Apply(Layout{Gauges: []Gauge{{Name: "x"}}}, p))
	assert.Equal(t, 42.0, p.MaximumValue())
	assert.Equal(t, 1, p.Len())
}

func TestGetStdin(t *testing.T) {
	conf := speedo.NewConfig()
	conf.Layout = "-"
	r, err := Get(&conf)
	require.NoError(t, err)
	assert.Equal(t, io.Reader(os.Stdin), r)
}
