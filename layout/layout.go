// Package layout reads gauge panel definitions.  A layout is a TOML document
// naming each gauge, its needle color, where its odometer sits, the label it
// writes its value to, and the device reading that drives it:
//
//	maximum = 100.0
//	[[gauge]]
//	name = "cpu"
//	color = "red"
//	odometer = [158, 250]
//	label = "cpu"
//	source = "cpu"
package layout

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
	log "github.com/sirupsen/logrus"

	"github.com/xxxserxxx/speedo"
	"github.com/xxxserxxx/speedo/canvas"
	"github.com/xxxserxxx/speedo/panel"
)

// ErrInvalid is wrapped by every validation failure from Parse.
var ErrInvalid = errors.New("invalid layout")

type Layout struct {
	Maximum float64 `toml:"maximum"`
	Gauges  []Gauge `toml:"gauge"`
}

type Gauge struct {
	Name     string    `toml:"name"`
	Color    string    `toml:"color"`
	Odometer []float64 `toml:"odometer"`
	Label    string    `toml:"label"`
	// Source is the device reading shown; empty means the gauge name.
	Source string `toml:"source"`
}

const (
	defaultUI = `maximum = 100.0

[[gauge]]
name = "cpu"
color = "red"
odometer = [158, 250]
label = "cpu"

[[gauge]]
name = "mem"
color = "steelblue"
odometer = [158, 280]
label = "mem"

[[gauge]]
name = "batt"
color = "green"
odometer = [158, 310]
label = "batt"
`
	minimalUI = `maximum = 100.0

[[gauge]]
name = "cpu"
odometer = [158, 250]
`
	telemetryUI = `maximum = 8000.0

[[gauge]]
name = "rpm"
color = "red"
odometer = [158, 250]
label = "rpm"

[[gauge]]
name = "speed"
color = "steelblue"
odometer = [158, 280]
label = "speed"

[[gauge]]
name = "coolant"
color = "orange"
odometer = [158, 310]
label = "coolant"
source = "coolant.temp"
`
)

// Builtin lists the names of the layouts compiled into the program.
func Builtin() []string {
	return []string{"default", "minimal", "telemetry"}
}

// Get returns the layout conf names: a builtin, `-` for stdin, or a file
// found in the config folders.
func Get(conf *speedo.Config) (io.Reader, error) {
	switch conf.Layout {
	case "-":
		return os.Stdin, nil
	case "default":
		return strings.NewReader(defaultUI), nil
	case "minimal":
		return strings.NewReader(minimalUI), nil
	case "telemetry":
		return strings.NewReader(telemetryUI), nil
	default:
		folder := conf.ConfigDir.QueryFolderContainsFile(conf.Layout)
		if folder == nil {
			paths := make([]string, 0)
			for _, d := range conf.ConfigDir.QueryFolders(configdir.Existing) {
				paths = append(paths, d.Path)
			}
			return nil, errors.New(conf.Tr.Value("error.findlayout", conf.Layout, strings.Join(paths, ", ")))
		}
		lo, err := folder.ReadFile(conf.Layout)
		if err != nil {
			return nil, errors.Wrapf(err, "reading layout %s", conf.Layout)
		}
		return strings.NewReader(string(lo)), nil
	}
}

// Parse decodes and validates a layout.  Unknown keys are logged and
// otherwise ignored.
func Parse(in io.Reader) (Layout, error) {
	var l Layout
	md, err := toml.NewDecoder(in).Decode(&l)
	if err != nil {
		return Layout{}, errors.Wrap(err, "parsing layout")
	}
	for _, k := range md.Undecoded() {
		log.WithField("key", k.String()).Warn("unknown layout key")
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

func (l Layout) validate() error {
	if l.Maximum < 0 {
		return errors.Wrapf(ErrInvalid, "maximum %v must be positive", l.Maximum)
	}
	seen := make(map[string]bool)
	for i, g := range l.Gauges {
		if strings.TrimSpace(g.Name) == "" {
			return errors.Wrapf(ErrInvalid, "gauge %d has no name", i+1)
		}
		if seen[g.Name] {
			return errors.Wrapf(ErrInvalid, "gauge %q defined twice", g.Name)
		}
		seen[g.Name] = true
		if g.Color != "" && !canvas.Valid(panel.Color(g.Color)) {
			return errors.Wrapf(ErrInvalid, "gauge %q: unknown color %q", g.Name, g.Color)
		}
		if g.Odometer != nil && len(g.Odometer) != 2 {
			return errors.Wrapf(ErrInvalid, "gauge %q: odometer needs [x, y], got %d numbers", g.Name, len(g.Odometer))
		}
	}
	return nil
}

// Bindings maps each gauge name to the device reading that drives it.
func (l Layout) Bindings() map[string]string {
	rv := make(map[string]string, len(l.Gauges))
	for _, g := range l.Gauges {
		rv[g.Name] = g.source()
	}
	return rv
}

// Sources lists the distinct device readings the layout needs, in order.
func (l Layout) Sources() []string {
	rv := make([]string, 0, len(l.Gauges))
	seen := make(map[string]bool)
	for _, g := range l.Gauges {
		if s := g.source(); !seen[s] {
			seen[s] = true
			rv = append(rv, s)
		}
	}
	return rv
}

// Labels lists the display ids the layout writes to, in order.
func (l Layout) Labels() []string {
	rv := make([]string, 0, len(l.Gauges))
	for _, g := range l.Gauges {
		if g.Label != "" {
			rv = append(rv, g.Label)
		}
	}
	return rv
}

func (g Gauge) source() string {
	if g.Source == "" {
		return g.Name
	}
	return g.Source
}

// Options converts the definition into panel options.
func (g Gauge) Options() panel.GaugeOptions {
	o := panel.GaugeOptions{
		Color:   panel.Color(g.Color),
		Display: g.Label,
	}
	if len(g.Odometer) == 2 {
		o.Odometer = panel.Offset{X: g.Odometer[0], Y: g.Odometer[1]}
	}
	return o
}

// Apply sets the panel maximum, unless it is zero, and adds every gauge.
func Apply(l Layout, p *panel.Panel) error {
	if l.Maximum > 0 {
		if _, err := p.SetMaximumValue(l.Maximum); err != nil {
			return errors.Wrap(err, "applying layout")
		}
	}
	for _, g := range l.Gauges {
		p.AddGauge(g.Name, g.Options())
	}
	log.WithField("gauges", len(l.Gauges)).Debugf("layout applied, maximum %v", p.MaximumValue())
	return nil
}
