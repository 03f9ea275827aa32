// Package panel draws a set of named speedometer gauges, each a needle on a
// logarithmic dial plus a rolling odometer, onto a Surface.
//
// A Panel is owned by a single goroutine: gauge updates and Render must not
// be called concurrently.
package panel

import (
	"math"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidArgument is returned when the maximum value is not positive.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrClosed is returned by Render after Close.
	ErrClosed = errors.New("panel closed")
)

// Dial geometry.  Angles are measured clockwise in radians from the line
// y = 0; AngleStart is where a value of zero points.
const (
	AngleStart    = 3.0 * math.Pi / 4.0
	AngleRange    = 6.0 * math.Pi / 4.0
	DampingFactor = math.Pi / 36.0
	NeedleInset   = 15
)

// Offset is a position relative to the surface origin, in pixels.
type Offset struct {
	X, Y float64
}

// GaugeOptions are the optional settings of a new gauge.  The zero value of
// every field is its default: a value of 0, the NeedleDefault color, an
// odometer at the origin and no display element.
type GaugeOptions struct {
	Value    float64
	Color    Color
	Odometer Offset
	// Display identifies a text element that receives the formatted value.
	Display string
}

// Gauge is a snapshot of one gauge's state.
type Gauge struct {
	Name          string
	Value         float64
	Color         Color
	Odometer      Offset
	PreviousAngle float64
	Display       string
}

type gauge struct {
	Gauge
	// published copies of Value and PreviousAngle, read by metrics scrapes
	value atomic.Uint64
	angle atomic.Uint64
}

func (g *gauge) publish() {
	g.value.Store(math.Float64bits(g.Value))
	g.angle.Store(math.Float64bits(g.PreviousAngle))
}

// Sprites are the images a panel draws from.  Any of them may be nil or not
// yet ready; the affected part of the frame is then degraded.
type Sprites struct {
	Dial   Sprite
	Digits Sprite
	Tenths Sprite
}

type Panel struct {
	maxValue    float64
	logMaxValue float64
	gauges      map[string]*gauge
	order       []string
	count       int
	sprites     Sprites
	metrics     *metrics.Set
	closed      bool
}

func New(s Sprites) *Panel {
	return &Panel{
		maxValue:    1.0,
		logMaxValue: 0.0,
		gauges:      make(map[string]*gauge),
		sprites:     s,
	}
}

// MaximumValue returns the value that maps to full needle deflection.
func (p *Panel) MaximumValue() float64 {
	return p.maxValue
}

// SetMaximumValue sets the value that maps to full deflection for all
// gauges, and returns the previous maximum so callers can restore it.  Any
// positive value is accepted; at +Inf every needle rests at the start.
func (p *Panel) SetMaximumValue(v float64) (float64, error) {
	if !(v > 0) {
		return p.maxValue, errors.Wrapf(ErrInvalidArgument, "maximum value must be > 0, got %v", v)
	}
	prev := p.maxValue
	p.maxValue = v
	p.logMaxValue = math.Log2(v)
	return prev, nil
}

// AddGauge adds a gauge called name.  Adding a name that already exists does
// nothing; the existing gauge keeps its value and needle position.
func (p *Panel) AddGauge(name string, opts GaugeOptions) {
	if p.closed {
		return
	}
	if _, ok := p.gauges[name]; ok {
		log.WithField("gauge", name).Debug("gauge already exists")
		return
	}
	p.count++
	if opts.Color == "" {
		opts.Color = NeedleDefault
	}
	g := &gauge{Gauge: Gauge{
		Name:     name,
		Value:    opts.Value,
		Color:    opts.Color,
		Odometer: opts.Odometer,
		Display:  opts.Display,
	}}
	g.publish()
	p.gauges[name] = g
	p.order = append(p.order, name)
	if p.metrics != nil {
		p.register(g)
	}
}

// UpdateValue sets the value of the named gauge and returns the previous
// value.  An unknown name changes nothing and returns 0.
func (p *Panel) UpdateValue(name string, v float64) float64 {
	g, ok := p.gauges[name]
	if !ok {
		return 0.0
	}
	prev := g.Value
	g.Value = v
	g.value.Store(math.Float64bits(v))
	return prev
}

func (p *Panel) Gauge(name string) (Gauge, bool) {
	g, ok := p.gauges[name]
	if !ok {
		return Gauge{}, false
	}
	return g.Gauge, true
}

// Names returns the gauge names in the order they were added.
func (p *Panel) Names() []string {
	rv := make([]string, len(p.order))
	copy(rv, p.order)
	return rv
}

// Len is the number of distinct gauges added.
func (p *Panel) Len() int {
	return p.count
}

// Close releases the sprites and gauges.  The panel cannot be rendered
// afterwards.
func (p *Panel) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.sprites = Sprites{}
	p.gauges = make(map[string]*gauge)
	p.order = nil
	return nil
}
