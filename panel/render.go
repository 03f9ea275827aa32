package panel

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Render draws the dial, then the needle and odometer of every gauge, and
// pushes each gauge's value to its display element when displays can resolve
// it.  displays may be nil.  Every call advances each needle by at most
// DampingFactor towards its target angle.
func (p *Panel) Render(s Surface, displays DisplayResolver) error {
	if p.closed {
		return ErrClosed
	}
	w, h := s.Size()
	cx, cy := float64(w)/2, float64(h)/2
	radius := math.Min(cx, cy) - NeedleInset

	s.Save()
	defer s.Restore()
	if ready(p.sprites.Dial) {
		img := p.sprites.Dial.Image()
		b := img.Bounds()
		s.DrawImage(img, float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()), 0, 0)
	} else {
		s.FillRect(0, 0, float64(w), float64(h), Background)
	}

	var rerr error
	for _, name := range p.order {
		g := p.gauges[name]
		angle := p.advance(g)
		g.publish()
		if err := drawNeedle(s, cx, cy, radius, angle+AngleStart, g); err != nil {
			log.WithField("gauge", name).WithError(err).Error("drawing needle")
			if rerr == nil {
				rerr = errors.Wrapf(err, "gauge %s", name)
			}
		}
		p.drawOdometer(s, g)
		if g.Display != "" && displays != nil {
			if el, ok := displays.Resolve(g.Display); ok && el != nil {
				el.SetText(strconv.FormatFloat(g.Value, 'f', 3, 64))
			}
		}
	}
	return rerr
}

// targetAngle maps v onto the dial's log scale.  Values that have no
// logarithm (zero, negative, NaN) point at the start of the dial.
func (p *Panel) targetAngle(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	a := (math.Log2(v) / p.logMaxValue) * AngleRange
	if math.IsNaN(a) {
		return 0
	}
	return clamp(a, 0, AngleRange)
}

// advance moves the gauge's needle towards its target, limited by
// DampingFactor, and returns the new angle relative to AngleStart.
func (p *Panel) advance(g *gauge) float64 {
	delta := p.targetAngle(g.Value) - g.PreviousAngle
	if math.Abs(delta) > DampingFactor {
		delta = math.Copysign(DampingFactor, delta)
	}
	g.PreviousAngle = clamp(g.PreviousAngle+delta, 0, AngleRange)
	return g.PreviousAngle
}

func drawNeedle(s Surface, cx, cy, radius, angle float64, g *gauge) error {
	s.Save()
	defer s.Restore()
	s.Translate(cx, cy)
	s.Rotate(angle)
	tip := g.Color
	if g.Value == 0.0 {
		tip = NeedleStopped
	}
	gradient := LinearGradient{
		X0: 0, Y0: 0, X1: radius, Y1: 0,
		Stops: []ColorStop{{0, NeedleGradientStart}, {1, tip}},
	}
	// The needle points down the positive x-axis when the angle is 0.
	s.BeginPath()
	s.MoveTo(radius, 0)
	s.LineTo(5, 5)
	s.Arc(5, 0, 5, math.Pi/2, 3*math.Pi/2)
	s.ClosePath()
	if err := s.Fill(gradient); err != nil {
		return err
	}
	return s.Stroke(NeedleOutline, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
