package widgets

import (
	"fmt"
	"math"

	"github.com/gizak/termui/v3/widgets"

	"github.com/xxxserxxx/speedo/panel"
)

// Deflection is a bar showing how far one gauge's needle is across the dial.
type Deflection struct {
	*widgets.Gauge
	panel *panel.Panel
	name  string
}

func NewDeflection(p *panel.Panel, name string) *Deflection {
	self := &Deflection{
		Gauge: widgets.NewGauge(),
		panel: p,
		name:  name,
	}
	self.Title = name
	if g, ok := p.Gauge(name); ok {
		self.BarColor = termColor(g.Color)
	}
	return self
}

func (self *Deflection) Update() {
	g, ok := self.panel.Gauge(self.name)
	if !ok {
		self.Percent = 0
		self.Label = "-"
		return
	}
	self.Percent = int(math.Round(g.PreviousAngle / panel.AngleRange * 100))
	self.Label = fmt.Sprintf("%d%% of %g", self.Percent, self.panel.MaximumValue())
}
