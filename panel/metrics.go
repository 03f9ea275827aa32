package panel

import (
	"fmt"
	"math"

	"github.com/VictoriaMetrics/metrics"
)

// EnableMetrics exports the value and needle angle of every gauge, including
// gauges added later, as Prometheus gauges in s.  The metric callbacks only
// read atomically published copies, so scraping is safe while the owner
// renders.
func (p *Panel) EnableMetrics(s *metrics.Set) {
	if p.metrics != nil {
		return
	}
	p.metrics = s
	for _, name := range p.order {
		p.register(p.gauges[name])
	}
}

func (p *Panel) register(g *gauge) {
	p.metrics.NewGauge(metricName("value", g.Name), func() float64 {
		return math.Float64frombits(g.value.Load())
	})
	p.metrics.NewGauge(metricName("angle", g.Name), func() float64 {
		return math.Float64frombits(g.angle.Load())
	})
}

func metricName(kind, gauge string) string {
	return fmt.Sprintf("speedo_gauge_%s{gauge=%q}", kind, gauge)
}
