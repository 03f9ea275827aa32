package devices

import (
	"math"

	"github.com/VividCortex/ewma"

	"github.com/xxxserxxx/speedo/panel"
)

// Feeder copies device readings into a panel.  It is called once per frame
// from the goroutine that renders the panel.
type Feeder struct {
	devs []Device
	// bindings maps gauge names to reading keys
	bindings map[string]string
	smooth   bool
	averages map[string]ewma.MovingAverage
	vals     map[string]float64
}

// NewFeeder binds gauges to readings.  With smooth set, each gauge shows a
// moving average over roughly the last 30 frames instead of the raw reading.
func NewFeeder(devs map[string]Device, bindings map[string]string, smooth bool) *Feeder {
	f := &Feeder{
		devs:     make([]Device, 0, len(devs)),
		bindings: bindings,
		smooth:   smooth,
		averages: make(map[string]ewma.MovingAverage),
		vals:     make(map[string]float64),
	}
	for _, d := range devs {
		f.devs = append(f.devs, d)
	}
	return f
}

// Feed gathers the current readings and updates every bound gauge that has
// one.  Gauges whose reading is missing keep their value.
func (f *Feeder) Feed(p *panel.Panel) {
	for k := range f.vals {
		delete(f.vals, k)
	}
	for _, d := range f.devs {
		d.Values(f.vals)
	}
	for gauge, key := range f.bindings {
		v, ok := f.vals[key]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if f.smooth {
			v = f.average(gauge, v)
		}
		p.UpdateValue(gauge, v)
	}
}

// Readings returns a copy of the readings gathered by the last Feed.
func (f *Feeder) Readings() map[string]float64 {
	rv := make(map[string]float64, len(f.vals))
	for k, v := range f.vals {
		rv[k] = v
	}
	return rv
}

func (f *Feeder) average(gauge string, v float64) float64 {
	a, ok := f.averages[gauge]
	if !ok {
		a = ewma.NewMovingAverage()
		f.averages[gauge] = a
	}
	a.Add(v)
	return a.Value()
}
