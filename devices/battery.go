package devices

import (
	"github.com/distatus/battery"
	"github.com/pkg/errors"
)

// Batteries publishes `batt`, the charge of all batteries in percent,
// weighted by capacity, and `batt.charging` as 1 or 0.
type Batteries struct {
	readings
}

func LocalBatteries() *Batteries {
	return &Batteries{readings: newReadings()}
}

func (b *Batteries) Update() error {
	bats, err := battery.GetAll()
	if err != nil {
		// GetAll reports per-battery errors alongside usable batteries
		if len(bats) == 0 {
			return errors.Wrap(err, "batteries")
		}
	}
	pct, charging, err := batteryReadings(bats)
	if err != nil {
		return err
	}
	b.set("batt", pct)
	if charging {
		b.set("batt.charging", 1)
	} else {
		b.set("batt.charging", 0)
	}
	return nil
}

func batteryReadings(bats []*battery.Battery) (float64, bool, error) {
	var full, current float64
	charging := false
	n := 0
	for _, bat := range bats {
		if bat == nil {
			continue
		}
		n++
		full += bat.Full
		current += bat.Current
		charging = charging || bat.State == battery.Charging
	}
	if n == 0 {
		return 0, false, errors.New("no batteries")
	}
	if full == 0 {
		return 0, charging, errors.New("batteries report no capacity")
	}
	return current / full * 100, charging, nil
}
