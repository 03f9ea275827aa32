package devices

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/cpu"
)

// CPUs publishes `cpu`, the load averaged across cores, and `cpu.N` for
// each logical core, all in percent.
type CPUs struct {
	readings
	Logical bool
}

func NewCPUs(logical bool) *CPUs {
	return &CPUs{readings: newReadings(), Logical: logical}
}

// LocalCPUs primes gopsutil so the first Update has an interval to measure.
func LocalCPUs() *CPUs {
	c := NewCPUs(true)
	_, _ = cpu.Percent(0, c.Logical)
	return c
}

func (c *CPUs) Update() error {
	vals, err := cpu.Percent(0, c.Logical)
	if err != nil {
		return errors.Wrap(err, "cpu")
	}
	if len(vals) == 0 {
		return errors.New("cpu: no cores reported")
	}
	c.replace(cpuReadings(vals))
	return nil
}

func cpuReadings(vals []float64) map[string]float64 {
	rv := make(map[string]float64, len(vals)+1)
	var avg float64
	for i, v := range vals {
		rv["cpu."+strconv.Itoa(i)] = v
		avg += v
	}
	rv["cpu"] = avg / float64(len(vals))
	return rv
}
