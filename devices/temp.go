package devices

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/host"
	log "github.com/sirupsen/logrus"
)

// Temperature publishes `temp.SENSOR` in degrees Celsius for each included
// thermal sensor.
type Temperature struct {
	readings
	include func(string) bool
}

// LocalTemperature sets up tracking for a filtered list of thermal sensors.
// `filter` contains the list filter:
//
//  1. Included sensors are sensor names, e.g. "coretemp_core0"
//  2. Excluded sensors are prefixed by `!`, e.g. "!nvme_composite"
//  3. If the list contains *only* exclusions, then all sensors not excluded are included
//  4. If the list contains any non-exclusions, then only those sensors are included
//  5. Exclusion overrides inclusion
func LocalTemperature(filter []string) *Temperature {
	excludes := make(map[string]bool)
	includes := make(map[string]bool)
	for _, f := range filter {
		if strings.HasPrefix(f, "!") {
			excludes[strings.TrimPrefix(f, "!")] = true
		} else if f != "" {
			includes[f] = true
		}
	}
	return &Temperature{
		readings: newReadings(),
		include: func(s string) bool {
			if excludes[s] {
				return false
			}
			return len(includes) == 0 || includes[s]
		},
	}
}

func (t *Temperature) Update() error {
	sensors, err := host.SensorsTemperatures()
	if err != nil {
		// gopsutil returns warnings together with usable readings
		if len(sensors) == 0 {
			return errors.Wrap(err, "temperature sensors")
		}
		log.WithError(err).Debug("temperature sensor warnings")
	}
	vals := make(map[string]float64)
	for _, sensor := range sensors {
		name := sensorName(sensor.SensorKey)
		if t.include(name) {
			vals["temp."+name] = sensor.Temperature
		}
	}
	t.replace(vals)
	return nil
}

func sensorName(key string) string {
	label := strings.TrimSuffix(key, "_input")
	label = strings.TrimSuffix(label, "_thermal")
	return strings.ReplaceAll(label, " ", "_")
}

// All possible thermometers
func thermalSensorNames() []string {
	sensors, err := host.SensorsTemperatures()
	if err != nil && len(sensors) == 0 {
		log.WithError(err).Warn("no temperature sensors returned")
		return []string{}
	}
	rv := make([]string, len(sensors))
	for i, sensor := range sensors {
		rv[i] = sensorName(sensor.SensorKey)
	}
	return rv
}
