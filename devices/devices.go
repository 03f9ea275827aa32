// Package devices acquires the readings that drive gauges.  Each device
// polls (or listens) on its own goroutine and publishes named readings,
// such as `cpu` or `net.recv`; a Feeder copies them into a panel on the
// render goroutine.
package devices

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/xxxserxxx/speedo"
)

type Device interface {
	Update() error
	// Values copies the current readings into the map.
	Values(map[string]float64)
	EnableMetrics(*metrics.Set)
}

// Listener is a device whose readings are pushed to it rather than polled.
type Listener interface {
	Listen(ctx context.Context) error
}

// SampleInterval is how often local devices are polled.
const SampleInterval = time.Second

// Startup is after configuration has been parsed, and initializes devices.
//
// devices is a list of the devices to spin up; any specific device means a
// sensor on the current machine. Any remote instances defined in c.Remotes
// will also be connected, and the telemetry listener is bound when
// c.Telemetry is set.
//
// Startup attempts to start everything and continues when it encounters
// errors; any collected errors are returned in the error array, and devices
// which have errors will not be included in the returned map.
func Startup(devices []string, c *speedo.Config) (map[string]Device, []error) {
	devs := make(map[string]Device)
	errs := make([]error, 0)
	add := func(name string, d Device, err error) {
		if err == nil {
			err = d.Update()
		}
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "starting %s", name))
			return
		}
		devs[name] = d
	}
	for _, d := range devices {
		switch d {
		case "batt", "power":
			add("batt", LocalBatteries(), nil)
		case "cpu":
			add(d, LocalCPUs(), nil)
		case "disk":
			add(d, LocalDisk(), nil)
		case "mem":
			add(d, LocalMemory(), nil)
		case "net":
			n, err := LocalNetwork(c.NetInterface, false)
			add(d, n, err)
		case "temp":
			add(d, LocalTemperature(nil), nil)
		case "nvidia":
			nv, err := NewNVidia()
			add(d, nv, err)
		case "remote", "telemetry":
			// NOP handled below
		default:
			log.Warn(c.Tr.Value("error.unknowndevice", d))
		}
	}
	for _, r := range c.Remotes {
		dev, err := NewRemote(r.Name, r.URL, r.Refresh)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		// an unreachable remote may come up later, so it is kept
		if err := dev.Update(); err != nil {
			errs = append(errs, err)
		}
		devs["remote-"+r.Name] = dev
	}
	if c.Telemetry != "" {
		t, err := ListenTelemetry(c.Telemetry)
		if err != nil {
			errs = append(errs, err)
		} else {
			devs["telemetry"] = t
		}
	}
	return devs, errs
}

// Spawn spins up goroutines for updating the devices, which run until ctx is
// done.  Metrics are enabled first when an export port is configured.
func Spawn(ctx context.Context, devs map[string]Device, c *speedo.Config) {
	for name, dev := range devs {
		if c.ExportPort != "" {
			dev.EnableMetrics(c.Metrics)
		}
		if l, ok := dev.(Listener); ok {
			go func(n string, l Listener) {
				if err := l.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.WithField("device", n).WithError(err).Error("listener stopped")
				}
			}(name, l)
			continue
		}
		interval := SampleInterval
		if i, ok := dev.(interface{ Interval() time.Duration }); ok && i.Interval() > 0 {
			interval = i.Interval()
		}
		go poll(ctx, name, dev, interval)
	}
}

// poll updates d every interval.  Failures are logged once each time the
// device goes from working to failing, and the device keeps its last
// readings until it recovers.
func poll(ctx context.Context, name string, d Device, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	failing := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		err := d.Update()
		switch {
		case err != nil && !failing:
			log.WithField("device", name).WithError(err).Warn("update failed")
			failing = true
		case err == nil && failing:
			log.WithField("device", name).Info("update recovered")
			failing = false
		}
	}
}

// DeviceFor names the device that publishes a reading: the part of the key
// before the first `.`, except for telemetry readings.
func DeviceFor(key string) string {
	for _, k := range TelemetryKeys {
		if k == key {
			return "telemetry"
		}
	}
	name := key
	if i := strings.IndexByte(key, '.'); i >= 0 {
		name = key[:i]
	}
	if name == "power" {
		return "batt"
	}
	return name
}

// Required lists the local devices needed for the readings in keys, in
// first-use order.  Remotes and telemetry are configured separately and are
// left out.
func Required(keys []string) []string {
	rv := make([]string, 0)
	seen := make(map[string]bool)
	for _, k := range keys {
		d := DeviceFor(k)
		if d == "remote" || d == "telemetry" || seen[d] {
			continue
		}
		seen[d] = true
		rv = append(rv, d)
	}
	return rv
}

func Domains() []string {
	return []string{"Temperatures", "Disk", "Network"}
}

// Devices lists the sensors the local machine has for domain, one of
// Domains().
func Devices(domain string) []string {
	var rv []string
	switch domain {
	case "Temperatures":
		rv = thermalSensorNames()
	case "Disk":
		rv, _ = partitions()
	case "Network":
		rv, _ = interfaces()
	}
	sort.Strings(rv)
	return rv
}
