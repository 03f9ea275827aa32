package devices

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/disk"
	log "github.com/sirupsen/logrus"
)

// Partition represents a partition on a disk.
type Partition struct {
	// Device is the operating system's name for the raw device
	Device string
	// MountPoint is where the operating systems mounts the device
	MountPoint string
	// BytesRead is the total number of bytes read through the device
	BytesRead uint64
	// BytesWritten is the total number of bytes written through the device
	BytesWritten uint64
}

// Disk publishes `disk.read` and `disk.write` in bytes per second summed over
// all partitions, and `disk.NAME.used` in percent for each partition.
type Disk struct {
	readings
	// Partitions are keyed by the partition's Device field
	Partitions map[string]*Partition
	last       time.Time
}

func LocalDisk() *Disk {
	return &Disk{readings: newReadings(), Partitions: make(map[string]*Partition)}
}

// Update refreshes partition information, adding newly discovered partitions
// and removing ones that have disappeared.
//
// Recoverable errors get logged, not returned
func (dsk *Disk) Update() error {
	ps, err := disk.Partitions(false)
	if err != nil {
		return errors.Wrap(err, "disk partitions")
	}
	now := time.Now()
	secs := now.Sub(dsk.last).Seconds()
	first := dsk.last.IsZero()
	dsk.last = now

	vals := make(map[string]float64)
	var read, written float64
	seen := make(map[string]bool)
	for _, p := range ps {
		// don't show loop devices
		if strings.HasPrefix(p.Device, "/dev/loop") {
			continue
		}
		// don't show docker container filesystems
		if strings.HasPrefix(p.Mountpoint, "/var/lib/docker/") {
			continue
		}
		seen[p.Device] = true
		part, ok := dsk.Partitions[p.Device]
		if !ok {
			part = &Partition{Device: p.Device, MountPoint: p.Mountpoint}
			dsk.Partitions[p.Device] = part
		}

		usage, err := disk.Usage(part.MountPoint)
		if err != nil {
			log.WithField("mount", part.MountPoint).WithError(err).Debug("recoverable error fetching disk usage")
			continue
		}
		vals["disk."+filepath.Base(part.Device)+".used"] = usage.UsedPercent

		ioCounters, err := disk.IOCounters(part.Device)
		if err != nil {
			log.WithField("device", part.Device).WithError(err).Debug("recoverable error fetching IO counters")
			continue
		}
		ioCounter := ioCounters[strings.Replace(part.Device, "/dev/", "", -1)]
		if !first && part.BytesRead != 0 && secs > 0 {
			read += rate(part.BytesRead, ioCounter.ReadBytes, secs)
			written += rate(part.BytesWritten, ioCounter.WriteBytes, secs)
		}
		part.BytesRead, part.BytesWritten = ioCounter.ReadBytes, ioCounter.WriteBytes
	}
	for dev := range dsk.Partitions {
		if !seen[dev] {
			delete(dsk.Partitions, dev)
		}
	}
	vals["disk.read"] = read
	vals["disk.write"] = written
	dsk.replace(vals)
	return nil
}

func partitions() ([]string, error) {
	ps, err := disk.Partitions(false)
	if err != nil {
		return nil, errors.Wrap(err, "disk partitions")
	}
	rv := make([]string, len(ps))
	for i, p := range ps {
		rv[i] = p.Device
	}
	return rv, nil
}
