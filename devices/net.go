package devices

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/net"
	log "github.com/sirupsen/logrus"
)

// Network publishes `net.recv` and `net.sent`, bytes per second across the
// filtered interfaces, measured between the last two updates.
type Network struct {
	readings
	// Interfaces is the filtered set of interface names
	Interfaces map[string]bool
	// TotalBytesRecv is the last seen total number of bytes received, across all interfaces
	TotalBytesRecv uint64
	// TotalBytesSent is the last seen total number of bytes sent, across all interfaces
	TotalBytesSent uint64
	last           time.Time
	now            func() time.Time
}

// LocalNetwork sets up tracking for a filtered list of interfaces. filter
// contains the rules:
//  1. Included interfaces are simply the interface name, e.g. "eth0"
//  2. Excluded interfaces are prefixed by `!`, e.g. "!wlan0"
//  3. If the list contains *only* exclusions, then all interfaces not excluded are included
//  4. If the list contains any non-exclusions, then only those interfaces are included
//  5. Exclusion overrides inclusion
//  6. If the interface name begins with "tun", and `excludeVPNs` is true, then the interface is
//     excluded.
func LocalNetwork(filter []string, excludeVPNs bool) (*Network, error) {
	counters, err := net.IOCounters(true)
	if err != nil {
		return nil, errors.Wrap(err, "network")
	}
	names := make([]string, len(counters))
	for i, c := range counters {
		names[i] = c.Name
	}
	return &Network{
		readings:   newReadings(),
		Interfaces: filterInterfaces(names, filter, excludeVPNs),
		now:        time.Now,
	}, nil
}

func filterInterfaces(names, filter []string, excludeVPNs bool) map[string]bool {
	excludes := make(map[string]bool)
	includes := make(map[string]bool)
	for _, iface := range filter {
		// "all" is synonymous with the empty includes set
		if iface == "all" || iface == "" {
			continue
		}
		if strings.HasPrefix(iface, "!") {
			excludes[strings.TrimPrefix(iface, "!")] = true
		} else {
			includes[iface] = true
		}
	}
	rv := make(map[string]bool)
	for _, name := range names {
		if excludes[name] {
			continue
		}
		if strings.HasPrefix(name, "tun") && excludeVPNs {
			continue
		}
		if len(includes) != 0 && !includes[name] {
			continue
		}
		rv[name] = true
	}
	return rv
}

func (n *Network) Update() error {
	counters, err := net.IOCounters(true)
	if err != nil {
		return errors.Wrap(err, "network")
	}
	var recv, sent uint64
	for _, c := range counters {
		if n.Interfaces[c.Name] {
			recv += c.BytesRecv
			sent += c.BytesSent
		}
	}
	n.record(recv, sent)
	return nil
}

// record turns byte totals into rates.  The first sample only sets the
// baseline; a total that goes backwards (an interface vanished or a counter
// wrapped) reads as zero.
func (n *Network) record(recv, sent uint64) {
	now := n.now()
	if !n.last.IsZero() {
		secs := now.Sub(n.last).Seconds()
		if secs > 0 {
			n.set("net.recv", rate(n.TotalBytesRecv, recv, secs))
			n.set("net.sent", rate(n.TotalBytesSent, sent, secs))
		}
	} else {
		n.set("net.recv", 0)
		n.set("net.sent", 0)
	}
	n.TotalBytesRecv, n.TotalBytesSent, n.last = recv, sent, now
}

func rate(prev, cur uint64, secs float64) float64 {
	if cur < prev {
		log.WithField("previous", prev).WithField("current", cur).Debug("illogical byte count")
		return 0
	}
	return float64(cur-prev) / secs
}

func interfaces() ([]string, error) {
	interfaces, err := net.IOCounters(true)
	if err != nil {
		return nil, err
	}
	rv := make([]string, len(interfaces))
	for i, intf := range interfaces {
		rv[i] = intf.Name
	}
	return rv, nil
}
