package devices

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/VictoriaMetrics/metrics"
)

// makeName creates a prometheus metric name in the speedo space.  Reading
// keys use `.` as a separator, which prometheus does not allow.
func makeName(parts ...interface{}) string {
	args := make([]string, len(parts)+1)
	args[0] = "speedo"
	for i, v := range parts {
		args[i+1] = fmt.Sprintf("%v", v)
	}
	rv := strings.Join(args, "_")
	rv = strings.ReplaceAll(rv, "-", ":")
	rv = strings.ReplaceAll(rv, " ", ":")
	rv = strings.ReplaceAll(rv, ".", ":")
	rv = strings.ReplaceAll(rv, "/", ":")
	return rv
}

// readings is the store a device publishes into.  Update runs on the
// device's own goroutine while Values is called from the render loop.
type readings struct {
	mu   sync.RWMutex
	vals map[string]float64
	// registered holds the keys that already have a metric
	registered map[string]bool
}

func newReadings() readings {
	return readings{vals: make(map[string]float64), registered: make(map[string]bool)}
}

func (r *readings) set(key string, v float64) {
	r.mu.Lock()
	r.vals[key] = v
	r.mu.Unlock()
}

// replace swaps in a full set of readings; keys not in m disappear.
func (r *readings) replace(m map[string]float64) {
	r.mu.Lock()
	r.vals = m
	r.mu.Unlock()
}

func (r *readings) get(key string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vals[key]
	return v, ok
}

// Values copies the current readings into dst.
func (r *readings) Values(dst map[string]float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for k, v := range r.vals {
		dst[k] = v
	}
}

// Keys returns the reading keys, sorted.
func (r *readings) Keys() []string {
	r.mu.RLock()
	rv := make([]string, 0, len(r.vals))
	for k := range r.vals {
		rv = append(rv, k)
	}
	r.mu.RUnlock()
	sort.Strings(rv)
	return rv
}

// EnableMetrics creates a gauge for every reading present.  Readings that
// first appear later are not exported.
func (r *readings) EnableMetrics(s *metrics.Set) {
	for _, k := range r.Keys() {
		if r.registered[k] {
			continue
		}
		r.registered[k] = true
		key := k
		s.NewGauge(makeName("reading", key), func() float64 {
			v, _ := r.get(key)
			return v
		})
	}
}
