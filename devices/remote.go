package devices

import (
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
)

// DefaultRefresh is used for remotes configured without a refresh interval.
const DefaultRefresh = 5 * time.Second

// Remote scrapes a Prometheus text endpoint, such as another speedo started
// with an export port, and publishes every sample as
// `remote.NAME.METRIC`, where METRIC is the sample's name followed by its
// labels in name order.
type Remote struct {
	readings
	Name    string
	URL     string
	Refresh time.Duration
	client  *http.Client
}

func NewRemote(n, u string, r time.Duration) (*Remote, error) {
	if _, err := url.ParseRequestURI(u); err != nil {
		return nil, errors.Wrapf(err, "bad remote URL %s", u)
	}
	if r <= 0 {
		r = DefaultRefresh
	}
	return &Remote{
		readings: newReadings(),
		Name:     n,
		URL:      u,
		Refresh:  r,
		client:   &http.Client{Timeout: r},
	}, nil
}

// Interval is how often the endpoint is scraped.
func (rm *Remote) Interval() time.Duration {
	return rm.Refresh
}

func (rm *Remote) Update() error {
	res, err := rm.client.Get(rm.URL)
	if err != nil {
		return errors.Wrapf(err, "error pulling remote %s", rm.Name)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return errors.Errorf("unsuccessful connection to %s: http status %s", rm.URL, res.Status)
	}
	vals, err := rm.process(res.Body)
	if err != nil {
		return err
	}
	rm.replace(vals)
	return nil
}

// process parses the text exposition format.  Counters, gauges and untyped
// samples are published under their name and labels; summaries and
// histograms publish NAME_sum and NAME_count.
func (rm *Remote) process(in io.Reader) (map[string]float64, error) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(in)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing remote %s", rm.Name)
	}
	prefix := "remote." + rm.Name + "."
	vals := make(map[string]float64)
	for name, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := labelString(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_GAUGE:
				vals[prefix+name+labels] = m.GetGauge().GetValue()
			case dto.MetricType_COUNTER:
				vals[prefix+name+labels] = m.GetCounter().GetValue()
			case dto.MetricType_UNTYPED:
				vals[prefix+name+labels] = m.GetUntyped().GetValue()
			case dto.MetricType_SUMMARY:
				vals[prefix+name+"_sum"+labels] = m.GetSummary().GetSampleSum()
				vals[prefix+name+"_count"+labels] = float64(m.GetSummary().GetSampleCount())
			case dto.MetricType_HISTOGRAM:
				vals[prefix+name+"_sum"+labels] = m.GetHistogram().GetSampleSum()
				vals[prefix+name+"_count"+labels] = float64(m.GetHistogram().GetSampleCount())
			default:
				log.WithField("remote", rm.Name).Debugf("skipping %s of type %s", name, mf.GetType())
			}
		}
	}
	return vals, nil
}

// labelString formats labels as `{a="x",b="y"}`, sorted by name.
func labelString(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		parts = append(parts, lp.GetName()+"="+strconv.Quote(lp.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

// EnableMetrics does nothing; scraped samples are not re-exported.
func (rm *Remote) EnableMetrics(*metrics.Set) {}
