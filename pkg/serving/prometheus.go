package serving

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sapmachine/vitals/pkg/reporting"
	"github.com/sapmachine/vitals/pkg/vitals"
)

// Collector adapts the newest retained sample to a Prometheus scrape.
// Delta-kind columns store cumulative readings, so they surface as counters;
// everything else is a gauge. Invalid readings are simply not exported.
type Collector struct {
	src   reporting.Source
	descs map[int]*prometheus.Desc
}

// NewCollector builds descriptors for every active column. The registry is
// frozen by the time a server exists, so the descriptor set is fixed.
func NewCollector(src reporting.Source) *Collector {
	c := &Collector{
		src:   src,
		descs: make(map[int]*prometheus.Desc),
	}
	for _, col := range src.Registry().Columns() {
		c.descs[col.Index()] = prometheus.NewDesc(
			metricName(col),
			col.Description,
			nil, nil,
		)
	}
	return c
}

func metricName(c *vitals.Column) string {
	name := "vitals_" + c.QualifiedName()
	name = strings.ReplaceAll(name, "-", "_")
	if c.Kind == vitals.KindMemorySize || c.Kind == vitals.KindDeltaMemorySize {
		name += "_bytes"
	}
	if c.Kind == vitals.KindDelta || c.Kind == vitals.KindDeltaMemorySize {
		name += "_total"
	}
	return name
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	window := c.src.Window(1)
	if len(window) == 0 {
		return
	}
	s := window[0]
	for _, col := range c.src.Registry().Columns() {
		v := s.Value(col.Index())
		if !vitals.IsValid(v) {
			continue
		}
		kind := prometheus.GaugeValue
		if col.Kind == vitals.KindDelta || col.Kind == vitals.KindDeltaMemorySize {
			kind = prometheus.CounterValue
		}
		ch <- prometheus.MustNewConstMetric(c.descs[col.Index()], kind, float64(v))
	}
}
