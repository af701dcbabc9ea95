// Package metrics exposes the server's counters both to Prometheus and
// to the text stats command, grounded on the MetricSet idiom: one
// small struct of pre-registered vectors, updated inline with the hot
// path rather than sampled.
package metrics

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/memkv/memkv/pkg/protocol"
)

// Metrics holds the server's Prometheus collectors plus the plain
// atomic counters the stats command reports by name.
type Metrics struct {
	CurrItems        prometheus.Gauge
	CmdTotal         *prometheus.CounterVec
	CapacityExceeded prometheus.Counter

	totalConnections uint64
	cmdGetHits       uint64
	cmdGetMisses     uint64
	cmdSet           uint64
}

// New constructs a Metrics and registers its collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CurrItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memkv_curr_items",
			Help: "Number of entries currently stored in the cache.",
		}),
		CmdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memkv_cmd_total",
			Help: "Commands processed, by verb and result.",
		}, []string{"cmd", "result"}),
		CapacityExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memkv_capacity_exceeded_total",
			Help: "Set operations refused because the cache was at capacity.",
		}),
	}

	reg.MustRegister(m.CurrItems, m.CmdTotal, m.CapacityExceeded)
	return m
}

// ObserveConnection records a newly accepted connection.
func (m *Metrics) ObserveConnection() {
	atomic.AddUint64(&m.totalConnections, 1)
}

// ObserveStats records a stats command.
func (m *Metrics) ObserveStats() {
	m.CmdTotal.WithLabelValues("stats", "ok").Inc()
}

// ObserveGetHit records a get that found a live entry.
func (m *Metrics) ObserveGetHit() {
	atomic.AddUint64(&m.cmdGetHits, 1)
	m.CmdTotal.WithLabelValues("get", "hit").Inc()
}

// ObserveGetMiss records a get that found nothing live.
func (m *Metrics) ObserveGetMiss() {
	atomic.AddUint64(&m.cmdGetMisses, 1)
	m.CmdTotal.WithLabelValues("get", "miss").Inc()
}

// ObserveGetClientError records a get refused by a size gate (the key
// exceeded key_maxlen) rather than a genuine lookup miss.
func (m *Metrics) ObserveGetClientError() {
	m.CmdTotal.WithLabelValues("get", "client_error").Inc()
}

// ObserveSetStored records a successful set.
func (m *Metrics) ObserveSetStored() {
	atomic.AddUint64(&m.cmdSet, 1)
	m.CmdTotal.WithLabelValues("set", "stored").Inc()
}

// ObserveSetClientError records a set refused by a size gate.
func (m *Metrics) ObserveSetClientError() {
	atomic.AddUint64(&m.cmdSet, 1)
	m.CmdTotal.WithLabelValues("set", "client_error").Inc()
}

// ObserveSetCapacityExceeded records a set refused for lack of room.
func (m *Metrics) ObserveSetCapacityExceeded() {
	atomic.AddUint64(&m.cmdSet, 1)
	m.CapacityExceeded.Inc()
	m.CmdTotal.WithLabelValues("set", "capacity_exceeded").Inc()
}

// Snapshot renders the current counters as the name/value pairs the
// text stats command reports, in addition to currItems which the
// dispatcher supplies directly from the cache.
func (m *Metrics) Snapshot(currItems uint64) []protocol.Stat {
	m.CurrItems.Set(float64(currItems))
	return []protocol.Stat{
		{Name: "curr_items", Value: strconv.FormatUint(currItems, 10)},
		{Name: "total_connections", Value: strconv.FormatUint(atomic.LoadUint64(&m.totalConnections), 10)},
		{Name: "cmd_get_hits", Value: strconv.FormatUint(atomic.LoadUint64(&m.cmdGetHits), 10)},
		{Name: "cmd_get_misses", Value: strconv.FormatUint(atomic.LoadUint64(&m.cmdGetMisses), 10)},
		{Name: "cmd_set", Value: strconv.FormatUint(atomic.LoadUint64(&m.cmdSet), 10)},
	}
}
