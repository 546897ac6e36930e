package battito

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsInternal holds the private Prometheus registry and every
// internal meter of the engine host. One instance per process,
// served on /metrics by the data server.
type StatsInternal struct {
	Registry    *prometheus.Registry
	Ticks       prometheus.Counter
	Verdicts    *prometheus.CounterVec
	Beats       prometheus.Counter
	LockedBPM   prometheus.Gauge
	LockActive  prometheus.Gauge
	WSClients   prometheus.Gauge
	WWW         *prometheus.CounterVec
}

func NewStatsInternal() *StatsInternal {
	reg := prometheus.NewRegistry()

	s := &StatsInternal{
		Registry: reg,
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "battito_ticks_total",
			Help: "Samples ingested by the engine.",
		}),
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "battito_verdicts_total",
			Help: "Signal quality verdicts by classification.",
		}, []string{"verdict"}),
		Beats: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "battito_beats_total",
			Help: "Detected pulse-cycle beats.",
		}),
		LockedBPM: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "battito_locked_bpm",
			Help: "Currently locked BPM, 0 when unlocked.",
		}),
		LockActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "battito_lock_active",
			Help: "1 while a BPM lock is held.",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "battito_websocket_clients",
			Help: "Connected websocket clients.",
		}),
		WWW: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "battito_http_requests_total",
			Help: "HTTP requests by status and method.",
		}, []string{"status", "method"}),
	}

	reg.MustRegister(s.Ticks, s.Verdicts, s.Beats,
		s.LockedBPM, s.LockActive, s.WSClients, s.WWW)

	return s
}

// Handler serves the private registry for the /metrics route.
func (s *StatsInternal) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})
}

// RecordTick counts one engine tick and its verdict.
func (s *StatsInternal) RecordTick(verdict string) {
	s.Ticks.Inc()
	s.Verdicts.WithLabelValues(verdict).Inc()
}

// RecWWW counts one served HTTP request, called by the stats middleware.
func (s *StatsInternal) RecWWW(status, method string) {
	s.WWW.WithLabelValues(status, method).Inc()
}

// RecordLock mirrors the engine lock state into the gauges.
func (s *StatsInternal) RecordLock(bpm int, held bool) {
	if held {
		s.LockedBPM.Set(float64(bpm))
		s.LockActive.Set(1)
		return
	}
	s.LockedBPM.Set(0)
	s.LockActive.Set(0)
}
