// Package metrics exposes the overlay's frame statistics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Frame outcomes.
const (
	OutcomePresented = "presented"
	OutcomeDropped   = "dropped"
	OutcomeError     = "error"
)

// Recorder tracks frame counts, frame times, surface reconfigurations and
// the measured frame rate. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	frames       *prometheus.CounterVec
	frameSeconds prometheus.Histogram
	reconfigures prometheus.Counter
	fps          prometheus.Gauge
}

// New creates the collectors and registers them on reg. A nil reg gets a
// fresh registry.
func New(reg *prometheus.Registry) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Recorder{
		registry: reg,

		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "needle_frames_total",
				Help: "Total number of frames by outcome",
			},
			[]string{"outcome"}, // presented, dropped, error
		),

		frameSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "needle_frame_seconds",
				Help:    "Time spent composing and presenting a frame",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
		),

		reconfigures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "needle_surface_reconfigures_total",
				Help: "Total number of surface reconfigurations",
			},
		),

		fps: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "needle_fps",
				Help: "Frame rate measured over the last second",
			},
		),
	}
	for _, c := range []prometheus.Collector{r.frames, r.frameSeconds, r.reconfigures, r.fps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	// Zero series show up before the first frame.
	for _, o := range []string{OutcomePresented, OutcomeDropped, OutcomeError} {
		r.frames.WithLabelValues(o)
	}
	return r, nil
}

// Frame records one frame attempt that took d.
func (r *Recorder) Frame(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.frames.WithLabelValues(outcome).Inc()
	r.frameSeconds.Observe(d.Seconds())
}

// Reconfigured records a surface reconfiguration.
func (r *Recorder) Reconfigured() {
	if r == nil {
		return
	}
	r.reconfigures.Inc()
}

// SetFPS records the measured frame rate.
func (r *Recorder) SetFPS(fps float64) {
	if r == nil {
		return
	}
	r.fps.Set(fps)
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
