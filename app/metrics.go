package app

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors of the animation loop.
type Metrics struct {
	gatherer prometheus.Gatherer

	Ticks         prometheus.Counter
	Frames        prometheus.Counter
	FrameDuration prometheus.Histogram
	SimTime       prometheus.Gauge
	SelfRotation  prometheus.Gauge
}

// NewMetrics registers the loop metrics against reg, defaulting to the
// global Prometheus registry when nil. Registering twice against the same
// registry returns the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_ticks_total",
		Help: "Number of kinematics ticks applied.",
	}), "orrery_ticks_total")
	if err != nil {
		return nil, err
	}
	frames, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_frames_rendered_total",
		Help: "Number of frames rendered.",
	}), "orrery_frames_rendered_total")
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orrery_frame_render_seconds",
		Help:    "Time spent rendering one frame.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.016, 0.033, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}), "orrery_frame_render_seconds")
	if err != nil {
		return nil, err
	}
	simTime, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_simulation_time",
		Help: "Accumulated simulation time, equal to the orbit group angle in radians.",
	}), "orrery_simulation_time")
	if err != nil {
		return nil, err
	}
	spin, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_self_rotation_radians",
		Help: "Accumulated spin of the primary body.",
	}), "orrery_self_rotation_radians")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:      gatherer,
		Ticks:         ticks,
		Frames:        frames,
		FrameDuration: duration,
		SimTime:       simTime,
		SelfRotation:  spin,
	}, nil
}

// Handler serves the registry the metrics were registered against.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C, name string) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero C
		return zero, err
	}
	return c, nil
}
