package site

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// runMetrics describes a single generation run. Each run gets its own
// registry, written out in text exposition format for a textfile collector.
type runMetrics struct {
	registry    *prometheus.Registry
	cars        prometheus.Gauge
	failures    prometheus.Gauge
	entries     prometheus.Gauge
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

func newRunMetrics() *runMetrics {
	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		cars: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fuel_site_cars_written",
			Help: "Number of car pages written by the last run.",
		}),
		failures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fuel_site_cars_failed",
			Help: "Number of cars that could not be processed in the last run.",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fuel_site_entries_rendered",
			Help: "Number of fill-up entries rendered in the last run.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fuel_site_run_duration_seconds",
			Help: "Duration of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fuel_site_last_success_timestamp_seconds",
			Help: "Unix time of the last run that wrote the site.",
		}),
	}
	m.registry.MustRegister(m.cars, m.failures, m.entries, m.duration, m.lastSuccess)
	return m
}

func (m *runMetrics) observe(cars, failures, entries int, duration time.Duration, written bool) {
	m.cars.Set(float64(cars))
	m.failures.Set(float64(failures))
	m.entries.Set(float64(entries))
	m.duration.Set(duration.Seconds())
	if written {
		m.lastSuccess.SetToCurrentTime()
	}
}

func (m *runMetrics) write(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
