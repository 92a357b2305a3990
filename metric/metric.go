// Package metric provides Prometheus metrics collection and monitoring.
package metric

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"observer/monitor"
)

// Metrics contains the Prometheus metrics server and registered custom metrics.
// It reports channel activity and mirrors system usage samples.
type Metrics struct {
	httpServer    *http.Server
	config        Config
	registry      *prometheus.Registry
	active        *prometheus.GaugeVec
	subscriptions *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
	failures      *prometheus.CounterVec
	pruned        *prometheus.CounterVec
	unknown       *prometheus.CounterVec
	cpuUsage      prometheus.Gauge
	memoryUsage   prometheus.Gauge
}

// New creates a new Metrics instance with the specified configuration.
func New(config Config) *Metrics {
	return &Metrics{
		config:   config,
		registry: prometheus.NewRegistry(),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "observer_subscriptions_active",
			Help: "Current number of subscriptions per channel.",
		}, []string{"channel"}),
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "observer_subscriptions_total",
			Help: "Total number of subscriptions per channel.",
		}, []string{"channel"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "observer_deliveries_total",
			Help: "Total number of payloads delivered to observers.",
		}, []string{"channel"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "observer_failures_total",
			Help: "Total number of observer and filter failures.",
		}, []string{"channel", "kind"}), // Kind: "observer" or "filter"
		pruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "observer_pruned_total",
			Help: "Total number of subscriptions pruned after their observer was collected.",
		}, []string{"channel"}),
		unknown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "observer_unknown_unsubscribes_total",
			Help: "Total number of unsubscribes of ids that were not subscribed.",
		}, []string{"channel"}),
		cpuUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cpu_usage_percentage",
			Help: "CPU usage percentage.",
		}),
		memoryUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memory_usage_bytes",
			Help: "Current memory usage in bytes.",
		}),
	}
}

// RegisterMetrics registers custom metrics with the Metrics registry.
func (m *Metrics) RegisterMetrics() {
	m.registry.MustRegister(m.active)
	m.registry.MustRegister(m.subscriptions)
	m.registry.MustRegister(m.deliveries)
	m.registry.MustRegister(m.failures)
	m.registry.MustRegister(m.pruned)
	m.registry.MustRegister(m.unknown)
	m.registry.MustRegister(m.cpuUsage)
	m.registry.MustRegister(m.memoryUsage)
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Start initializes and starts the metrics HTTP server.
func (m *Metrics) Start() {
	mux := http.NewServeMux()
	mux.Handle(m.config.Path, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", m.config.Port),
		ReadHeaderTimeout: 2 * time.Second,
		Handler:           mux,
	}

	go func() {
		log.Printf("Starting metrics server on port %d at path %s", m.config.Port, m.config.Path)
		if err := m.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Error starting metrics server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (m *Metrics) Stop() error {
	if m.httpServer != nil {
		log.Printf("Stopping metrics server on port %d", m.config.Port)
		return m.httpServer.Close()
	}
	return nil
}

// Receive mirrors a system usage sample into the CPU and memory gauges.
func (m *Metrics) Receive(u monitor.Usage) error {
	m.cpuUsage.Set(u.CPUPercent)
	m.memoryUsage.Set(float64(u.MemoryUsed))
	return nil
}

// Subscribed counts a new subscription.
func (m *Metrics) Subscribed(channel string, _ uint64) {
	m.subscriptions.WithLabelValues(channel).Inc()
	m.active.WithLabelValues(channel).Inc()
}

// Unsubscribed counts a cancelled subscription.
func (m *Metrics) Unsubscribed(channel string, _ uint64) {
	m.active.WithLabelValues(channel).Dec()
}

// Pruned counts a subscription removed because its observer is gone.
func (m *Metrics) Pruned(channel string, _ uint64) {
	m.pruned.WithLabelValues(channel).Inc()
	m.active.WithLabelValues(channel).Dec()
}

// UnknownSubscription counts an unsubscribe that found nothing.
func (m *Metrics) UnknownSubscription(channel string, _ uint64) {
	m.unknown.WithLabelValues(channel).Inc()
}

// Delivered counts a successful delivery.
func (m *Metrics) Delivered(channel string, _ uint64) {
	m.deliveries.WithLabelValues(channel).Inc()
}

// ObserverFailed counts an observer failure.
func (m *Metrics) ObserverFailed(channel string, _ uint64, _ error) {
	m.failures.WithLabelValues(channel, "observer").Inc()
}

// FilterFailed counts a filter failure.
func (m *Metrics) FilterFailed(channel string, _ uint64, _ error) {
	m.failures.WithLabelValues(channel, "filter").Inc()
}
