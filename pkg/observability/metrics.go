package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ts1257/acme-blogs/pkg/domain"
)

// Metrics records pipeline events as Prometheus series.
type Metrics struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	refreshes     *prometheus.CounterVec
	skippedPosts  prometheus.Counter
	renderedPosts prometheus.Histogram
	toggles       *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acme_blogs_fetches_total",
				Help: "Total number of requests to the remote source",
			},
			[]string{"resource", "status"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "acme_blogs_fetch_duration_seconds",
				Help:    "Duration of requests to the remote source",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acme_blogs_refreshes_total",
				Help: "Total number of refresh cycles by outcome",
			},
			[]string{"outcome"},
		),
		skippedPosts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acme_blogs_skipped_posts_total",
			Help: "Posts left out of a rendering because their author or comments were unavailable",
		}),
		renderedPosts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "acme_blogs_rendered_posts",
			Help:    "Posts mounted per refresh cycle",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		}),
		toggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acme_blogs_toggles_total",
				Help: "Total number of comment section toggles",
			},
			[]string{"visible"},
		),
	}
	m.registry.MustRegister(
		m.fetches, m.fetchDuration, m.refreshes, m.skippedPosts, m.renderedPosts, m.toggles,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks that record every event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFetch: func(_ context.Context, e *domain.FetchEvent) {
			status := "ok"
			if e.Error != "" {
				status = "error"
			}
			m.fetches.WithLabelValues(e.Resource, status).Inc()
			m.fetchDuration.WithLabelValues(e.Resource).Observe(e.Duration.Seconds())
		},
		OnRefresh: func(_ context.Context, e *domain.RefreshEvent) {
			m.refreshes.WithLabelValues(string(e.Outcome)).Inc()
			if e.Outcome == domain.OutcomeMounted {
				m.renderedPosts.Observe(float64(len(e.Rendered)))
				m.skippedPosts.Add(float64(len(e.Skipped)))
			}
		},
		OnToggle: func(_ context.Context, e *domain.ToggleEvent) {
			visible := "false"
			if e.Visible {
				visible = "true"
			}
			m.toggles.WithLabelValues(visible).Inc()
		},
	}
}
