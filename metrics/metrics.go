// Package metrics exposes Prometheus counters for index loads, gallery
// queries, viewer sessions and thumbnail generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the index loader, the handlers and the workers report to.
type Recorder interface {
	RecordIndexLoad(ok bool)
	RecordSearch(matches int)
	RecordDetail(status string)
	ShellOpened()
	ShellClosed()
	RecordThumbnail(result string, took time.Duration)
}

// Nop discards everything. Used when no registry is wired, e.g. in CLI commands.
type Nop struct{}

func (Nop) RecordIndexLoad(bool) {}
func (Nop) RecordSearch(int) {}
func (Nop) RecordDetail(string) {}
func (Nop) ShellOpened() {}
func (Nop) ShellClosed() {}
func (Nop) RecordThumbnail(string, time.Duration) {}

const (
	ThumbnailGenerated = "generated"
	ThumbnailSkipped   = "skipped"
	ThumbnailFailed    = "failed"
)

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	indexLoads        *prometheus.CounterVec
	searchMatches     prometheus.Histogram
	detailResolutions *prometheus.CounterVec
	openShells        prometheus.Gauge
	thumbnails        *prometheus.CounterVec
	thumbnailLatency  prometheus.Histogram
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		indexLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "astrogallery_index_loads_total",
			Help: "Photo index loads by outcome.",
		}, []string{"outcome"}),
		searchMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "astrogallery_search_matches",
			Help:    "Number of photos matched per gallery query.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		detailResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "astrogallery_detail_resolutions_total",
			Help: "Photo detail resolutions by status.",
		}, []string{"status"}),
		openShells: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "astrogallery_open_shell_sessions",
			Help: "Currently connected app shell sessions.",
		}),
		thumbnails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "astrogallery_thumbnails_total",
			Help: "Thumbnail generation results.",
		}, []string{"result"}),
		thumbnailLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "astrogallery_thumbnail_seconds",
			Help:    "Time spent generating one thumbnail.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.indexLoads,
		c.searchMatches,
		c.detailResolutions,
		c.openShells,
		c.thumbnails,
		c.thumbnailLatency,
	)
	return c
}

func (c *Collector) RecordIndexLoad(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	c.indexLoads.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordSearch(matches int) {
	c.searchMatches.Observe(float64(matches))
}

func (c *Collector) RecordDetail(status string) {
	c.detailResolutions.WithLabelValues(status).Inc()
}

func (c *Collector) ShellOpened() { c.openShells.Inc() }

func (c *Collector) ShellClosed() { c.openShells.Dec() }

// RecordThumbnail counts one thumbnail result; took is only observed for
// generated thumbnails.
func (c *Collector) RecordThumbnail(result string, took time.Duration) {
	c.thumbnails.WithLabelValues(result).Inc()
	if result == ThumbnailGenerated {
		c.thumbnailLatency.Observe(took.Seconds())
	}
}

// Handler serves the metrics gathered by reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
