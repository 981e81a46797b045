// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests by method, chi route pattern and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// OMDbLookups counts external rating lookups. Outcome is one of
	// "ok", "default" (provider answered without a usable rating) or "error".
	OMDbLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omdb_lookups_total",
			Help: "Total number of OMDb rating lookups by outcome",
		},
		[]string{"outcome"},
	)

	// StoreAttach counts ratings-store attach attempts by result.
	StoreAttach = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_attach_total",
			Help: "Attempts to attach the ratings store to the query session",
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOMDbLookup increments the lookup counter for outcome.
func RecordOMDbLookup(outcome string) {
	OMDbLookups.WithLabelValues(outcome).Inc()
}

// RecordStoreAttach increments the attach counter.
func RecordStoreAttach(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	StoreAttach.WithLabelValues(result).Inc()
}

// RegisterDBStats exports database/sql pool statistics for each named pool,
// labelled db_name.
func RegisterDBStats(reg prometheus.Registerer, pools map[string]*sql.DB) error {
	for name, db := range pools {
		if err := reg.Register(collectors.NewDBStatsCollector(db, name)); err != nil {
			return err
		}
	}
	return nil
}
