package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// Event store
	StoreOpDuration  *prometheus.HistogramVec
	StoreErrorsTotal *prometheus.CounterVec

	// Engine
	QueryResultSize *prometheus.HistogramVec
	Registrations   *prometheus.CounterVec
	ConflictChecks  *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "campusevents",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "campusevents",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "campusevents",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		StoreOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "campusevents",
				Subsystem: "store",
				Name:      "op_duration_seconds",
				Help:      "Event store operation latency (logical op).",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"op", "status"},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "campusevents",
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Event store errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		QueryResultSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "campusevents",
				Subsystem: "query",
				Name:      "result_size",
				Help:      "Number of events returned per query by view.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"view"}, // view=list|groups|calendar|day|export|export_pdf
		),
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "campusevents",
				Name:      "registrations_total",
				Help:      "Registration attempts by result.",
			},
			[]string{"result"},
		),
		ConflictChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "campusevents",
				Name:      "conflict_checks_total",
				Help:      "Venue conflict checks by result.",
			},
			[]string{"result"}, // result=conflict|clear
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "campusevents",
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Query cache lookups by result.",
			},
			[]string{"result"}, // result=hit|miss
		),
	}
	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight,
		p.StoreOpDuration, p.StoreErrorsTotal,
		p.QueryResultSize, p.Registrations, p.ConflictChecks, p.CacheLookups,
	)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// The helpers below are safe on a nil *Prom so tests can skip metrics.

func (p *Prom) ObserveQuery(view string, n int) {
	if p == nil {
		return
	}
	p.QueryResultSize.WithLabelValues(view).Observe(float64(n))
}

func (p *Prom) CountRegistration(result string) {
	if p == nil {
		return
	}
	p.Registrations.WithLabelValues(result).Inc()
}

func (p *Prom) CountConflictCheck(hasConflict bool) {
	if p == nil {
		return
	}
	result := "clear"
	if hasConflict {
		result = "conflict"
	}
	p.ConflictChecks.WithLabelValues(result).Inc()
}

func (p *Prom) CountCacheLookup(hit bool) {
	if p == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	p.CacheLookups.WithLabelValues(result).Inc()
}
