package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

// Metrics holds all Prometheus collectors for the CrowdTruth backend.
var Metrics = struct {
	PostsTotal       prometheus.Counter
	VotesTotal       prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
	DBPoolActive     prometheus.GaugeFunc
	DBPoolIdle       prometheus.GaugeFunc
	RequestsInFlight prometheus.Gauge
	CacheHits        prometheus.CounterFunc
	CacheMisses      prometheus.CounterFunc
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool, cache *service.CacheService) {
	Metrics.PostsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crowdtruth_posts_total",
			Help: "Total reports submitted.",
		},
	)

	Metrics.VotesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crowdtruth_votes_total",
			Help: "Total votes submitted.",
		},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crowdtruth_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crowdtruth_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	// Cache counters read live totals from the cache service.
	if cache != nil {
		Metrics.CacheHits = prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "crowdtruth_cache_hits_total",
				Help: "Total Redis cache hits.",
			},
			func() float64 {
				return float64(cache.Hits())
			},
		)

		Metrics.CacheMisses = prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "crowdtruth_cache_misses_total",
				Help: "Total Redis cache misses.",
			},
			func() float64 {
				return float64(cache.Misses())
			},
		)

		prometheus.MustRegister(Metrics.CacheHits)
		prometheus.MustRegister(Metrics.CacheMisses)
	}

	// DB pool gauges — read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "crowdtruth_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "crowdtruth_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.PostsTotal,
		Metrics.VotesTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	if strings.HasPrefix(path, "/users/") {
		rest := path[len("/users/"):]
		switch {
		case strings.HasSuffix(rest, "/posts"):
			return "/users/:userId/posts"
		case strings.HasSuffix(rest, "/stats"):
			return "/users/:userId/stats"
		default:
			return "/users/:userId"
		}
	}
	return path
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
