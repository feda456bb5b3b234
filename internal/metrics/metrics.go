package metrics

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"funolympics/internal/db"
)

var (
	viewRenderDesc = prometheus.NewDesc(
		"funolympics_view_renders_lifetime_total",
		"Lifetime view render count by outcome, read from the usage store",
		[]string{"view", "outcome"},
		nil,
	)
)

// Metrics holds the process-local Prometheus collectors.
var Metrics = struct {
	ViewRenders      *prometheus.CounterVec
	Exports          *prometheus.CounterVec
	QueryDuration    *prometheus.HistogramVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	DatasetRows      prometheus.Gauge
}{
	ViewRenders: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funolympics_view_renders_total",
			Help: "View renders since start, by view and outcome.",
		},
		[]string{"view", "outcome"},
	),
	Exports: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funolympics_exports_total",
			Help: "Downloads of view results, by view and format.",
		},
		[]string{"view", "format"},
	),
	QueryDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "funolympics_query_duration_seconds",
			Help:    "Time spent filtering and grouping the dataset, by view.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"view"},
	),
	RequestDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "funolympics_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	),
	RequestsInFlight: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "funolympics_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	),
	DatasetRows: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "funolympics_dataset_rows",
			Help: "Number of records in the loaded dataset.",
		},
	),
}

// ViewRenderCollector is a custom Prometheus collector that reads view render
// counts from the database on each scrape.
type ViewRenderCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *ViewRenderCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- viewRenderDesc
}

// Collect queries the database for all view renders and emits them as counters.
func (c *ViewRenderCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	renders, err := c.db.GetAllViewRenders(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to collect view render metrics")
		return
	}
	for _, r := range renders {
		ch <- prometheus.MustNewConstMetric(
			viewRenderDesc,
			prometheus.CounterValue,
			float64(r.Count),
			r.View,
			r.Outcome,
		)
	}
}

// Recorder provides async view render recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder *Recorder
	initOnce sync.Once
)

// Init registers the collectors. database may be nil, in which case only
// process-local counts are kept. Later calls are no-ops.
func Init(database *db.DB, datasetRows int) {
	initOnce.Do(func() {
		prometheus.MustRegister(
			Metrics.ViewRenders,
			Metrics.Exports,
			Metrics.QueryDuration,
			Metrics.RequestDuration,
			Metrics.RequestsInFlight,
			Metrics.DatasetRows,
		)
		Metrics.DatasetRows.Set(float64(datasetRows))

		if database != nil {
			recorder = &Recorder{db: database}
			prometheus.MustRegister(&ViewRenderCollector{db: database})
		}
	})
}

// RecordViewRender counts a render and, when a usage store is configured,
// asynchronously persists it.
func RecordViewRender(view, outcome string) {
	Metrics.ViewRenders.WithLabelValues(view, outcome).Inc()
	if recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.db.IncrementViewRender(ctx, view, outcome); err != nil {
			log.Error().Err(err).Str("view", view).Str("outcome", outcome).Msg("failed to record view render")
		}
	}()
}

// RecordExport counts a download of a view's result.
func RecordExport(view, format string) {
	Metrics.Exports.WithLabelValues(view, format).Inc()
}

// ObserveQuery records how long a view's query took.
func ObserveQuery(view string, d time.Duration) {
	Metrics.QueryDuration.WithLabelValues(view).Observe(d.Seconds())
}

// Middleware records request duration and in-flight count for Prometheus.
func Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		method := string([]byte(c.Method()))

		Metrics.RequestsInFlight.Inc()
		defer Metrics.RequestsInFlight.Dec()
		start := time.Now()

		err := c.Next()

		// The matched route pattern keeps label cardinality bounded.
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = string([]byte(r.Path))
		} else if c.Path() == "/" {
			route = "/"
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		Metrics.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler serves the Prometheus /metrics endpoint via Fiber.
func Handler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
