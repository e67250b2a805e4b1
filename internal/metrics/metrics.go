package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/phanxgames/worldmap"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worldmap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "worldmap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "worldmap",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	AtlasCountries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldmap",
		Subsystem: "atlas",
		Name:      "countries",
		Help:      "Countries in the loaded atlas",
	})

	AtlasSegments = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldmap",
		Subsystem: "atlas",
		Name:      "segments",
		Help:      "Polygon segments in the loaded atlas",
	})

	AtlasPoints = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldmap",
		Subsystem: "atlas",
		Name:      "points",
		Help:      "Projected points after simplification",
	})

	DatasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worldmap",
		Subsystem: "dataset",
		Name:      "loads_total",
		Help:      "Dataset load attempts by outcome",
	}, []string{"result"})

	rendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worldmap",
		Subsystem: "render",
		Name:      "renders_total",
		Help:      "Map renders by output format",
	}, []string{"format"})

	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "worldmap",
		Subsystem: "render",
		Name:      "paint_duration_seconds",
		Help:      "Time spent painting the scene",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.025, 0.05, 0.1},
	}, []string{"format"})

	renderCulled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worldmap",
		Subsystem: "render",
		Name:      "culled_graphics_total",
		Help:      "Graphics skipped because they were off screen",
	}, []string{"format"})
)

// SetAtlas publishes the loaded atlas size.
func SetAtlas(st worldmap.AtlasStats) {
	AtlasCountries.Set(float64(st.Countries))
	AtlasSegments.Set(float64(st.Segments))
	AtlasPoints.Set(float64(st.Points))
}

// ObserveDatasetLoad counts a load attempt.
func ObserveDatasetLoad(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	DatasetLoads.WithLabelValues(result).Inc()
}

// ObserveRender records one paint pass.
func ObserveRender(format string, st worldmap.PaintStats) {
	rendersTotal.WithLabelValues(format).Inc()
	renderDuration.WithLabelValues(format).Observe(st.Duration.Seconds())
	renderCulled.WithLabelValues(format).Add(float64(st.Culled))
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		code := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		}
		status := strconv.Itoa(code)
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler serves the Prometheus exposition format.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
