package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HistogramBuckets covers fast API responses through slow provider round trips.
var HistogramBuckets = []float64{
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1500, 2000,
	3000, 5000, 7500, 10000, 15000, 30000, 60000,
}

// URLLabelMappingFn controls the cardinality of the "url" label; map
// parameterized routes to their template (gin FullPath) rather than the raw
// request path.
type URLLabelMappingFn func(c *gin.Context) string

type Logger interface {
	Errorf(format string, v ...interface{})
}

// Prometheus instruments a gin engine and optionally serves /metrics on a
// separate listener so scrapes stay out of the API access log.
type Prometheus struct {
	reqCnt        *prometheus.CounterVec
	reqDur        *prometheus.HistogramVec
	webhookEvents *prometheus.CounterVec

	listenAddress string
	metricsPath   string
	urlLabelFn    URLLabelMappingFn
	logger        Logger
}

type NewPrometheusOptions struct {
	Subsystem         string
	MetricsPath       string
	URLLabelMappingFn URLLabelMappingFn
	Logger            Logger
}

func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		metricsPath: options.MetricsPath,
		urlLabelFn:  options.URLLabelMappingFn,
		logger:      options.Logger,
	}
	if p.metricsPath == "" {
		p.metricsPath = "/metrics"
	}
	if p.urlLabelFn == nil {
		p.urlLabelFn = func(c *gin.Context) string { return c.Request.URL.Path }
	}

	p.reqCnt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: options.Subsystem,
		Name:      "req_total",
		Help:      "HTTP requests processed, partitioned by status code, method and url.",
	}, []string{"code", "method", "url"})
	p.reqDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: options.Subsystem,
		Name:      "req_dur_ms",
		Help:      "HTTP request latencies in milliseconds.",
		Buckets:   HistogramBuckets,
	}, []string{"code", "method", "url"})
	p.webhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: options.Subsystem,
		Name:      "webhook_events_total",
		Help:      "Inbound payment webhook deliveries, partitioned by provider and outcome.",
	}, []string{"provider", "outcome"})

	for _, c := range []prometheus.Collector{p.reqCnt, p.reqDur, p.webhookEvents} {
		if err := prometheus.Register(c); err != nil && p.logger != nil {
			p.logger.Errorf("prometheus register failed: %v", err)
		}
	}
	return p
}

// SetListenAddress makes Use serve /metrics on its own listener instead of
// the instrumented engine.
func (p *Prometheus) SetListenAddress(address string) {
	p.listenAddress = address
}

// ObserveWebhookEvent counts one inbound webhook delivery outcome.
func (p *Prometheus) ObserveWebhookEvent(provider, outcome string) {
	p.webhookEvents.WithLabelValues(provider, outcome).Inc()
}

// Use attaches the request middleware to e and exposes the metrics endpoint.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
	if p.listenAddress != "" {
		side := gin.New()
		side.GET(p.metricsPath, gin.WrapH(promhttp.Handler()))
		go func() {
			if err := side.Run(p.listenAddress); err != nil && p.logger != nil {
				p.logger.Errorf("metrics listener error: %v", err)
			}
		}()
		return
	}
	e.GET(p.metricsPath, gin.WrapH(promhttp.Handler()))
}

// HandlerFunc records request count and latency for every handled request.
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.metricsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.urlLabelFn(c)
		elapsed := float64(time.Since(start).Milliseconds())

		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
	}
}
