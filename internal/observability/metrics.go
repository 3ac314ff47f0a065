package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_http_requests_total",
			Help: "Total number of HTTP requests processed by the messaging service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messaging_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "messaging_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	messagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_messages_sent_total",
			Help: "Total number of messages appended to the store.",
		},
	)
	feedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_feed_events_total",
			Help: "Total number of feed events by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		messagesSentTotal,
		feedEventsTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latencies per route
func HTTPMetricsMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)

		route := string(c.FullPath())
		if route == "" {
			route = string(c.Path())
		}
		status := c.Response.StatusCode()

		httpRequestsTotal.WithLabelValues(string(c.Method()), route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ServeMetrics starts the Prometheus endpoint on its own port
func ServeMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", port)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics server stopped: %v", err)
		}
	}()
}

// IncWSActive increments the active websocket connection gauge
func IncWSActive() { wsActiveConnections.Inc() }

// DecWSActive decrements the active websocket connection gauge
func DecWSActive() { wsActiveConnections.Dec() }

// IncMessageSent increments the sent-message counter
func IncMessageSent() { messagesSentTotal.Inc() }

// IncFeedDelivered counts an event delivered to a subscriber
func IncFeedDelivered() { feedEventsTotal.WithLabelValues("delivered").Inc() }

// IncFeedDropped counts an event dropped because a subscriber was slow
func IncFeedDropped() { feedEventsTotal.WithLabelValues("dropped").Inc() }
