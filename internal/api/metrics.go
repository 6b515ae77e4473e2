package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filterVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cerealdex_filter_verdicts_total",
		Help: "Filter requests by outcome",
	}, []string{"verdict"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cerealdex_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

const (
	verdictMatched    = "matched"
	verdictEmpty      = "empty"
	verdictInfeasible = "infeasible"
	verdictRejected   = "rejected"
	verdictError      = "error"
)

func observeRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
