// Package metrics exposes Prometheus collectors for HTTP traffic and directory operations.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Claim outcomes
const (
	ClaimSucceeded      = "succeeded"
	ClaimAlreadyClaimed = "already_claimed"
	ClaimNameMismatch   = "name_mismatch"
	ClaimNotFound       = "not_found"
	ClaimFailed         = "error"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "headta",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests broken down by route, method and status class.",
	}, []string{"route", "method", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "headta",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for HTTP requests.",
		Buckets: []float64{
			0.001, 0.005, 0.01, 0.025,
			0.05, 0.1, 0.25, 0.5,
			1, 2.5, 5,
		},
	}, []string{"route", "method"})

	claimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "headta",
		Subsystem: "claims",
		Name:      "total",
		Help:      "Profile claim attempts broken down by path (self or admin) and outcome.",
	}, []string{"path", "outcome"})

	assignmentsTransferred = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "headta",
		Subsystem: "claims",
		Name:      "assignments_transferred_total",
		Help:      "TA assignments moved from placeholder profiles to claiming users.",
	})

	treeBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "headta",
		Subsystem: "invitation_tree",
		Name:      "builds_total",
		Help:      "Invitation tree builds broken down by result.",
	}, []string{"result"})

	treeNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "headta",
		Subsystem: "invitation_tree",
		Name:      "nodes",
		Help:      "Number of identities materialized per invitation forest build.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	invitationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "headta",
		Subsystem: "invitations",
		Name:      "sent_total",
		Help:      "Invitations created broken down by role.",
	}, []string{"role"})
)

// RecordClaim counts a claim attempt
func RecordClaim(path, outcome string, transferred int64) {
	claimsTotal.WithLabelValues(path, outcome).Inc()
	if transferred > 0 {
		assignmentsTransferred.Add(float64(transferred))
	}
}

// RecordTreeBuild counts a forest build and its size
func RecordTreeBuild(err error, nodes int) {
	if err != nil {
		treeBuilds.WithLabelValues("error").Inc()
		return
	}
	treeBuilds.WithLabelValues("ok").Inc()
	treeNodes.Observe(float64(nodes))
}

// RecordInvitation counts a created invitation
func RecordInvitation(role string) {
	invitationsSent.WithLabelValues(role).Inc()
}

// GinMiddleware records request counts and latency keyed by the matched route template
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, statusClass(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return strconv.Itoa(status)
	}
	return strconv.Itoa(status/100) + "xx"
}
