// Package metrics 定义 Prometheus 指标，并通过 /metrics 暴露
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LifecycleTransitions 请求状态操作结果，operation: claim/accept/reject/set_status
	LifecycleTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carematch_lifecycle_transitions_total",
		Help: "Lifecycle operations on help requests by operation and outcome",
	}, []string{"operation", "outcome"})

	// HTTPRequests HTTP 请求计数，route 取路由模板避免高基数
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carematch_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// EventPublishFailures 事件总线发布失败次数
	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carematch_event_publish_failures_total",
		Help: "Lifecycle events that could not be published",
	})

	// WebSocketConnections 当前 WebSocket 连接数
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "carematch_websocket_connections",
		Help: "Active WebSocket connections",
	})
)

// GinMetrics 记录每个请求的方法、路由和状态码
func GinMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
