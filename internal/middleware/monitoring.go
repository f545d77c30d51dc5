package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder 记录 HTTP 请求指标，由 monitoring.Metrics 实现
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// HTTPMetrics HTTP 指标中间件，按路由模板而不是原始路径聚合
func HTTPMetrics(recorder HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if recorder != nil {
			recorder.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
		}
	}
}
