package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopswift/storefront/awsclient"
)

// MetricsMiddleware records request count, latency and error classes. The
// route template is used as the path dimension to keep cardinality bounded.
func MetricsMiddleware(recorder awsclient.MetricsRecorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if recorder == nil || !recorder.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		dimensions := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Path":    path,
			"Status":  statusCodeToRange(status),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = recorder.RecordCount(ctx, awsclient.MetricHTTPRequests, dimensions)
			_ = recorder.RecordLatency(ctx, awsclient.MetricHTTPLatency, duration, dimensions)

			switch {
			case status >= 500:
				_ = recorder.RecordCount(ctx, awsclient.MetricHTTPErrors, dimensions)
				_ = recorder.RecordCount(ctx, awsclient.MetricHTTP5xx, dimensions)
			case status >= 400:
				_ = recorder.RecordCount(ctx, awsclient.MetricHTTPErrors, dimensions)
				_ = recorder.RecordCount(ctx, awsclient.MetricHTTP4xx, dimensions)
			}
		}()
	}
}

func statusCodeToRange(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
