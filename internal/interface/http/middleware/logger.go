package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/readify/pkg/tracing"
)

// HeaderRequestID 请求ID响应头
const HeaderRequestID = "X-Request-ID"

// slowRequest 超过该耗时记录Warn
const slowRequest = 3 * time.Second

// RequestLogger 请求日志中间件
// 记录方法、路由、状态码、耗时、客户端IP;不记录请求体与Token
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", fields...)
		case latency > slowRequest:
			log.Warn("slow request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// GetRequestID 当前请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
