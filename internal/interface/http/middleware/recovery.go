package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/readify/pkg/errors"
	"github.com/xiebiao/readify/pkg/response"
)

// Recovery 捕获panic,记录堆栈并返回统一的500响应
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered",
					zap.String("request_id", GetRequestID(c)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("panic", fmt.Sprint(rec)),
					zap.ByteString("stack", debug.Stack()),
				)
				response.Error(c, apperrors.ErrInternal)
				c.Abort()
			}
		}()
		c.Next()
	}
}
