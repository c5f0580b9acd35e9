package httpx

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/notify_gateway/internal/ports"
)

// skipLogging — служебные пути, которые опрашиваются слишком часто, чтобы их логировать.
func skipLogging(path string) bool {
	switch {
	case path == "/metrics", path == "/ping":
		return true
	case strings.HasPrefix(path, "/actuator/"):
		return true
	}
	return false
}

// RequestLogger — middleware для логирования HTTP-запросов.
// request_id и trace_id логгер берёт из контекста запроса.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if skipLogging(path) {
			return
		}

		log.Infof(
			c.Request.Context(),
			"request method=%s path=%s status=%d ip=%s duration=%s size=%d",
			c.Request.Method,
			path,
			c.Writer.Status(),
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
