package httpx

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout — ограничивает время обработки запроса через контекст.
// Обработчик сам решает, что ответить, когда контекст истёк.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
