package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one access-log line per request in the same [KN] style as
// the pipeline's LogEvent, so both interleave cleanly in one stream.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		log.Printf("[KN][HTTP] %s %s -> %d rid=%s %.3fms ip=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			GetRequestID(c),
			float64(latency.Microseconds())/1000.0,
			c.ClientIP(),
		)
	}
}
