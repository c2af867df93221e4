package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey is the gin context key holding the request correlation id.
const requestIDKey = "request_id"

// RequestID assigns a correlation id to every request, honoring an
// incoming X-Request-ID header, and echoes it back in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// timedWriter stamps the X-Request-Duration header just before the
// response headers are flushed, when the handler's work is done.
type timedWriter struct {
	gin.ResponseWriter
	start time.Time
}

func (w *timedWriter) stampDuration() {
	if !w.Written() {
		duration := float64(time.Since(w.start).Microseconds()) / 1000.0
		w.Header().Set("X-Request-Duration", fmt.Sprintf("%.2fms", duration))
	}
}

func (w *timedWriter) WriteHeader(status int) {
	w.stampDuration()
	w.ResponseWriter.WriteHeader(status)
}

func (w *timedWriter) Write(b []byte) (int, error) {
	w.stampDuration()
	return w.ResponseWriter.Write(b)
}

// RequestLogger logs each request with its duration and correlation id,
// and reports the duration back in an X-Request-Duration header.
// Health checks are skipped to keep probe noise out of the logs.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Writer = &timedWriter{ResponseWriter: c.Writer, start: start}
		log.Printf("Incoming request %s %s - ID: %s", c.Request.Method, c.Request.URL.Path, requestID(c))

		c.Next()

		duration := float64(time.Since(start).Microseconds()) / 1000.0
		log.Printf("Completed %s %s - Status: %d - Duration: %.2fms - ID: %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration, requestID(c))
	}
}

// requestID returns the correlation id for the current request.
func requestID(c *gin.Context) string {
	if id := c.GetString(requestIDKey); id != "" {
		return id
	}
	return "unknown"
}
