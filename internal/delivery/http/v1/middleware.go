package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDCtxKey = "request_id"
)

// HandleRequestLog tags the request with an ID (reusing the caller's
// X-Request-ID when present) and writes one access log line per request.
func (h *handlerImpl) HandleRequestLog(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)

	c.Next()

	status := c.Writer.Status()
	var event *zerolog.Event
	switch {
	case status >= 500:
		event = h.logger.Error()
	case status >= 400:
		event = h.logger.Warn()
	default:
		event = h.logger.Info()
	}

	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	event.
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("route", route).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Msg("handled request")
}
