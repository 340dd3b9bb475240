package response

import (
	"log/slog"
	"net/http"

	"ctchen222/game-store/internal/apperror"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDKey is the gin context key holding the request correlation id.
const RequestIDKey = "request_id"

const internalMessage = "internal server error"

// Fail writes err to the client. Domain errors keep their message and map to
// their status; anything else is logged and answered with a generic 500 that
// carries the trace id for support lookups.
func Fail(c *gin.Context, err error) {
	if appErr, ok := apperror.FromError(err); ok && appErr.Kind != apperror.Unknown {
		ErrorResponse(c, appErr.StatusCode(), appErr.Message)
		return
	}

	traceID := TraceID(c)
	slog.ErrorContext(c.Request.Context(), "unhandled error",
		"error", err,
		"trace_id", traceID,
		"method", c.Request.Method,
		"path", c.FullPath(),
	)
	InternalError(c, traceID)
}

// InternalError writes the generic 500 body.
func InternalError(c *gin.Context, traceID string) {
	c.JSON(
		http.StatusInternalServerError,
		NewResponse(
			false,
			http.StatusInternalServerError,
			map[string]any{
				"message":  internalMessage,
				"trace_id": traceID,
			},
		))
}

// TraceID prefers the active span's trace id and falls back to the request id.
func TraceID(c *gin.Context) string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return c.GetString(RequestIDKey)
}
