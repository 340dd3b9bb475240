// Package middleware holds the gin handlers that run around every route:
// correlation ids, tracing, access logs, panic recovery and authentication.
package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"ctchen222/game-store/internal/api/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const RequestIDHeader = "X-Request-ID"

var tracer = otel.Tracer("server")

// RequestID tags the request with the incoming X-Request-ID or a fresh uuid.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(response.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Tracing starts a server span per request, continuing any propagated trace.
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", c.Request.Method, route(c)),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route(c)),
				attribute.String("request.id", c.GetString(response.RequestIDKey)),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}

// Logger writes one access log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		slog.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", c.GetString(response.RequestIDKey),
		)
	}
}

// ErrorBoundary turns a panic into the generic 500 body. Internal details never
// reach the client.
func ErrorBoundary() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				traceID := response.TraceID(c)
				slog.ErrorContext(c.Request.Context(), "panic recovered",
					"panic", p,
					"trace_id", traceID,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				if !c.Writer.Written() {
					response.InternalError(c, traceID)
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}
