package middlewares

import (
	"log/slog"
	"time"

	"github.com/geocoder89/campusevents/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CtxRequestID    = "request_id"
	requestIDHeader = "X-Request-Id"
)

// RequestID reuses the caller's X-Request-Id or mints one, and puts it on the
// gin context, the response and the request context used by slog.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		ctx.Writer.Header().Set(requestIDHeader, id)
		ctx.Set(CtxRequestID, id)
		ctx.Request = ctx.Request.WithContext(observability.ContextWithRequestID(ctx.Request.Context(), id))

		ctx.Next()
	}
}

// RequestLogger writes one record per request. Server errors log at error
// level and client errors at warn, so 404 noise stays out of the error stream.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = ctx.Request.URL.Path
		}
		status := ctx.Writer.Status()

		attrs := []any{
			"method", ctx.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes", ctx.Writer.Size(),
		}
		if q := ctx.Request.URL.RawQuery; q != "" {
			attrs = append(attrs, "query", q)
		}
		if len(ctx.Errors) > 0 {
			attrs = append(attrs, "errors", ctx.Errors.String())
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		log.Log(ctx.Request.Context(), level, "http_request", attrs...)
	}
}

// abortWithError matches the handlers' error envelope.
func abortWithError(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   message,
			"requestId": ctx.GetString(CtxRequestID),
		},
	})
}
