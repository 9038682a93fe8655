package api

import (
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/camkeep/camkeep/internal/logging"
)

// HTTPLoggingMiddleware logs every request, picking the level from the
// response status so error responses surface at warn/error.
func HTTPLoggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	logger := logging.GetLogger("http")

	attrs := []slog.Attr{
		slog.String("method", ctx.Method()),
		slog.String("path", ctx.URL().Path),
		slog.String("remote_addr", ctx.RemoteAddr()),
	}
	if q := ctx.URL().RawQuery; q != "" {
		attrs = append(attrs, slog.String("query", q))
	}
	if ua := ctx.Header("User-Agent"); ua != "" {
		attrs = append(attrs, slog.String("user_agent", ua))
	}

	next(ctx)

	status := ctx.Status()
	attrs = append(attrs,
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
	)

	const msg = "HTTP request completed"
	switch {
	case ctx.Method() == "OPTIONS":
		// Preflight noise
		logger.LogAttrs(ctx.Context(), slog.LevelDebug, msg, attrs...)
	case status >= 500:
		logger.LogAttrs(ctx.Context(), slog.LevelError, msg, attrs...)
	case status >= 400:
		logger.LogAttrs(ctx.Context(), slog.LevelWarn, msg, attrs...)
	default:
		logger.LogAttrs(ctx.Context(), slog.LevelInfo, msg, attrs...)
	}
}
