package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/oaiiae/contacts-provider/datastores"
)

type middleware = func(huma.Context, func(huma.Context))

// loggerKey holds the request scoped [slog.Logger] in a [context.Context].
type loggerKey struct{}

func loggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

// requestLogger tags the request with an X-Request-Id, generated when the client
// sent none, stores a logger carrying it in the context and logs the request once served.
func requestLogger(parent *slog.Logger) middleware {
	return func(ctx huma.Context, next func(huma.Context)) {
		requestID := ctx.Header("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.SetHeader("X-Request-Id", requestID)

		op := ctx.Operation()
		logger := parent.With(slog.String("request_id", requestID), slog.String("op", op.OperationID))

		start := time.Now()
		next(huma.WithValue(ctx, loggerKey{}, logger))

		logger.LogAttrs(ctx.Context(), slog.LevelInfo, "request served",
			slog.String("method", op.Method),
			slog.String("path", op.Path),
			slog.String("proto", ctx.Version().Proto),
			slog.String("from", ctx.RemoteAddr()),
			slog.String("ua", ctx.Header("User-Agent")),
			slog.Int("status", ctx.Status()),
			slog.Duration("dur", time.Since(start)),
		)
	}
}

// recoverPanics answers [http.StatusInternalServerError] when an operation panics.
func recoverPanics(fallback *slog.Logger, set *metrics.Set) middleware {
	panics := set.NewCounter("http_panics_total")
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			panics.Inc()
			loggerFrom(ctx.Context(), fallback).LogAttrs(ctx.Context(), slog.LevelError,
				"operation panicked", slog.Any("recovered", v))
			ctx.SetStatus(http.StatusInternalServerError)
		}()
		next(ctx)
	}
}

// storeErrorLogger logs errors returned by the contacts store.
// Missing contacts are warnings, anything else means the store failed.
func storeErrorLogger(fallback *slog.Logger) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		level, msg := slog.LevelError, "contacts store failed"
		if errors.Is(err, datastores.ErrObjectNotFound) {
			level, msg = slog.LevelWarn, "contact not found"
		}

		attrs := []slog.Attr{slog.Any("err", err)}
		var opErr *datastores.OpError
		if errors.As(err, &opErr) {
			attrs = append(attrs, slog.String("store_op", opErr.Op))
			if !opErr.ID.IsZero() {
				attrs = append(attrs, slog.String("contact_id", opErr.ID.String()))
			}
		}
		loggerFrom(ctx, fallback).LogAttrs(ctx, level, msg, attrs...)
	}
}

// meterRequests counts requests and observes their duration per operation and status.
func meterRequests(set *metrics.Set) middleware {
	buckets := metrics.ExponentialBuckets(1e-3, 5, 6) //nolint: mnd // 1ms to ~3s
	return func(ctx huma.Context, next func(huma.Context)) {
		op, start := ctx.Operation(), time.Now()
		next(ctx)

		labels := fmt.Sprintf(`{method=%q,path=%q,status="%d"}`, op.Method, op.Path, ctx.Status())
		set.GetOrCreateCounter("http_requests_total" + labels).Inc()
		set.GetOrCreatePrometheusHistogramExt("http_request_duration_seconds"+labels, buckets).UpdateDuration(start)
	}
}

// limitRequests answers [http.StatusTooManyRequests] once limiter runs out of tokens.
func limitRequests(limiter *rate.Limiter, set *metrics.Set) middleware {
	rejected := set.NewCounter("http_requests_rejected_total")
	return func(ctx huma.Context, next func(huma.Context)) {
		if !limiter.Allow() {
			rejected.Inc()
			ctx.SetHeader("Retry-After", "1")
			ctx.SetStatus(http.StatusTooManyRequests)
			return
		}
		next(ctx)
	}
}
