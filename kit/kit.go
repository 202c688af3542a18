// Package kit provides transport plumbing for expertry services: the
// Endpoint and Middleware types, middleware composition, and adapters
// that expose endpoints as MCP tools.
package kit

import (
	"context"
	"log/slog"
	"time"
)

// Endpoint is a transport-agnostic operation: decode happens before it,
// encode after it. All expertry operations are served through endpoints.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so that the first argument is the outermost.
// Chain(a, b, c)(e) executes a → b → c → e.
func Chain(mw ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mw) - 1; i >= 0; i-- {
			next = mw[i](next)
		}
		return next
	}
}

// Logging returns a Middleware that logs each call with its duration.
// Failures log at error level, successes at debug.
func Logging(logger *slog.Logger, name string) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			if err != nil {
				logger.Error("endpoint failed", "endpoint", name, "duration", time.Since(start), "error", err)
				return resp, err
			}
			logger.Debug("endpoint ok", "endpoint", name, "duration", time.Since(start))
			return resp, nil
		}
	}
}
