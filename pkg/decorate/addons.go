package decorate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vk/composekit/internal/ctxlog"
)

// Logging returns an add-on that logs entry and exit of the wrapped
// behavior at debug level, using the context logger.
func Logging[Req, Res any](name string) AddOn[Req, Res] {
	return func(inner Behavior[Req, Res]) Behavior[Req, Res] {
		return func(ctx context.Context, req Req) (Res, error) {
			logger := ctxlog.FromContext(ctx).With("behavior", name)
			logger.Debug("Behavior starting.")
			res, err := inner(ctx, req)
			if err != nil {
				logger.Debug("Behavior failed.", "error", err)
			} else {
				logger.Debug("Behavior finished.")
			}
			return res, err
		}
	}
}

// Timing returns an add-on that logs the wrapped behavior's wall-clock
// duration at debug level.
func Timing[Req, Res any](name string) AddOn[Req, Res] {
	return func(inner Behavior[Req, Res]) Behavior[Req, Res] {
		return func(ctx context.Context, req Req) (Res, error) {
			start := time.Now()
			res, err := inner(ctx, req)
			ctxlog.FromContext(ctx).Debug("Behavior timed.", "behavior", name, "duration", time.Since(start))
			return res, err
		}
	}
}

// Recovery returns an add-on that converts a panic in the wrapped behavior
// into an error, so one misbehaving behavior cannot take down the caller.
func Recovery[Req, Res any]() AddOn[Req, Res] {
	return func(inner Behavior[Req, Res]) Behavior[Req, Res] {
		return func(ctx context.Context, req Req) (res Res, err error) {
			defer func() {
				if r := recover(); r != nil {
					var zero Res
					res = zero
					err = fmt.Errorf("behavior panicked: %v", r)
				}
			}()
			return inner(ctx, req)
		}
	}
}

// Memoize returns an add-on that caches results by request value. On a
// cache hit the inner behavior is not invoked, the documented exception to
// the wrap contract. Errors are never cached.
//
// The cache is safe for concurrent use; concurrent misses for the same
// request may each invoke the inner behavior once.
func Memoize[Req comparable, Res any]() AddOn[Req, Res] {
	var cache sync.Map
	return func(inner Behavior[Req, Res]) Behavior[Req, Res] {
		return func(ctx context.Context, req Req) (Res, error) {
			if hit, ok := cache.Load(req); ok {
				return hit.(Res), nil
			}
			res, err := inner(ctx, req)
			if err != nil {
				var zero Res
				return zero, err
			}
			cache.Store(req, res)
			return res, nil
		}
	}
}
