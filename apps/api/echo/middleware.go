package echoapi

import (
	"context"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/trezcool/protimer/core"
)

var contextObjectKey = "object"

// ownedObjectMiddleware loads the object identified by the `param` path parameter
// and makes sure it belongs to the context user.
// Unknown objects are reported as 404, objects of other users as 403.
func ownedObjectMiddleware(param string, get func(ctx context.Context, id int) (core.Owned, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := intParam(ctx, param)
			if err != nil {
				return err
			}
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			obj, err := get(ctx.Request().Context(), id)
			if err != nil {
				return err
			}
			if obj.OwnerID() != usr.ID {
				return errHttpForbidden
			}
			ctx.Set(contextObjectKey, obj)
			return next(ctx)
		}
	}
}

func getContextObject(ctx echo.Context) (core.Owned, error) {
	if obj, ok := ctx.Get(contextObjectKey).(core.Owned); ok {
		return obj, nil
	}
	return nil, errors.New("object not found in echo.Context")
}

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPRateLimiter(perSecond float64, burst int) *ipRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func rateLimitMiddleware(limiter *ipRateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !limiter.allow(ctx.RealIP()) {
				return errTooManyRequests
			}
			return next(ctx)
		}
	}
}
