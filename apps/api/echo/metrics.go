package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trezcool/protimer/core"
)

// collectors are registered once, on the default registry
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "protimer",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "protimer",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latencies, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "protimer",
		Name:      "study_sessions_started_total",
		Help:      "Number of study sessions started.",
	})

	sessionsStopped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "protimer",
		Name:      "study_sessions_stopped_total",
		Help:      "Number of study sessions stopped.",
	})

	groupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "protimer",
		Name:      "study_groups_created_total",
		Help:      "Number of study groups created.",
	})
)

func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if err != nil && !ctx.Response().Committed {
				status = errorStatus(err)
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			httpRequests.WithLabelValues(ctx.Request().Method, route, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(ctx.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// errorStatus guesses the status the error handler will respond with.
func errorStatus(err error) int {
	cause := errors.Cause(err)
	if code, ok := domainStatus(cause); ok {
		return code
	}
	switch e := cause.(type) {
	case *echo.HTTPError:
		if e == middleware.ErrJWTMissing {
			return http.StatusUnauthorized
		}
		return e.Code
	case validator.ValidationErrors, *core.ValidationError:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
