package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sartorproj/goseasonal/internal/metrics"
)

const errorKey = "goseasonal.error"

// requestLogging logs every request with its status and latency. Server
// errors are logged at error level with the underlying cause.
func requestLogging(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			event := log.Info()
			if status >= http.StatusInternalServerError {
				event = log.Error()
				if cause, ok := c.Get(errorKey).(error); ok {
					event = event.Err(cause)
				}
			}
			event.
				Str("method", req.Method).
				Str("route", c.Path()).
				Str("uri", req.RequestURI).
				Int("status", status).
				Int64("bytes", c.Response().Size).
				Dur("latency", time.Since(start)).
				Msg("http request")
			return nil
		}
	}
}

// recoverPanics turns handler panics into 500 responses.
func recoverPanics(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					log.Error().Err(perr).Bytes("stack", debug.Stack()).Msg("panic recovered")
					err = dataResponse(c, http.StatusInternalServerError, "Something went wrong")
				}
			}()
			return next(c)
		}
	}
}

// recordMetrics records request counts and latency by route template.
func recordMetrics(rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			rec.RecordRequest(route, c.Request().Method, c.Response().Status, time.Since(start))
			return nil
		}
	}
}
