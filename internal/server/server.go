// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sartorproj/goseasonal/analysis"
	"github.com/sartorproj/goseasonal/internal/config"
	"github.com/sartorproj/goseasonal/internal/metrics"
	"github.com/sartorproj/goseasonal/internal/store"
	"github.com/sartorproj/goseasonal/timeseries"
)

// SeriesStore persists named series and analysis summaries.
type SeriesStore interface {
	SaveSeries(ctx context.Context, series *timeseries.Series) error
	LoadSeries(ctx context.Context, name string) (*timeseries.Series, error)
	ListSeries(ctx context.Context) ([]store.SeriesInfo, error)
	SaveAnalysis(ctx context.Context, result *analysis.Result) (int64, error)
	ListAnalyses(ctx context.Context, name string) ([]store.AnalysisRecord, error)
}

// Options configures a Server.
type Options struct {
	Config      config.ServerConfig
	Analysis    analysis.Options  // Defaults for requests that leave options unset
	Store       SeriesStore       // Optional; series routes are disabled without one
	Metrics     *metrics.Recorder // Optional; a private recorder is created when nil
	MetricsPath string            // Route serving Prometheus metrics; empty disables it
	Logger      zerolog.Logger
}

// Server wraps the echo HTTP server.
type Server struct {
	echo     *echo.Echo
	cfg      config.ServerConfig
	analysis analysis.Options
	store    SeriesStore
	metrics  *metrics.Recorder
	log      zerolog.Logger
}

// New creates a server with every route registered.
func New(opts Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	s := &Server{
		cfg:      opts.Config,
		analysis: opts.Analysis,
		store:    opts.Store,
		metrics:  opts.Metrics,
		log:      opts.Logger.With().Str("component", "http").Logger(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(requestLogging(s.log))
	e.Use(recordMetrics(s.metrics))
	e.Use(recoverPanics(s.log))

	s.registerRoutes(e)
	if opts.MetricsPath != "" {
		e.GET(opts.MetricsPath, echo.WrapHandler(s.metrics.Handler()))
	}

	s.echo = e
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.echo,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("http server stopped")
	return nil
}

// handleError renders errors returned by echo itself, such as unknown routes,
// in the API envelope.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		text := http.StatusText(he.Code)
		_ = dataResponse(c, he.Code, []ValidationError{{
			Code:    "ERR_" + strings.ToUpper(strings.ReplaceAll(text, " ", "_")),
			Message: fmt.Sprintf("%v", he.Message),
		}})
		return
	}
	_ = errorResponse(c, err)
}
