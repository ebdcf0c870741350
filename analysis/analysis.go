// Package analysis runs the complete decomposition pipeline over a series.
package analysis

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sartorproj/goseasonal/accuracy"
	"github.com/sartorproj/goseasonal/decomposition"
	"github.com/sartorproj/goseasonal/forecast"
	"github.com/sartorproj/goseasonal/seasonal"
	"github.com/sartorproj/goseasonal/smoothing"
	"github.com/sartorproj/goseasonal/timeseries"
	"github.com/sartorproj/goseasonal/trend"
)

// Options configures a pipeline run.
type Options struct {
	Mode      seasonal.Mode       // Component combination rule
	Period    int                 // Moving average width
	Trend     trend.Method        // Trend fitting strategy
	Alignment smoothing.Alignment // Centered average alignment
	Horizon   int                 // Number of future periods to forecast (0 = none)
	Logger    zerolog.Logger      // Stage logging; zero value logs nothing
}

// DefaultOptions returns the options of the classical quarterly analysis:
// multiplicative model, least-squares trend and a one-year forecast.
func DefaultOptions() Options {
	return Options{
		Mode:      seasonal.Multiplicative,
		Period:    timeseries.PeriodLength,
		Trend:     trend.MethodLeastSquares,
		Alignment: smoothing.Forward,
		Horizon:   timeseries.PeriodLength,
		Logger:    zerolog.Nop(),
	}
}

// Result holds the output of every stage, built once per run.
type Result struct {
	Series    *timeseries.Series
	Mode      seasonal.Mode
	Trend     trend.Model
	Smoothed  []smoothing.Point
	Profile   seasonal.Profile
	Points    []decomposition.Point
	Accuracy  accuracy.Report
	Forecasts []forecast.Point
}

// Run fits the trend, smooths the series, estimates the seasonal profile,
// decomposes every observation, evaluates the fit and forecasts the requested
// horizon. It either returns a complete result or the first stage error.
func Run(series *timeseries.Series, opts Options) (*Result, error) {
	start := time.Now()
	log := opts.Logger.With().Str("series", series.Name).Str("mode", string(opts.Mode)).Logger()

	if opts.Period != timeseries.PeriodLength {
		return nil, fmt.Errorf("%w: period must be %d, got %d", timeseries.ErrInvalidPeriod, timeseries.PeriodLength, opts.Period)
	}
	if opts.Horizon < 0 {
		return nil, fmt.Errorf("horizon must not be negative, got %d", opts.Horizon)
	}
	if opts.Alignment == "" {
		opts.Alignment = smoothing.Forward
	}
	if opts.Mode == seasonal.Multiplicative && !series.Positive() {
		return nil, fmt.Errorf("%w: multiplicative model requires strictly positive values", timeseries.ErrModelDomain)
	}

	fitter, err := trend.ForMethod(opts.Trend)
	if err != nil {
		return nil, err
	}
	model, err := fitter.Fit(series)
	if err != nil {
		return nil, fmt.Errorf("fit trend: %w", err)
	}
	log.Debug().Str("method", string(model.Method)).Float64("intercept", model.Intercept).Float64("slope", model.Slope).Msg("trend fitted")

	smoothed, err := smoothing.SmoothAligned(series, opts.Period, opts.Alignment)
	if err != nil {
		return nil, fmt.Errorf("smooth: %w", err)
	}
	log.Debug().Int("centered", len(smoothing.Centered(smoothed))).Msg("moving averages computed")

	profile, err := seasonal.Estimate(series, smoothed, opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("estimate seasonality: %w", err)
	}
	log.Debug().Float64("correction", profile.Correction).Msg("seasonal profile estimated")

	points, err := decomposition.Decompose(series, model, profile, opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("decompose: %w", err)
	}

	report, err := accuracy.Evaluate(points)
	if err != nil {
		return nil, fmt.Errorf("evaluate accuracy: %w", err)
	}

	var forecasts []forecast.Point
	if opts.Horizon > 0 {
		targets, err := forecast.Horizon(series, opts.Horizon)
		if err != nil {
			return nil, fmt.Errorf("forecast horizon: %w", err)
		}
		forecasts, err = forecast.Predict(model, profile, opts.Mode, targets)
		if err != nil {
			return nil, fmt.Errorf("forecast: %w", err)
		}
	}

	result := &Result{
		Series:    series,
		Mode:      opts.Mode,
		Trend:     model,
		Smoothed:  smoothed,
		Profile:   profile,
		Points:    points,
		Accuracy:  report,
		Forecasts: forecasts,
	}
	log.Info().
		Int("observations", series.Len()).
		Float64("rmse", report.RMSE).
		Int("forecasts", len(forecasts)).
		Dur("elapsed", time.Since(start)).
		Msg("analysis complete")

	return result, nil
}
