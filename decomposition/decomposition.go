// Package decomposition splits a series into trend, seasonal and residual components.
package decomposition

import (
	"fmt"

	"github.com/sartorproj/goseasonal/seasonal"
	"github.com/sartorproj/goseasonal/timeseries"
	"github.com/sartorproj/goseasonal/trend"
)

// Point is the decomposition of one observation.
type Point struct {
	timeseries.Observation
	Trend          float64 // Trend value at the observation index
	Seasonal       float64 // Adjusted seasonal index of the observation period
	Estimated      float64 // Trend combined with the seasonal index
	Residual       float64 // Value/Estimated or Value-Estimated
	Deseasonalized float64 // Seasonally adjusted value (CVS)
	Detrended      float64 // Value/Trend or Value-Trend
}

// FitError returns Value-Estimated.
func (p Point) FitError() float64 {
	return p.Value - p.Estimated
}

// DeviationPercent returns the fit error as a percentage of the estimate.
// In multiplicative mode this equals (Residual-1)*100.
func (p Point) DeviationPercent() float64 {
	return (p.Value - p.Estimated) / p.Estimated * 100
}

// Decompose combines a trend model and a seasonal profile into a
// per-observation decomposition of the series.
func Decompose(series *timeseries.Series, model trend.Model, profile seasonal.Profile, mode seasonal.Mode) ([]Point, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown decomposition mode %q", mode)
	}

	points := make([]Point, series.Len())
	for i := range points {
		o := series.At(i)
		t := model.At(float64(o.Index))
		s := profile.Of(o.Period)
		estimated := mode.Combine(t, s)

		if mode == seasonal.Multiplicative {
			if s <= 0 {
				return nil, fmt.Errorf("%w: seasonal index %.4f for %s", timeseries.ErrModelDomain, s, o.Period)
			}
			if estimated <= 0 {
				return nil, fmt.Errorf("%w: estimated value %.4f at t=%d", timeseries.ErrModelDomain, estimated, o.Index)
			}
		}

		points[i] = Point{
			Observation:    o,
			Trend:          t,
			Seasonal:       s,
			Estimated:      estimated,
			Residual:       mode.Remove(o.Value, estimated),
			Deseasonalized: mode.Remove(o.Value, s),
			Detrended:      mode.Remove(o.Value, t),
		}
	}
	return points, nil
}

// Estimated returns the estimated values of the points.
func Estimated(points []Point) []float64 {
	result := make([]float64, len(points))
	for i, p := range points {
		result[i] = p.Estimated
	}
	return result
}

// Deseasonalized returns the seasonally adjusted values of the points.
func Deseasonalized(points []Point) []float64 {
	result := make([]float64, len(points))
	for i, p := range points {
		result[i] = p.Deseasonalized
	}
	return result
}
