// Package forecast extrapolates a fitted decomposition beyond the observed range.
package forecast

import (
	"errors"
	"fmt"

	"github.com/sartorproj/goseasonal/seasonal"
	"github.com/sartorproj/goseasonal/timeseries"
	"github.com/sartorproj/goseasonal/trend"
)

// Target is a future time position to forecast.
type Target struct {
	Index  int
	Period timeseries.Period
	Cycle  int
}

// Label renders the target position as "2022-T1".
func (t Target) Label() string {
	return timeseries.Observation{Period: t.Period, Cycle: t.Cycle}.Label()
}

// Point is a point forecast.
type Point struct {
	Target
	Trend    float64 // Extrapolated trend at the target index
	Seasonal float64 // Adjusted seasonal index of the target period
	Value    float64 // Trend combined with the seasonal index
}

// Horizon returns the steps positions following the last observation of the
// series, labelled by the fixed period cycle.
func Horizon(series *timeseries.Series, steps int) ([]Target, error) {
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	last := series.Last()
	targets := make([]Target, steps)
	period, cycle := last.Period, last.Cycle
	for h := range targets {
		period = period.Next()
		if period == 0 {
			cycle++
		}
		targets[h] = Target{Index: last.Index + h + 1, Period: period, Cycle: cycle}
	}
	return targets, nil
}

// Predict forecasts each target by combining the trend extrapolated to the
// target index with the seasonal index of its period, using the same rule
// as the decomposition. The trend is never refitted.
//
// Targets must lie after the last observed index, labelled by the fixed
// period cycle; Horizon builds such targets. Predict does not see the series
// and cannot check this.
func Predict(model trend.Model, profile seasonal.Profile, mode seasonal.Mode, targets []Target) ([]Point, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown decomposition mode %q", mode)
	}

	points := make([]Point, len(targets))
	for i, target := range targets {
		if !target.Period.Valid() {
			return nil, fmt.Errorf("%w: target t=%d has period ordinal %d", timeseries.ErrInvalidPeriod, target.Index, int(target.Period))
		}
		t := model.At(float64(target.Index))
		s := profile.Of(target.Period)
		points[i] = Point{
			Target:   target,
			Trend:    t,
			Seasonal: s,
			Value:    mode.Combine(t, s),
		}
	}
	return points, nil
}

// Values returns the forecast values.
func Values(points []Point) []float64 {
	result := make([]float64, len(points))
	for i, p := range points {
		result[i] = p.Value
	}
	return result
}
