// Package smoothing computes period-length moving averages over a series.
package smoothing

import (
	"fmt"
	"math"

	"github.com/sartorproj/goseasonal/timeseries"
)

// Alignment selects which pair of simple averages is combined into the
// centered average at an index.
type Alignment string

const (
	// Forward averages the simple averages at i and i+1.
	Forward Alignment = "forward"
	// Backward averages the simple averages at i-1 and i, which is the
	// textbook 2xP moving average centered on i.
	Backward Alignment = "backward"
)

// ParseAlignment parses an alignment name. Empty selects Forward.
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(s) {
	case Forward, "":
		return Forward, nil
	case Backward:
		return Backward, nil
	default:
		return "", fmt.Errorf("unknown alignment %q", s)
	}
}

// Point holds the moving averages computed at one observation.
// Averages that are not defined at the index are NaN.
type Point struct {
	Index    int
	Period   timeseries.Period
	Value    float64
	Simple   float64
	Centered float64
}

// HasSimple reports whether the simple average is defined.
func (p Point) HasSimple() bool {
	return !math.IsNaN(p.Simple)
}

// HasCentered reports whether the centered average is defined.
func (p Point) HasCentered() bool {
	return !math.IsNaN(p.Centered)
}

// Smooth computes simple and forward-aligned centered moving averages of
// width period. Period must be even.
func Smooth(series *timeseries.Series, period int) ([]Point, error) {
	return SmoothAligned(series, period, Forward)
}

// SmoothAligned computes simple and centered moving averages of width period
// with the given alignment.
//
// The simple average at index i covers observations i-period/2+1 through
// i+period/2 and is only defined when that window lies inside the series.
// The centered average is defined where both simple averages it combines
// exist. Undefined averages are NaN.
func SmoothAligned(series *timeseries.Series, period int, alignment Alignment) ([]Point, error) {
	if period < 2 || period%2 != 0 {
		return nil, fmt.Errorf("%w: moving average width must be even and >= 2, got %d", timeseries.ErrInvalidPeriod, period)
	}
	if alignment != Forward && alignment != Backward {
		return nil, fmt.Errorf("unknown alignment %q", alignment)
	}

	n := series.Len()
	half := period / 2
	points := make([]Point, n)
	for i := range points {
		o := series.At(i)
		points[i] = Point{
			Index:    o.Index,
			Period:   o.Period,
			Value:    o.Value,
			Simple:   math.NaN(),
			Centered: math.NaN(),
		}
	}

	// Running window sum over positions [i-half+1, i+half].
	if n >= period {
		sum := 0.0
		for j := 0; j < period; j++ {
			sum += series.At(j).Value
		}
		points[half-1].Simple = sum / float64(period)
		for i := half; i+half < n; i++ {
			sum += series.At(i+half).Value - series.At(i-half).Value
			points[i].Simple = sum / float64(period)
		}
	}

	for i := range points {
		j := i + 1
		if alignment == Backward {
			j = i - 1
		}
		if j < 0 || j >= n {
			continue
		}
		if points[i].HasSimple() && points[j].HasSimple() {
			points[i].Centered = (points[i].Simple + points[j].Simple) / 2
		}
	}

	return points, nil
}

// Centered returns the points whose centered average is defined.
func Centered(points []Point) []Point {
	result := make([]Point, 0, len(points))
	for _, p := range points {
		if p.HasCentered() {
			result = append(result, p)
		}
	}
	return result
}
