// Package trend fits linear trend lines to a series.
package trend

import (
	"fmt"

	"github.com/sartorproj/goseasonal/timeseries"
)

// Method names a trend fitting strategy.
type Method string

const (
	MethodLeastSquares Method = "least-squares"
	MethodSemiAverage  Method = "semi-average"
)

// Model is a fitted linear trend, trend(t) = Intercept + Slope*t.
type Model struct {
	Intercept float64
	Slope     float64
	Method    Method
}

// At evaluates the trend at time index t. Any real t is accepted, including
// indices past the end of the fitted series.
func (m Model) At(t float64) float64 {
	return m.Intercept + m.Slope*t
}

// String renders the trend equation.
func (m Model) String() string {
	return fmt.Sprintf("T(t) = %.4f + %.4f*t", m.Intercept, m.Slope)
}

// Fitter fits a trend model to a series.
type Fitter interface {
	Fit(series *timeseries.Series) (Model, error)
}

// FitterFunc adapts a function to the Fitter interface.
type FitterFunc func(series *timeseries.Series) (Model, error)

// Fit calls f(series).
func (f FitterFunc) Fit(series *timeseries.Series) (Model, error) {
	return f(series)
}

// ForMethod returns the fitter for the named method. An empty method selects
// least squares.
func ForMethod(method Method) (Fitter, error) {
	switch method {
	case MethodLeastSquares, "":
		return FitterFunc(LeastSquares), nil
	case MethodSemiAverage:
		return FitterFunc(SemiAverage), nil
	default:
		return nil, fmt.Errorf("unknown trend method %q", method)
	}
}

// LeastSquares fits the ordinary least-squares line over all observations,
// using the observation index as t.
func LeastSquares(series *timeseries.Series) (Model, error) {
	n := series.Len()
	if n < 2 {
		return Model{}, fmt.Errorf("%w: least squares needs 2 points, got %d", timeseries.ErrDegenerateInput, n)
	}

	var sumT, sumY, sumT2, sumTY float64
	for i := 0; i < n; i++ {
		o := series.At(i)
		t := float64(o.Index)
		sumT += t
		sumY += o.Value
		sumT2 += t * t
		sumTY += t * o.Value
	}

	nf := float64(n)
	denom := nf*sumT2 - sumT*sumT
	if denom == 0 {
		return Model{}, fmt.Errorf("%w: time indices are collinear", timeseries.ErrDegenerateInput)
	}

	slope := (nf*sumTY - sumT*sumY) / denom
	return Model{
		Intercept: (sumY - slope*sumT) / nf,
		Slope:     slope,
		Method:    MethodLeastSquares,
	}, nil
}

// SemiAverage fits the line through the mean points of the two halves of the
// series. With an odd number of observations the middle one is left out.
func SemiAverage(series *timeseries.Series) (Model, error) {
	n := series.Len()
	half := n / 2
	if half < 1 {
		return Model{}, fmt.Errorf("%w: semi-average needs 2 points, got %d", timeseries.ErrDegenerateInput, n)
	}

	t1, y1 := halfMean(series, 0, half)
	t2, y2 := halfMean(series, n-half, n)
	if t2 == t1 {
		return Model{}, fmt.Errorf("%w: halves share the same mean index", timeseries.ErrDegenerateInput)
	}

	slope := (y2 - y1) / (t2 - t1)
	return Model{
		Intercept: y1 - slope*t1,
		Slope:     slope,
		Method:    MethodSemiAverage,
	}, nil
}

func halfMean(series *timeseries.Series, start, end int) (meanT, meanY float64) {
	for i := start; i < end; i++ {
		o := series.At(i)
		meanT += float64(o.Index)
		meanY += o.Value
	}
	count := float64(end - start)
	return meanT / count, meanY / count
}
