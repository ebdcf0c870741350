// Package accuracy aggregates fit errors of a decomposition.
package accuracy

import (
	"fmt"
	"math"

	"github.com/sartorproj/goseasonal/decomposition"
	"github.com/sartorproj/goseasonal/timeseries"
)

// Report holds aggregate fit-error metrics.
type Report struct {
	N    int     // Number of points aggregated
	MAE  float64 // Mean absolute error
	MSE  float64 // Mean squared error
	RMSE float64 // Root mean squared error
	MAPE float64 // Mean absolute percentage error over non-zero actuals
}

// Evaluate computes the fit error of observed against estimated values over
// every decomposed point.
func Evaluate(points []decomposition.Point) (Report, error) {
	actual := make([]float64, len(points))
	for i, p := range points {
		actual[i] = p.Value
	}
	return Compare(actual, decomposition.Estimated(points))
}

// Compare computes error metrics between actual and predicted values of the
// same length, e.g. a hold-out period against its forecasts.
func Compare(actual, predicted []float64) (Report, error) {
	if len(actual) != len(predicted) {
		return Report{}, fmt.Errorf("length mismatch: %d actual vs %d predicted", len(actual), len(predicted))
	}
	n := len(actual)
	if n == 0 {
		return Report{}, fmt.Errorf("%w: no points to evaluate", timeseries.ErrEmptyInput)
	}

	var sumAbs, sumSq, sumPct float64
	pctCount := 0
	for i := 0; i < n; i++ {
		d := actual[i] - predicted[i]
		sumAbs += math.Abs(d)
		sumSq += d * d
		if actual[i] != 0 {
			sumPct += math.Abs(d) / math.Abs(actual[i]) * 100
			pctCount++
		}
	}

	report := Report{
		N:   n,
		MAE: sumAbs / float64(n),
		MSE: sumSq / float64(n),
	}
	report.RMSE = math.Sqrt(report.MSE)
	if pctCount > 0 {
		report.MAPE = sumPct / float64(pctCount)
	}
	return report, nil
}
