package accuracy

import (
	"errors"
	"math"
	"testing"

	"github.com/sartorproj/goseasonal/decomposition"
	"github.com/sartorproj/goseasonal/seasonal"
	"github.com/sartorproj/goseasonal/smoothing"
	"github.com/sartorproj/goseasonal/timeseries"
	"github.com/sartorproj/goseasonal/trend"
)

func TestCompare(t *testing.T) {
	actual := []float64{10, 20, 30, 40}
	predicted := []float64{12, 18, 33, 40}

	report, err := Compare(actual, predicted)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	// Errors: -2, 2, -3, 0
	if report.N != 4 {
		t.Errorf("Expected N=4, got %d", report.N)
	}
	if math.Abs(report.MAE-1.75) > 1e-10 {
		t.Errorf("Expected MAE 1.75, got %f", report.MAE)
	}
	if math.Abs(report.MSE-4.25) > 1e-10 {
		t.Errorf("Expected MSE 4.25, got %f", report.MSE)
	}
	if math.Abs(report.RMSE-math.Sqrt(4.25)) > 1e-10 {
		t.Errorf("Expected RMSE %f, got %f", math.Sqrt(4.25), report.RMSE)
	}
	if math.Abs(report.MAPE-10) > 1e-10 {
		t.Errorf("Expected MAPE 10, got %f", report.MAPE)
	}
}

func TestCompareSkipsZeroActualsForMAPE(t *testing.T) {
	report, err := Compare([]float64{0, 10}, []float64{1, 11})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if math.Abs(report.MAPE-10) > 1e-10 {
		t.Errorf("Expected MAPE 10, got %f", report.MAPE)
	}
	if math.Abs(report.MAE-1) > 1e-10 {
		t.Errorf("Expected MAE 1, got %f", report.MAE)
	}
}

func TestCompareErrors(t *testing.T) {
	if _, err := Compare(nil, nil); !errors.Is(err, timeseries.ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
	if _, err := Compare([]float64{1}, []float64{1, 2}); err == nil {
		t.Error("Expected error for length mismatch")
	}
}

func TestEvaluateEmpty(t *testing.T) {
	if _, err := Evaluate(nil); !errors.Is(err, timeseries.ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestEvaluateQuarterlySales(t *testing.T) {
	values := []float64{
		5030, 6030, 7030, 5780,
		5280, 6780, 7530, 6530,
		5530, 7280, 8530, 7030,
		6280, 8280, 9280, 7780,
	}

	tests := []struct {
		mode seasonal.Mode
		mae  float64
		mse  float64
		rmse float64
	}{
		{seasonal.Multiplicative, 142.6433393987952, 34012.59527613177, 184.42503972110666},
		{seasonal.Additive, 154.28921568627453, 49829.50048508983, 223.22522367575272},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			series, _ := timeseries.New(values, 2018)
			model, _ := trend.LeastSquares(series)
			smoothed, _ := smoothing.Smooth(series, 4)
			profile, err := seasonal.Estimate(series, smoothed, tt.mode)
			if err != nil {
				t.Fatalf("Estimate failed: %v", err)
			}
			points, err := decomposition.Decompose(series, model, profile, tt.mode)
			if err != nil {
				t.Fatalf("Decompose failed: %v", err)
			}

			report, err := Evaluate(points)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if math.Abs(report.MAE-tt.mae) > 1e-6 {
				t.Errorf("Expected MAE %f, got %f", tt.mae, report.MAE)
			}
			if math.Abs(report.MSE-tt.mse) > 1e-6 {
				t.Errorf("Expected MSE %f, got %f", tt.mse, report.MSE)
			}
			if math.Abs(report.RMSE-tt.rmse) > 1e-6 {
				t.Errorf("Expected RMSE %f, got %f", tt.rmse, report.RMSE)
			}
			if math.Abs(report.RMSE*report.RMSE-report.MSE) > 1e-6 {
				t.Errorf("RMSE is not the root of MSE")
			}
		})
	}
}
