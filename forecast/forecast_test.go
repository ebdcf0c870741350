package forecast

import (
	"errors"
	"math"
	"testing"

	"github.com/sartorproj/goseasonal/accuracy"
	"github.com/sartorproj/goseasonal/seasonal"
	"github.com/sartorproj/goseasonal/smoothing"
	"github.com/sartorproj/goseasonal/timeseries"
	"github.com/sartorproj/goseasonal/trend"
)

var quarterlySales = []float64{
	5030, 6030, 7030, 5780,
	5280, 6780, 7530, 6530,
	5530, 7280, 8530, 7030,
	6280, 8280, 9280, 7780,
}

func fit(t *testing.T, values []float64, mode seasonal.Mode) (*timeseries.Series, trend.Model, seasonal.Profile) {
	t.Helper()
	series, err := timeseries.New(values, 2018)
	if err != nil {
		t.Fatalf("Failed to build series: %v", err)
	}
	model, err := trend.LeastSquares(series)
	if err != nil {
		t.Fatalf("LeastSquares failed: %v", err)
	}
	smoothed, err := smoothing.Smooth(series, timeseries.PeriodLength)
	if err != nil {
		t.Fatalf("Smooth failed: %v", err)
	}
	profile, err := seasonal.Estimate(series, smoothed, mode)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	return series, model, profile
}

func TestHorizon(t *testing.T) {
	series, _, _ := fit(t, quarterlySales, seasonal.Multiplicative)

	targets, err := Horizon(series, 6)
	if err != nil {
		t.Fatalf("Horizon failed: %v", err)
	}

	expected := []string{"2022-T1", "2022-T2", "2022-T3", "2022-T4", "2023-T1", "2023-T2"}
	for i, target := range targets {
		if target.Index != 17+i {
			t.Errorf("Target %d: expected index %d, got %d", i, 17+i, target.Index)
		}
		if target.Label() != expected[i] {
			t.Errorf("Target %d: expected %s, got %s", i, expected[i], target.Label())
		}
	}

	if _, err := Horizon(series, 0); err == nil {
		t.Error("Expected error for zero steps")
	}
}

func TestHorizonMidCycle(t *testing.T) {
	series, err := timeseries.NewFrom([]float64{1, 2, 3, 4, 5}, 2020, 1)
	if err != nil {
		t.Fatalf("NewFrom failed: %v", err)
	}
	targets, err := Horizon(series, 2)
	if err != nil {
		t.Fatalf("Horizon failed: %v", err)
	}
	// Last observation is 2021-T2.
	if targets[0].Label() != "2021-T3" || targets[1].Label() != "2021-T4" {
		t.Errorf("Unexpected labels %s, %s", targets[0].Label(), targets[1].Label())
	}
	for i, target := range targets {
		if target.Index != series.Last().Index+1+i {
			t.Errorf("Target %d: expected index %d, got %d", i, series.Last().Index+1+i, target.Index)
		}
	}
}

func TestPredictQuarterlySales(t *testing.T) {
	tests := []struct {
		mode     seasonal.Mode
		expected []float64
	}{
		{seasonal.Multiplicative, []float64{6974.9835669987015, 9015.716694095634, 10348.44213434682, 8606.400445265903}},
		{seasonal.Additive, []float64{7185.729166666667, 8874.087009803921, 9906.194852941177, 8646.636029411766}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			series, model, profile := fit(t, quarterlySales, tt.mode)
			targets, _ := Horizon(series, 4)

			points, err := Predict(model, profile, tt.mode, targets)
			if err != nil {
				t.Fatalf("Predict failed: %v", err)
			}
			for i, p := range points {
				if math.Abs(p.Value-tt.expected[i]) > 1e-6 {
					t.Errorf("t=%d: expected %f, got %f", p.Index, tt.expected[i], p.Value)
				}
			}
		})
	}
}

func TestPredictContinuity(t *testing.T) {
	series, model, profile := fit(t, quarterlySales, seasonal.Multiplicative)
	targets, _ := Horizon(series, 1)

	points, err := Predict(model, profile, seasonal.Multiplicative, targets)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	n := float64(series.Len())
	if points[0].Trend != model.At(n+1) {
		t.Errorf("Forecast trend %f does not extend the fitted line (%f)", points[0].Trend, model.At(n+1))
	}
	if points[0].Value != seasonal.Multiplicative.Combine(points[0].Trend, points[0].Seasonal) {
		t.Errorf("Forecast does not follow the combination rule")
	}
}

func TestPredictHoldOut(t *testing.T) {
	// Fit on 2018-2020 and compare 2021 forecasts with the actual values.
	series, model, profile := fit(t, quarterlySales[:12], seasonal.Multiplicative)
	targets, _ := Horizon(series, 4)

	points, err := Predict(model, profile, seasonal.Multiplicative, targets)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	report, err := accuracy.Compare(quarterlySales[12:], Values(points))
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	t.Logf("Hold-out MAPE: %.2f%%", report.MAPE)
	if report.MAPE > 5 {
		t.Errorf("Hold-out MAPE too large: %f", report.MAPE)
	}
}

func TestPredictInvalidTarget(t *testing.T) {
	_, model, profile := fit(t, quarterlySales, seasonal.Multiplicative)

	_, err := Predict(model, profile, seasonal.Multiplicative, []Target{{Index: 17, Period: 9, Cycle: 2022}})
	if !errors.Is(err, timeseries.ErrInvalidPeriod) {
		t.Errorf("Expected ErrInvalidPeriod, got %v", err)
	}
	if _, err := Predict(model, profile, "", nil); err == nil {
		t.Error("Expected error for unknown mode")
	}
}
