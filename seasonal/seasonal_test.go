package seasonal

import (
	"errors"
	"math"
	"testing"

	"github.com/sartorproj/goseasonal/smoothing"
	"github.com/sartorproj/goseasonal/timeseries"
)

var quarterlySales = []float64{
	5030, 6030, 7030, 5780,
	5280, 6780, 7530, 6530,
	5530, 7280, 8530, 7030,
	6280, 8280, 9280, 7780,
}

func estimate(t *testing.T, values []float64, mode Mode) (Profile, error) {
	t.Helper()
	series, err := timeseries.New(values, 2018)
	if err != nil {
		t.Fatalf("Failed to build series: %v", err)
	}
	points, err := smoothing.Smooth(series, timeseries.PeriodLength)
	if err != nil {
		t.Fatalf("Smooth failed: %v", err)
	}
	return Estimate(series, points, mode)
}

func TestEstimateMultiplicative(t *testing.T) {
	profile, err := estimate(t, quarterlySales, Multiplicative)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	expected := []float64{0.8317166274555018, 1.052722493965989, 1.1837434754537, 0.9648351459086517}
	for i, want := range expected {
		got := profile.Of(timeseries.Period(i))
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Period %s: expected %f, got %f", timeseries.Period(i), want, got)
		}
		if len(profile.Indices[i].Samples) != 3 {
			t.Errorf("Period %s: expected 3 samples, got %d", timeseries.Period(i), len(profile.Indices[i].Samples))
		}
	}

	if math.Abs(profile.Product()-1) > 1e-6 {
		t.Errorf("Expected product 1, got %f", profile.Product())
	}
}

func TestEstimateAdditive(t *testing.T) {
	profile, err := estimate(t, quarterlySales, Additive)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	expected := []float64{-1200.5208333333333, 309.8958333333333, 1164.0625, -273.4375}
	for i, want := range expected {
		got := profile.Of(timeseries.Period(i))
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Period %s: expected %f, got %f", timeseries.Period(i), want, got)
		}
	}

	if math.Abs(profile.Sum()) > 1e-6 {
		t.Errorf("Expected sum 0, got %f", profile.Sum())
	}
}

func TestEstimateRanking(t *testing.T) {
	// T3 > T2 > T4 > T1 under both combination rules.
	want := []timeseries.Period{2, 1, 3, 0}

	for _, mode := range []Mode{Multiplicative, Additive} {
		t.Run(string(mode), func(t *testing.T) {
			profile, err := estimate(t, quarterlySales, mode)
			if err != nil {
				t.Fatalf("Estimate failed: %v", err)
			}
			ranked := profile.Ranked()
			for i := range want {
				if ranked[i] != want[i] {
					t.Fatalf("Expected ranking %v, got %v", want, ranked)
				}
			}
		})
	}
}

func TestEstimateNormalization(t *testing.T) {
	series := [][]float64{
		{120, 80, 150, 90, 130, 85, 160, 95, 140, 90, 170, 100},
		{3, 9, 4, 8, 5, 11, 6, 9, 4, 10, 7, 12, 5, 11, 8, 13, 6, 12},
		{1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000},
		{0.5, 0.7, 0.9, 0.4, 0.6, 0.8, 1.0, 0.5, 0.7, 0.9, 1.1, 0.6},
	}

	for i, values := range series {
		mul, err := estimate(t, values, Multiplicative)
		if err != nil {
			t.Fatalf("Series %d multiplicative: %v", i, err)
		}
		if math.Abs(mul.Product()-1) > 1e-6 {
			t.Errorf("Series %d: expected product 1, got %.10f", i, mul.Product())
		}

		add, err := estimate(t, values, Additive)
		if err != nil {
			t.Fatalf("Series %d additive: %v", i, err)
		}
		if math.Abs(add.Sum()) > 1e-6 {
			t.Errorf("Series %d: expected sum 0, got %.10f", i, add.Sum())
		}
	}
}

func TestEstimateInsufficientData(t *testing.T) {
	// Six points leave centered averages only at t=2 and t=3.
	_, err := estimate(t, []float64{10, 20, 30, 40, 50, 60}, Multiplicative)
	if !errors.Is(err, timeseries.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestEstimateModelDomain(t *testing.T) {
	values := []float64{-10, -20, -30, -40, -15, -25, -35, -45, -20, -30, -40, -50}
	_, err := estimate(t, values, Multiplicative)
	if !errors.Is(err, timeseries.ErrModelDomain) {
		t.Errorf("Expected ErrModelDomain, got %v", err)
	}

	if _, err := estimate(t, values, Additive); err != nil {
		t.Errorf("Additive mode should accept negative values, got %v", err)
	}
}

func TestEstimateRejectsMismatchedPoints(t *testing.T) {
	series, _ := timeseries.New(quarterlySales, 2018)
	other, _ := timeseries.New(quarterlySales[:12], 2018)
	points, _ := smoothing.Smooth(other, 4)

	if _, err := Estimate(series, points, Multiplicative); err == nil {
		t.Error("Expected error for mismatched point count")
	}
	if _, err := Estimate(series, nil, "geometric"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestModeRules(t *testing.T) {
	if math.Abs(Multiplicative.Combine(200, 1.1)-220) > 1e-9 {
		t.Errorf("Unexpected multiplicative combine %f", Multiplicative.Combine(200, 1.1))
	}
	if Additive.Combine(200, -15) != 185 {
		t.Errorf("Unexpected additive combine %f", Additive.Combine(200, -15))
	}
	if Multiplicative.Remove(300, 1.5) != 200 {
		t.Errorf("Unexpected multiplicative remove %f", Multiplicative.Remove(300, 1.5))
	}
	if Additive.Remove(300, 50) != 250 {
		t.Errorf("Unexpected additive remove %f", Additive.Remove(300, 50))
	}

	for in, want := range map[string]Mode{"": Multiplicative, "Additive": Additive, " multiplicative ": Multiplicative} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("hybrid"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}
