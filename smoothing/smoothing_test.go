package smoothing

import (
	"errors"
	"math"
	"testing"

	"github.com/sartorproj/goseasonal/timeseries"
)

var quarterlySales = []float64{
	5030, 6030, 7030, 5780,
	5280, 6780, 7530, 6530,
	5530, 7280, 8530, 7030,
	6280, 8280, 9280, 7780,
}

func mustSeries(t *testing.T, values []float64) *timeseries.Series {
	t.Helper()
	s, err := timeseries.New(values, 2018)
	if err != nil {
		t.Fatalf("Failed to build series: %v", err)
	}
	return s
}

func TestSmoothValues(t *testing.T) {
	points, err := Smooth(mustSeries(t, quarterlySales), 4)
	if err != nil {
		t.Fatalf("Smooth failed: %v", err)
	}

	if len(points) != len(quarterlySales) {
		t.Fatalf("Expected %d points, got %d", len(quarterlySales), len(points))
	}

	// Index 2 covers t=1..4, index 3 covers t=2..5.
	if math.Abs(points[1].Simple-5967.5) > 1e-10 {
		t.Errorf("Expected simple average 5967.5 at t=2, got %f", points[1].Simple)
	}
	if math.Abs(points[2].Simple-6030) > 1e-10 {
		t.Errorf("Expected simple average 6030 at t=3, got %f", points[2].Simple)
	}
	if math.Abs(points[1].Centered-5998.75) > 1e-10 {
		t.Errorf("Expected centered average 5998.75 at t=2, got %f", points[1].Centered)
	}

	for i, p := range points {
		if p.Index != i+1 || p.Value != quarterlySales[i] {
			t.Errorf("Point %d carries wrong observation: %+v", i, p)
		}
	}
}

func TestSmoothBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		period    int
		alignment Alignment
		leading   int
		trailing  int
	}{
		{"forward quarterly", 16, 4, Forward, 1, 3},
		{"forward short", 6, 4, Forward, 1, 3},
		{"backward quarterly", 16, 4, Backward, 2, 2},
		{"forward monthly", 36, 12, Forward, 5, 7},
		{"backward monthly", 36, 12, Backward, 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]float64, tt.n)
			for i := range values {
				values[i] = 100 + float64(i%tt.period)*10 + float64(i)
			}

			points, err := SmoothAligned(mustSeries(t, values), tt.period, tt.alignment)
			if err != nil {
				t.Fatalf("SmoothAligned failed: %v", err)
			}

			// Leading simple averages are missing for the first period/2-1
			// indices and trailing ones for the last period/2.
			for i, p := range points {
				wantSimple := i >= tt.period/2-1 && i < tt.n-tt.period/2
				if p.HasSimple() != wantSimple {
					t.Errorf("Index %d: HasSimple=%v, want %v", p.Index, p.HasSimple(), wantSimple)
				}
				wantCentered := i >= tt.leading && i < tt.n-tt.trailing
				if p.HasCentered() != wantCentered {
					t.Errorf("Index %d: HasCentered=%v, want %v", p.Index, p.HasCentered(), wantCentered)
				}
			}

			if got := len(Centered(points)); got != tt.n-tt.leading-tt.trailing {
				t.Errorf("Expected %d centered points, got %d", tt.n-tt.leading-tt.trailing, got)
			}
		})
	}
}

func TestSmoothConstantSeries(t *testing.T) {
	values := make([]float64, 12)
	for i := range values {
		values[i] = 7
	}

	points, err := Smooth(mustSeries(t, values), 4)
	if err != nil {
		t.Fatalf("Smooth failed: %v", err)
	}
	for _, p := range Centered(points) {
		if math.Abs(p.Centered-7) > 1e-12 {
			t.Errorf("Expected centered average 7 at t=%d, got %f", p.Index, p.Centered)
		}
	}
}

func TestSmoothTooShort(t *testing.T) {
	points, err := Smooth(mustSeries(t, []float64{1, 2, 3}), 4)
	if err != nil {
		t.Fatalf("Smooth failed: %v", err)
	}
	if len(Centered(points)) != 0 {
		t.Errorf("Expected no centered averages for a series shorter than the period")
	}
}

func TestSmoothInvalidPeriod(t *testing.T) {
	series := mustSeries(t, quarterlySales)
	for _, period := range []int{0, 3, -4} {
		if _, err := Smooth(series, period); !errors.Is(err, timeseries.ErrInvalidPeriod) {
			t.Errorf("Period %d: expected ErrInvalidPeriod, got %v", period, err)
		}
	}
	if _, err := SmoothAligned(series, 4, "sideways"); err == nil {
		t.Error("Expected error for unknown alignment")
	}
}

func TestParseAlignment(t *testing.T) {
	if a, err := ParseAlignment(""); err != nil || a != Forward {
		t.Errorf("Expected Forward for empty name, got %q (%v)", a, err)
	}
	if a, err := ParseAlignment("backward"); err != nil || a != Backward {
		t.Errorf("Expected Backward, got %q (%v)", a, err)
	}
	if _, err := ParseAlignment("middle"); err == nil {
		t.Error("Expected error for unknown alignment")
	}
}
