// Package timeseries provides the quarterly observation store shared by every analysis stage.
package timeseries

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PeriodLength is the number of periods in one cycle (quarters in a year).
const PeriodLength = 4

// MinObservations is the smallest series a trend can be fitted to.
const MinObservations = 3

// Period is the ordinal position of an observation within its cycle,
// 0 for the first quarter through PeriodLength-1 for the last.
type Period int

// String renders the period as T1..T4.
func (p Period) String() string {
	return "T" + strconv.Itoa(int(p)+1)
}

// Valid reports whether p is a usable ordinal.
func (p Period) Valid() bool {
	return p >= 0 && p < PeriodLength
}

// Next returns the period following p, wrapping to the first period.
func (p Period) Next() Period {
	return (p + 1) % PeriodLength
}

// ParsePeriod parses a period label. It accepts "T1".."T4", "Q1".."Q4"
// and plain "1".."4", case-insensitively.
func ParsePeriod(s string) (Period, error) {
	label := strings.ToUpper(strings.TrimSpace(s))
	label = strings.TrimPrefix(strings.TrimPrefix(label, "T"), "Q")
	n, err := strconv.Atoi(label)
	if err != nil || n < 1 || n > PeriodLength {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return Period(n - 1), nil
}

// Observation is one point of the series.
type Observation struct {
	Index  int     // Sequential time unit, starting at 1
	Period Period  // Position within the cycle
	Cycle  int     // Cycle the observation belongs to (e.g. year)
	Value  float64 // Observed value
}

// Label renders the observation position as "2019-T3".
func (o Observation) Label() string {
	return strconv.Itoa(o.Cycle) + "-" + o.Period.String()
}

// Series is an immutable, validated sequence of observations.
type Series struct {
	Name         string
	observations []Observation
}

// Load validates observations and returns a series holding its own copy of them.
//
// The series must hold at least MinObservations points, indices must increase
// by exactly one, periods must advance in lockstep with the index and cycles
// must advance when the period wraps.
func Load(observations []Observation) (*Series, error) {
	n := len(observations)
	if n < MinObservations {
		return nil, fmt.Errorf("%w: need at least %d observations, got %d", ErrDegenerateInput, MinObservations, n)
	}

	for i, o := range observations {
		if !o.Period.Valid() {
			return nil, fmt.Errorf("%w: observation %d has period ordinal %d", ErrInvalidPeriod, o.Index, int(o.Period))
		}
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			return nil, fmt.Errorf("%w: observation %d is not a finite number", ErrDegenerateInput, o.Index)
		}
		if i == 0 {
			if o.Index < 1 {
				return nil, fmt.Errorf("%w: first index must be >= 1, got %d", ErrDegenerateInput, o.Index)
			}
			continue
		}

		prev := observations[i-1]
		if o.Index != prev.Index+1 {
			return nil, fmt.Errorf("%w: index %d follows %d", ErrDegenerateInput, o.Index, prev.Index)
		}
		if o.Period != prev.Period.Next() {
			return nil, fmt.Errorf("%w: %s follows %s at index %d", ErrInvalidPeriod, o.Period, prev.Period, o.Index)
		}
		wantCycle := prev.Cycle
		if o.Period == 0 {
			wantCycle++
		}
		if o.Cycle != wantCycle {
			return nil, fmt.Errorf("%w: index %d has cycle %d, want %d", ErrDegenerateInput, o.Index, o.Cycle, wantCycle)
		}
	}

	data := make([]Observation, n)
	copy(data, observations)
	return &Series{observations: data}, nil
}

// New builds a series from raw values, starting at index 1 in the first
// period of startCycle.
func New(values []float64, startCycle int) (*Series, error) {
	return NewFrom(values, startCycle, 0)
}

// NewFrom builds a series from raw values whose first value falls in the
// given period of startCycle.
func NewFrom(values []float64, startCycle int, startPeriod Period) (*Series, error) {
	if !startPeriod.Valid() {
		return nil, fmt.Errorf("%w: start period ordinal %d", ErrInvalidPeriod, int(startPeriod))
	}
	observations := make([]Observation, len(values))
	period, cycle := startPeriod, startCycle
	for i, v := range values {
		observations[i] = Observation{Index: i + 1, Period: period, Cycle: cycle, Value: v}
		period = period.Next()
		if period == 0 {
			cycle++
		}
	}
	return Load(observations)
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.observations)
}

// At returns the i-th observation (0-based).
func (s *Series) At(i int) Observation {
	return s.observations[i]
}

// Observations returns a copy of the observations.
func (s *Series) Observations() []Observation {
	result := make([]Observation, len(s.observations))
	copy(result, s.observations)
	return result
}

// Values returns a copy of the observed values.
func (s *Series) Values() []float64 {
	result := make([]float64, len(s.observations))
	for i, o := range s.observations {
		result[i] = o.Value
	}
	return result
}

// First returns the first observation.
func (s *Series) First() Observation {
	return s.observations[0]
}

// Last returns the last observation.
func (s *Series) Last() Observation {
	return s.observations[len(s.observations)-1]
}

// Mean calculates the arithmetic mean of the values.
func (s *Series) Mean() float64 {
	if len(s.observations) == 0 {
		return 0
	}
	sum := 0.0
	for _, o := range s.observations {
		sum += o.Value
	}
	return sum / float64(len(s.observations))
}

// Variance calculates the sample variance of the values.
func (s *Series) Variance() float64 {
	if len(s.observations) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, o := range s.observations {
		diff := o.Value - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(s.observations)-1)
}

// Std calculates the sample standard deviation of the values.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.observations) == 0 {
		return math.NaN()
	}
	min := s.observations[0].Value
	for _, o := range s.observations[1:] {
		if o.Value < min {
			min = o.Value
		}
	}
	return min
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.observations) == 0 {
		return math.NaN()
	}
	max := s.observations[0].Value
	for _, o := range s.observations[1:] {
		if o.Value > max {
			max = o.Value
		}
	}
	return max
}

// Positive reports whether every value is strictly positive.
func (s *Series) Positive() bool {
	for _, o := range s.observations {
		if o.Value <= 0 {
			return false
		}
	}
	return true
}
