// Package seasonal estimates per-period seasonal indices from moving averages.
package seasonal

import (
	"fmt"
	"math"
	"sort"

	"github.com/sartorproj/goseasonal/smoothing"
	"github.com/sartorproj/goseasonal/timeseries"
)

// Index is the seasonal effect of one period.
type Index struct {
	Period   timeseries.Period
	Raw      float64   // Mean of the per-observation ratios or differences
	Adjusted float64   // Raw index after normalization
	Samples  []float64 // Ratios or differences the raw index averages
}

// Profile holds one seasonal index per period, indexed by period ordinal.
type Profile struct {
	Indices [timeseries.PeriodLength]Index
	// Correction is the normalization applied to every raw index: the
	// multiplicative factor (prod raw)^(-1/P), or the additive shift -(sum raw)/P.
	Correction float64
}

// Of returns the adjusted index of a period.
func (p Profile) Of(period timeseries.Period) float64 {
	return p.Indices[period].Adjusted
}

// Product returns the product of the adjusted indices.
func (p Profile) Product() float64 {
	product := 1.0
	for _, idx := range p.Indices {
		product *= idx.Adjusted
	}
	return product
}

// Sum returns the sum of the adjusted indices.
func (p Profile) Sum() float64 {
	sum := 0.0
	for _, idx := range p.Indices {
		sum += idx.Adjusted
	}
	return sum
}

// Ranked returns the periods ordered from the strongest to the weakest
// seasonal effect.
func (p Profile) Ranked() []timeseries.Period {
	periods := make([]timeseries.Period, timeseries.PeriodLength)
	for i := range periods {
		periods[i] = timeseries.Period(i)
	}
	sort.SliceStable(periods, func(a, b int) bool {
		return p.Indices[periods[a]].Adjusted > p.Indices[periods[b]].Adjusted
	})
	return periods
}

// Estimate derives the seasonal profile of a series from its smoothed points.
//
// Every observation with a defined centered average contributes
// value/centered (multiplicative) or value-centered (additive) to its
// period. Each period's contributions are averaged into a raw index, then the
// raw indices are normalized so that their product is 1 (multiplicative) or
// their sum is 0 (additive).
func Estimate(series *timeseries.Series, points []smoothing.Point, mode Mode) (Profile, error) {
	if !mode.Valid() {
		return Profile{}, fmt.Errorf("unknown decomposition mode %q", mode)
	}
	if len(points) != series.Len() {
		return Profile{}, fmt.Errorf("smoothed points (%d) do not match series length (%d)", len(points), series.Len())
	}

	var profile Profile
	for i := range profile.Indices {
		profile.Indices[i].Period = timeseries.Period(i)
	}

	for i, p := range points {
		if !p.HasCentered() {
			continue
		}
		o := series.At(i)
		if o.Index != p.Index {
			return Profile{}, fmt.Errorf("smoothed point %d is not aligned with observation %d", p.Index, o.Index)
		}
		if mode == Multiplicative && p.Centered <= 0 {
			return Profile{}, fmt.Errorf("%w: centered average %.4f at t=%d", timeseries.ErrModelDomain, p.Centered, p.Index)
		}
		idx := &profile.Indices[o.Period]
		idx.Samples = append(idx.Samples, mode.Remove(o.Value, p.Centered))
	}

	for i := range profile.Indices {
		idx := &profile.Indices[i]
		if len(idx.Samples) == 0 {
			return Profile{}, fmt.Errorf("%w: no centered averages for period %s", timeseries.ErrInsufficientData, idx.Period)
		}
		sum := 0.0
		for _, v := range idx.Samples {
			sum += v
		}
		idx.Raw = sum / float64(len(idx.Samples))
	}

	if err := profile.normalize(mode); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (p *Profile) normalize(mode Mode) error {
	n := float64(timeseries.PeriodLength)

	if mode == Multiplicative {
		// Geometric mean, taken in log space.
		logSum := 0.0
		for _, idx := range p.Indices {
			if idx.Raw <= 0 {
				return fmt.Errorf("%w: raw index %.4f for period %s", timeseries.ErrModelDomain, idx.Raw, idx.Period)
			}
			logSum += math.Log(idx.Raw)
		}
		p.Correction = math.Exp(-logSum / n)
		for i := range p.Indices {
			p.Indices[i].Adjusted = p.Indices[i].Raw * p.Correction
		}
		return nil
	}

	sum := 0.0
	for _, idx := range p.Indices {
		sum += idx.Raw
	}
	p.Correction = -sum / n
	for i := range p.Indices {
		p.Indices[i].Adjusted = p.Indices[i].Raw + p.Correction
	}
	return nil
}
