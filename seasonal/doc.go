// Package seasonal estimates the systematic effect of each quarter.
//
// Indices are derived with the ratio-to-moving-average method
// (multiplicative model) or the difference-to-moving-average method
// (additive model):
//
//  1. For every observation with a defined centered moving average, take
//     value/centered or value-centered.
//  2. Average those figures per quarter to get the raw index.
//  3. Normalize: divide by the geometric mean of the raw indices so their
//     product is 1, or subtract their arithmetic mean so their sum is 0.
//
// # Basic Usage
//
//	points, _ := smoothing.Smooth(series, timeseries.PeriodLength)
//	profile, err := seasonal.Estimate(series, points, seasonal.Multiplicative)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, idx := range profile.Indices {
//	    fmt.Printf("%s: raw=%.4f adjusted=%.4f\n", idx.Period, idx.Raw, idx.Adjusted)
//	}
//
// Mode also carries the combination rules shared by the decomposition and
// forecasting stages: Combine joins a trend value with a seasonal effect and
// Remove takes one out of a value.
package seasonal
