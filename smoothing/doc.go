// Package smoothing computes the moving averages used to isolate the trend
// before seasonal indices are estimated.
//
// For an even width P the simple moving average at index i covers the P
// observations i-P/2+1 through i+P/2, so it sits half a step off the
// observation grid. The centered average bridges that offset by averaging two
// consecutive simple averages:
//
//	points, err := smoothing.Smooth(series, 4)
//	for _, p := range smoothing.Centered(points) {
//	    fmt.Printf("t=%d MM4=%.2f MMc4=%.2f\n", p.Index, p.Simple, p.Centered)
//	}
//
// Indices near either end of the series have no average; those fields are
// NaN and consumers skip them. With the default Forward alignment the first
// P/2-1 and the last P/2+1 centered averages are undefined. Backward
// alignment leaves P/2 undefined at each end.
package smoothing
