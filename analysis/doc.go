// Package analysis wires the decomposition stages into a single pipeline.
//
// Run builds every intermediate structure exactly once (trend, moving
// averages, seasonal profile, decomposition, accuracy and forecasts) and
// returns them together, so tables, charts and exports all read the same
// result:
//
//	opts := analysis.DefaultOptions()
//	opts.Mode = seasonal.Additive
//	opts.Horizon = 8
//	opts.Logger = logger
//
//	result, err := analysis.Run(series, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Trend)
//	fmt.Printf("RMSE: %.2f\n", result.Accuracy.RMSE)
//
// The pipeline is pure: the same series and options always produce the same
// values, and concurrent runs over one series need no locking.
package analysis
