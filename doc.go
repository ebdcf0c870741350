// Package goseasonal provides classical decomposition and forecasting of
// quarterly time series.
//
// A series is split into a linear trend and one seasonal index per quarter,
// under either an additive model (Y = T + S + e) or a multiplicative model
// (Y = T * S * e). The fitted components are then extrapolated to forecast
// future quarters, following the textbook ratio-to-moving-average method.
//
// # Features
//
//   - Least-squares and semi-average trend lines
//   - Centered moving averages over an even window
//   - Seasonal indices normalized to a product of 1 or a sum of 0
//   - Seasonally adjusted values, residuals and fit accuracy (MAE, MSE, RMSE, MAPE)
//   - Point forecasts with trend and seasonal components
//
// # Quick Start
//
// Run the complete pipeline:
//
//	series, _ := timeseries.New(values, 2018)
//	result, _ := analysis.Run(series, analysis.DefaultOptions())
//	fmt.Println(result.Trend)
//	for _, f := range result.Forecasts {
//	    fmt.Printf("%s: %.2f\n", f.Label(), f.Value)
//	}
//
// Or call the stages one by one:
//
//	model, _ := trend.LeastSquares(series)
//	points, _ := smoothing.Smooth(series, timeseries.PeriodLength)
//	profile, _ := seasonal.Estimate(series, points, seasonal.Multiplicative)
//	decomposed, _ := decomposition.Decompose(series, model, profile, seasonal.Multiplicative)
//	report, _ := accuracy.Evaluate(decomposed)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - timeseries: Quarterly series, labels and CSV loading
//   - trend: Linear trend fitting
//   - smoothing: Simple and centered moving averages
//   - seasonal: Seasonal index estimation and normalization
//   - decomposition: Per-observation components
//   - accuracy: Fit error metrics
//   - forecast: Trend and seasonal extrapolation
//   - analysis: The complete pipeline
//
// The goseasonal command (cmd/goseasonal) wraps the pipeline in a CLI with
// a SQLite store and an HTTP API.
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
package goseasonal
