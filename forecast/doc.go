// Package forecast produces point forecasts from a fitted trend and seasonal profile.
//
// The fitted trend line is extended to each future index and combined with
// the seasonal index of the future period:
//
//	targets, _ := forecast.Horizon(series, 4)  // next four quarters
//	points, err := forecast.Predict(model, profile, seasonal.Multiplicative, targets)
//
// No intervals are produced.
package forecast
