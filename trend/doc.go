// Package trend fits the long-run linear component of a series.
//
// Two strategies are available and can be selected independently:
//
//   - LeastSquares: the closed-form ordinary least-squares line over every
//     observation, with the observation index as the time variable.
//   - SemiAverage: the line through the mean points of the first and second
//     half of the series.
//
// # Basic Usage
//
//	model, err := trend.LeastSquares(series)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(model)          // T(t) = 5361.2500 + 177.9412*t
//	next := model.At(17)        // extrapolate one step past t=16
//
// Select a strategy by name:
//
//	fitter, err := trend.ForMethod(trend.MethodSemiAverage)
//	model, err := fitter.Fit(series)
//
// A fit that cannot be computed returns an error wrapping
// timeseries.ErrDegenerateInput.
package trend
