// Package decomposition rebuilds a series from its fitted trend and seasonal
// profile and separates what is left as the residual.
//
// For every observation, under the multiplicative model Y = T * S * e:
//
//	Estimated      = T * S
//	Residual       = Y / Estimated   (centered at 1)
//	Deseasonalized = Y / S           (CVS)
//
// and under the additive model Y = T + S + e:
//
//	Estimated      = T + S
//	Residual       = Y - Estimated   (centered at 0)
//	Deseasonalized = Y - S
//
// # Basic Usage
//
//	points, err := decomposition.Decompose(series, model, profile, seasonal.Multiplicative)
//	if errors.Is(err, timeseries.ErrModelDomain) {
//	    // a non-positive estimate under the multiplicative model
//	}
//	for _, p := range points {
//	    fmt.Printf("%s Y=%.0f T=%.2f S=%.4f Ŷ=%.2f CVS=%.2f\n",
//	        p.Label(), p.Value, p.Trend, p.Seasonal, p.Estimated, p.Deseasonalized)
//	}
package decomposition
