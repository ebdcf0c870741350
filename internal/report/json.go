package report

import (
	"encoding/json"
	"io"
	"math"

	"github.com/sartorproj/goseasonal/analysis"
)

// Document is the JSON form of an analysis result. Undefined moving averages
// are encoded as null.
type Document struct {
	Series       string        `json:"series"`
	Mode         string        `json:"mode"`
	Observations int           `json:"observations"`
	Trend        TrendDoc      `json:"trend"`
	Seasonal     SeasonalDoc   `json:"seasonal"`
	Points       []PointDoc    `json:"points"`
	Accuracy     AccuracyDoc   `json:"accuracy"`
	Forecasts    []ForecastDoc `json:"forecasts"`
	Summary      SummaryDoc    `json:"summary"`
}

// TrendDoc describes the fitted trend line.
type TrendDoc struct {
	Method    string  `json:"method"`
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
}

// SeasonalDoc describes the seasonal profile.
type SeasonalDoc struct {
	Correction float64    `json:"correction"`
	Ranking    []string   `json:"ranking"`
	Indices    []IndexDoc `json:"indices"`
}

// IndexDoc is one seasonal index.
type IndexDoc struct {
	Period   string  `json:"period"`
	Raw      float64 `json:"raw"`
	Adjusted float64 `json:"adjusted"`
	Samples  int     `json:"samples"`
}

// PointDoc is one row of the complete table.
type PointDoc struct {
	Index            int      `json:"t"`
	Label            string   `json:"label"`
	Value            float64  `json:"value"`
	MovingAverage    *float64 `json:"moving_average"`
	Centered         *float64 `json:"centered_moving_average"`
	Trend            float64  `json:"trend"`
	Seasonal         float64  `json:"seasonal"`
	Estimated        float64  `json:"estimated"`
	Residual         float64  `json:"residual"`
	Deseasonalized   float64  `json:"deseasonalized"`
	Detrended        float64  `json:"detrended"`
	DeviationPercent float64  `json:"deviation_percent"`
}

// AccuracyDoc holds the fit error metrics.
type AccuracyDoc struct {
	N    int     `json:"n"`
	MAE  float64 `json:"mae"`
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

// ForecastDoc is one forecast point.
type ForecastDoc struct {
	Index    int     `json:"t"`
	Label    string  `json:"label"`
	Trend    float64 `json:"trend"`
	Seasonal float64 `json:"seasonal"`
	Value    float64 `json:"value"`
}

// SummaryDoc holds descriptive statistics of the observed values.
type SummaryDoc struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// NewDocument converts a result into its JSON form.
func NewDocument(result *analysis.Result) Document {
	series := result.Series
	doc := Document{
		Series:       series.Name,
		Mode:         string(result.Mode),
		Observations: series.Len(),
		Trend: TrendDoc{
			Method:    string(result.Trend.Method),
			Intercept: result.Trend.Intercept,
			Slope:     result.Trend.Slope,
		},
		Seasonal: SeasonalDoc{Correction: result.Profile.Correction},
		Accuracy: AccuracyDoc{
			N:    result.Accuracy.N,
			MAE:  result.Accuracy.MAE,
			MSE:  result.Accuracy.MSE,
			RMSE: result.Accuracy.RMSE,
			MAPE: result.Accuracy.MAPE,
		},
		Summary: SummaryDoc{
			Min:  series.Min(),
			Max:  series.Max(),
			Mean: series.Mean(),
			Std:  series.Std(),
		},
		Points:    make([]PointDoc, len(result.Points)),
		Forecasts: make([]ForecastDoc, len(result.Forecasts)),
	}

	for _, p := range result.Profile.Ranked() {
		doc.Seasonal.Ranking = append(doc.Seasonal.Ranking, p.String())
	}
	for _, idx := range result.Profile.Indices {
		doc.Seasonal.Indices = append(doc.Seasonal.Indices, IndexDoc{
			Period:   idx.Period.String(),
			Raw:      idx.Raw,
			Adjusted: idx.Adjusted,
			Samples:  len(idx.Samples),
		})
	}

	for i, p := range result.Points {
		row := PointDoc{
			Index:            p.Index,
			Label:            p.Label(),
			Value:            p.Value,
			Trend:            p.Trend,
			Seasonal:         p.Seasonal,
			Estimated:        p.Estimated,
			Residual:         p.Residual,
			Deseasonalized:   p.Deseasonalized,
			Detrended:        p.Detrended,
			DeviationPercent: p.DeviationPercent(),
		}
		if i < len(result.Smoothed) {
			row.MovingAverage = defined(result.Smoothed[i].Simple)
			row.Centered = defined(result.Smoothed[i].Centered)
		}
		doc.Points[i] = row
	}

	for i, f := range result.Forecasts {
		doc.Forecasts[i] = ForecastDoc{
			Index:    f.Index,
			Label:    f.Label(),
			Trend:    f.Trend,
			Seasonal: f.Seasonal,
			Value:    f.Value,
		}
	}
	return doc
}

func defined(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// WriteJSON writes the indented JSON document of result to w.
func WriteJSON(w io.Writer, result *analysis.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(result))
}
