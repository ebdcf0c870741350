package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sartorproj/goseasonal/analysis"
	"github.com/sartorproj/goseasonal/internal/report"
	"github.com/sartorproj/goseasonal/seasonal"
	"github.com/sartorproj/goseasonal/smoothing"
	"github.com/sartorproj/goseasonal/timeseries"
	"github.com/sartorproj/goseasonal/trend"
)

// ObservationInput is one labelled observation.
type ObservationInput struct {
	T      int     `json:"t" validate:"gte=1"`
	Cycle  int     `json:"cycle"`
	Period string  `json:"period" validate:"required"`
	Value  float64 `json:"value"`
}

// SeriesInput accepts either plain values labelled from a start position or
// fully labelled observations.
type SeriesInput struct {
	Values       []float64          `json:"values" validate:"required_without=Observations,omitempty,min=3"`
	Observations []ObservationInput `json:"observations" validate:"omitempty,min=3,dive"`
	StartCycle   *int               `json:"start_cycle" default:"1"`
	StartPeriod  string             `json:"start_period" default:"T1"`
}

// AnalysisOptions overrides the server analysis defaults.
type AnalysisOptions struct {
	Mode      string `json:"mode" query:"mode" validate:"omitempty,oneof=additive multiplicative"`
	Trend     string `json:"trend" query:"trend" validate:"omitempty,oneof=least-squares semi-average"`
	Alignment string `json:"alignment" query:"alignment" validate:"omitempty,oneof=forward backward"`
	Horizon   *int   `json:"horizon" query:"horizon" validate:"omitempty,gte=0,lte=40"`
}

// AnalysisRequest is the body of POST /v1/analyses.
type AnalysisRequest struct {
	Name string `json:"name" validate:"max=128"`
	SeriesInput
	AnalysisOptions
}

// SeriesRequest is the body of PUT /v1/series/:name.
type SeriesRequest struct {
	Name string `param:"name" json:"-" validate:"required,max=128"`
	SeriesInput
}

// SeriesResponse describes a stored series.
type SeriesResponse struct {
	Name         string     `json:"name"`
	Observations int        `json:"observations"`
	First        string     `json:"first,omitempty"`
	Last         string     `json:"last,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// AnalysisResponse is an analysis document, with the stored analysis ID
// when it was saved.
type AnalysisResponse struct {
	AnalysisID int64 `json:"analysis_id,omitempty"`
	report.Document
}

// AnalysisRecordResponse is a stored analysis summary.
type AnalysisRecordResponse struct {
	ID          int64     `json:"id"`
	Mode        string    `json:"mode"`
	TrendMethod string    `json:"trend"`
	Intercept   float64   `json:"intercept"`
	Slope       float64   `json:"slope"`
	MAE         float64   `json:"mae"`
	MSE         float64   `json:"mse"`
	RMSE        float64   `json:"rmse"`
	MAPE        float64   `json:"mape"`
	Indices     []float64 `json:"indices"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", s.health)

	v1 := e.Group("/v1")
	v1.POST("/analyses", s.analyze)
	if s.store != nil {
		v1.GET("/series", s.listSeries)
		v1.PUT("/series/:name", s.putSeries)
		v1.GET("/series/:name/analysis", s.seriesAnalysis)
		v1.GET("/series/:name/analyses", s.listAnalyses)
	}
}

func (s *Server) health(c echo.Context) error {
	return dataResponse(c, http.StatusOK, map[string]string{"status": "ok"})
}

// analyze runs an analysis over the series posted in the body.
func (s *Server) analyze(c echo.Context) error {
	var req AnalysisRequest
	if errs := bindRequest(c, &req); errs != nil {
		return badRequest(c, errs)
	}

	series, err := s.buildSeries(req.Name, req.SeriesInput)
	if err != nil {
		return errorResponse(c, err)
	}
	result, err := s.run(series, req.AnalysisOptions)
	if err != nil {
		return errorResponse(c, err)
	}
	return dataResponse(c, http.StatusOK, AnalysisResponse{Document: report.NewDocument(result)})
}

// putSeries stores a series under the name in the path.
func (s *Server) putSeries(c echo.Context) error {
	var req SeriesRequest
	if errs := bindRequest(c, &req); errs != nil {
		return badRequest(c, errs)
	}

	series, err := s.buildSeries(req.Name, req.SeriesInput)
	if err != nil {
		return errorResponse(c, err)
	}
	if err := s.store.SaveSeries(c.Request().Context(), series); err != nil {
		return errorResponse(c, err)
	}
	return dataResponse(c, http.StatusOK, SeriesResponse{
		Name:         series.Name,
		Observations: series.Len(),
		First:        series.First().Label(),
		Last:         series.Last().Label(),
	})
}

func (s *Server) listSeries(c echo.Context) error {
	infos, err := s.store.ListSeries(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	rows := make([]SeriesResponse, len(infos))
	for i, info := range infos {
		updated := info.UpdatedAt
		rows[i] = SeriesResponse{
			Name:         info.Name,
			Observations: info.Observations,
			First:        info.First,
			Last:         info.Last,
			UpdatedAt:    &updated,
		}
	}
	return dataResponse(c, http.StatusOK, rows)
}

// seriesAnalysis analyses a stored series, optionally persisting the summary
// when save=true.
func (s *Server) seriesAnalysis(c echo.Context) error {
	var (
		opts    AnalysisOptions
		horizon int
		save    bool
	)
	if err := echo.QueryParamsBinder(c).
		String("mode", &opts.Mode).
		String("trend", &opts.Trend).
		String("alignment", &opts.Alignment).
		Int("horizon", &horizon).
		Bool("save", &save).
		BindError(); err != nil {
		return badRequest(c, validationErrors(err))
	}
	if c.QueryParam("horizon") != "" {
		opts.Horizon = &horizon
	}
	if errs := checkRequest(c, &opts); errs != nil {
		return badRequest(c, errs)
	}

	ctx := c.Request().Context()
	series, err := s.store.LoadSeries(ctx, c.Param("name"))
	if err != nil {
		return errorResponse(c, err)
	}
	result, err := s.run(series, opts)
	if err != nil {
		return errorResponse(c, err)
	}

	resp := AnalysisResponse{Document: report.NewDocument(result)}
	if save {
		if resp.AnalysisID, err = s.store.SaveAnalysis(ctx, result); err != nil {
			return errorResponse(c, err)
		}
	}
	return dataResponse(c, http.StatusOK, resp)
}

// listAnalyses returns the stored analysis summaries of a series, newest
// first.
func (s *Server) listAnalyses(c echo.Context) error {
	records, err := s.store.ListAnalyses(c.Request().Context(), c.Param("name"))
	if err != nil {
		return errorResponse(c, err)
	}
	rows := make([]AnalysisRecordResponse, len(records))
	for i, rec := range records {
		rows[i] = AnalysisRecordResponse{
			ID:          rec.ID,
			Mode:        rec.Mode,
			TrendMethod: rec.TrendMethod,
			Intercept:   rec.Intercept,
			Slope:       rec.Slope,
			MAE:         rec.MAE,
			MSE:         rec.MSE,
			RMSE:        rec.RMSE,
			MAPE:        rec.MAPE,
			Indices:     append([]float64(nil), rec.Indices[:]...),
			CreatedAt:   rec.CreatedAt,
		}
	}
	return dataResponse(c, http.StatusOK, rows)
}

func (s *Server) buildSeries(name string, in SeriesInput) (*timeseries.Series, error) {
	n := len(in.Values)
	if len(in.Observations) > 0 {
		n = len(in.Observations)
	}
	if n > s.cfg.MaxObservations {
		return nil, &AppError{
			Code:    "ERR_MAX",
			Message: fmt.Sprintf("series must hold at most %d observations, got %d", s.cfg.MaxObservations, n),
			Status:  http.StatusBadRequest,
		}
	}

	var (
		series *timeseries.Series
		err    error
	)
	if len(in.Observations) > 0 {
		obs := make([]timeseries.Observation, len(in.Observations))
		for i, o := range in.Observations {
			period, perr := timeseries.ParsePeriod(o.Period)
			if perr != nil {
				return nil, invalidPeriod(fmt.Sprintf("observations[%d].period", i), perr)
			}
			obs[i] = timeseries.Observation{Index: o.T, Cycle: o.Cycle, Period: period, Value: o.Value}
		}
		series, err = timeseries.Load(obs)
	} else {
		start, perr := timeseries.ParsePeriod(in.StartPeriod)
		if perr != nil {
			return nil, invalidPeriod("start_period", perr)
		}
		series, err = timeseries.NewFrom(in.Values, *in.StartCycle, start)
	}
	if err != nil {
		return nil, err
	}
	series.Name = name
	return series, nil
}

func invalidPeriod(field string, err error) *AppError {
	return &AppError{
		Code:    "ERR_INVALID_PERIOD",
		Field:   field,
		Message: err.Error(),
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// run applies request options over the server defaults and runs the pipeline.
func (s *Server) run(series *timeseries.Series, in AnalysisOptions) (*analysis.Result, error) {
	opts := s.analysis
	if in.Mode != "" {
		opts.Mode = seasonal.Mode(in.Mode)
	}
	if in.Trend != "" {
		opts.Trend = trend.Method(in.Trend)
	}
	if in.Alignment != "" {
		opts.Alignment = smoothing.Alignment(in.Alignment)
	}
	if in.Horizon != nil {
		opts.Horizon = *in.Horizon
	}
	opts.Logger = s.log

	start := time.Now()
	result, err := analysis.Run(series, opts)
	if err != nil {
		s.metrics.RecordAnalysis(string(opts.Mode), "error", series.Len(), 0)
		return nil, err
	}
	s.metrics.RecordAnalysis(string(opts.Mode), "ok", series.Len(), time.Since(start))
	return result, nil
}
