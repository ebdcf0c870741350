package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sartorproj/goseasonal/internal/store"
	"github.com/sartorproj/goseasonal/timeseries"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError is one entry of an error response.
type ValidationError struct {
	Code    string                 `json:"code,omitempty"`
	Field   string                 `json:"field,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// AppError is an application error carrying its HTTP status.
type AppError struct {
	Code    string
	Field   string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

func dataResponse(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, APIResponse{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

func badRequest(c echo.Context, errs []ValidationError) error {
	return dataResponse(c, http.StatusBadRequest, errs)
}

// engineCodes maps analysis sentinels to error codes.
var engineCodes = []struct {
	err  error
	code string
}{
	{timeseries.ErrDegenerateInput, "ERR_DEGENERATE_INPUT"},
	{timeseries.ErrInsufficientData, "ERR_INSUFFICIENT_DATA"},
	{timeseries.ErrModelDomain, "ERR_MODEL_DOMAIN"},
	{timeseries.ErrEmptyInput, "ERR_EMPTY_INPUT"},
	{timeseries.ErrInvalidPeriod, "ERR_INVALID_PERIOD"},
}

// classify turns an error into an AppError with the matching status.
func classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, store.ErrNotFound) {
		return &AppError{Code: "ERR_NOT_FOUND", Message: err.Error(), Status: http.StatusNotFound, Err: err}
	}
	for _, ec := range engineCodes {
		if errors.Is(err, ec.err) {
			return &AppError{Code: ec.code, Message: err.Error(), Status: http.StatusUnprocessableEntity, Err: err}
		}
	}
	return &AppError{Code: "ERR_INTERNAL", Message: "Something went wrong", Status: http.StatusInternalServerError, Err: err}
}

func errorResponse(c echo.Context, err error) error {
	appErr := classify(err)
	if appErr.Status >= http.StatusInternalServerError {
		c.Set(errorKey, err)
	}
	return dataResponse(c, appErr.Status, []ValidationError{{
		Code:    appErr.Code,
		Field:   appErr.Field,
		Message: appErr.Message,
	}})
}
