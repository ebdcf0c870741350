package timeseries

import "errors"

// Errors shared by every analysis stage. Stages wrap them with context, so
// callers should match with errors.Is.
var (
	// ErrDegenerateInput reports a series a trend cannot be fitted to: too
	// few observations or time indices that are not strictly sequential.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrInsufficientData reports a seasonal period with no supporting
	// observations.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrModelDomain reports a non-positive value where the multiplicative
	// model requires strict positivity.
	ErrModelDomain = errors.New("value outside model domain")

	// ErrEmptyInput reports an aggregation over zero points.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidPeriod reports a period length or label the engine cannot use.
	ErrInvalidPeriod = errors.New("invalid period")
)
