package seasonal

import (
	"fmt"
	"strings"
)

// Mode selects how trend and seasonal components combine.
type Mode string

const (
	// Additive combines components by addition, Y = T + S + e.
	Additive Mode = "additive"
	// Multiplicative combines components by multiplication, Y = T * S * e.
	Multiplicative Mode = "multiplicative"
)

// ParseMode parses a mode name. Empty selects Multiplicative.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Multiplicative, "":
		return Multiplicative, nil
	case Additive:
		return Additive, nil
	default:
		return "", fmt.Errorf("unknown decomposition mode %q", s)
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == Additive || m == Multiplicative
}

// Combine joins a trend value and a seasonal effect.
func (m Mode) Combine(trend, seasonal float64) float64 {
	if m == Multiplicative {
		return trend * seasonal
	}
	return trend + seasonal
}

// Remove takes a component out of a value: y/c in multiplicative mode,
// y-c in additive mode.
func (m Mode) Remove(value, component float64) float64 {
	if m == Multiplicative {
		return value / component
	}
	return value - component
}
