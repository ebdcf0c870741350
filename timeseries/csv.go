package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	IndexColumn  string // Column name for the time index (optional)
	CycleColumn  string // Column name for the cycle, e.g. year (optional)
	PeriodColumn string // Column name for the period label (optional)
	ValueColumn  string // Column name for values (default: first of sales, value, y)
	StartCycle   int    // Cycle of the first row when no cycle column exists
	StartPeriod  Period // Period of the first row when no period column exists
	Delimiter    rune   // Field delimiter (default: ',')
	SkipRows     int    // Number of rows to skip before the header
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		StartCycle: 1,
		Delimiter:  ',',
	}
}

// LoadCSV loads a series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	series, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return series, nil
}

type csvColumns struct {
	index, cycle, period, value int
}

// LoadCSVFromReader loads a series from an io.Reader. The header row is
// required. When index, period or cycle columns are missing they are
// generated from the row position and the start options.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: csv has no header", ErrEmptyInput)
		}
		return nil, err
	}
	cols := findColumns(header, opts)
	if cols.value == -1 {
		return nil, fmt.Errorf("value column not found in header %v", header)
	}

	var observations []Observation
	period, cycle := opts.StartPeriod, opts.StartCycle
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		o := Observation{Index: row, Period: period, Cycle: cycle}
		o.Value, err = parseFloatField(record, cols.value)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if cols.index >= 0 {
			if o.Index, err = parseIntField(record, cols.index); err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
		}
		if cols.cycle >= 0 {
			if o.Cycle, err = parseIntField(record, cols.cycle); err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
		}
		if cols.period >= 0 {
			if o.Period, err = ParsePeriod(field(record, cols.period)); err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
		}
		observations = append(observations, o)

		period = o.Period.Next()
		cycle = o.Cycle
		if period == 0 {
			cycle++
		}
	}

	if len(observations) == 0 {
		return nil, fmt.Errorf("%w: no data rows in csv", ErrEmptyInput)
	}
	return Load(observations)
}

func findColumns(header []string, opts *CSVOptions) csvColumns {
	cols := csvColumns{index: -1, cycle: -1, period: -1, value: -1}
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		lower := strings.ToLower(h)
		switch {
		case opts.ValueColumn != "" && h == opts.ValueColumn:
			cols.value = i
		case opts.IndexColumn != "" && h == opts.IndexColumn:
			cols.index = i
		case opts.CycleColumn != "" && h == opts.CycleColumn:
			cols.cycle = i
		case opts.PeriodColumn != "" && h == opts.PeriodColumn:
			cols.period = i
		case opts.ValueColumn == "" && (lower == "sales" || lower == "value" || lower == "y"):
			if cols.value == -1 {
				cols.value = i
			}
		case opts.IndexColumn == "" && (lower == "t" || lower == "index"):
			if cols.index == -1 {
				cols.index = i
			}
		case opts.CycleColumn == "" && (lower == "year" || lower == "cycle"):
			if cols.cycle == -1 {
				cols.cycle = i
			}
		case opts.PeriodColumn == "" && (lower == "quarter" || lower == "period"):
			if cols.period == -1 {
				cols.period = i
			}
		}
	}
	return cols
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(record[idx], "\""))
}

func parseFloatField(record []string, idx int) (float64, error) {
	s := field(record, idx)
	if s == "" || s == "NA" || s == "NaN" || s == "null" {
		return 0, fmt.Errorf("%w: missing value", ErrDegenerateInput)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse value %q: %w", s, err)
	}
	return v, nil
}

func parseIntField(record []string, idx int) (int, error) {
	s := field(record, idx)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse integer %q: %w", s, err)
	}
	return v, nil
}
