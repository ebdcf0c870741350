// Package timeseries provides the observation store shared by every analysis stage.
//
// A Series is an ordered, validated sequence of quarterly observations. Each
// observation carries a sequential index starting at 1, its period within the
// cycle (T1..T4), the cycle itself (typically a year) and the observed value.
// Series are immutable once loaded; accessors hand out copies.
//
// # Creating a Series
//
// Create a series from raw values starting in the first quarter of 2018:
//
//	values := []float64{5030, 6030, 7030, 5780, 5280, 6780, 7530, 6530}
//	series, err := timeseries.New(values, 2018)
//
// Or validate explicit observations:
//
//	series, err := timeseries.Load([]timeseries.Observation{
//	    {Index: 1, Period: 0, Cycle: 2018, Value: 5030},
//	    {Index: 2, Period: 1, Cycle: 2018, Value: 6030},
//	    {Index: 3, Period: 2, Cycle: 2018, Value: 7030},
//	})
//
// # Loading from CSV
//
// Columns are detected from the header (t, year, quarter, sales and a few
// aliases). Missing index or label columns are generated:
//
//	series, err := timeseries.LoadCSV("sales.csv", nil)
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.ValueColumn = "revenue"
//	opts.StartCycle = 2018
//	series, err := timeseries.LoadCSVFromReader(reader, opts)
//
// # Errors
//
// The package also defines the error taxonomy used by every stage:
// ErrDegenerateInput, ErrInsufficientData, ErrModelDomain, ErrEmptyInput and
// ErrInvalidPeriod. Match them with errors.Is.
package timeseries
