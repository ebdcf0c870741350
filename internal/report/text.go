// Package report renders analysis results as terminal tables or JSON.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sartorproj/goseasonal/analysis"
	"github.com/sartorproj/goseasonal/internal/store"
	"github.com/sartorproj/goseasonal/seasonal"
	"github.com/sartorproj/goseasonal/timeseries"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
)

const missing = "-"

// WriteText writes every section of an analysis as terminal tables.
func WriteText(w io.Writer, result *analysis.Result) error {
	sections := []string{
		header(result),
		section("Summary", summaryTable(result)),
		section("Complete table", completeTable(result)),
		section("Seasonal indices", indexTable(result)),
		section("Accuracy", accuracyTable(result)),
	}
	if len(result.Forecasts) > 0 {
		sections = append(sections, section("Forecast", forecastTable(result)))
	}
	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	return err
}

func header(result *analysis.Result) string {
	series := result.Series
	name := series.Name
	if name == "" {
		name = "series"
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s: %s model", name, result.Mode)),
		mutedStyle.Render(fmt.Sprintf("%d observations, %s to %s", series.Len(), series.First().Label(), series.Last().Label())),
		fmt.Sprintf("Trend (%s): %s", result.Trend.Method, result.Trend),
	}
	return strings.Join(lines, "\n")
}

func section(title, body string) string {
	return titleStyle.Render(title) + "\n" + body
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
}

func summaryTable(result *analysis.Result) string {
	s := result.Series
	return newTable("n", "min", "max", "mean", "std").
		Row(strconv.Itoa(s.Len()), number(s.Min()), number(s.Max()), number(s.Mean()), number(s.Std())).
		String()
}

func completeTable(result *analysis.Result) string {
	component := "S-T"
	if result.Mode == seasonal.Multiplicative {
		component = "S/T"
	}
	t := newTable("period", "t", "value", "MA", "CMA", "trend", component, "seasonal", "estimate", "CVS", "dev %")
	for i, p := range result.Points {
		ma, cma := missing, missing
		if i < len(result.Smoothed) {
			ma = number(result.Smoothed[i].Simple)
			cma = number(result.Smoothed[i].Centered)
		}
		t.Row(
			p.Label(),
			strconv.Itoa(p.Index),
			number(p.Value),
			ma,
			cma,
			number(p.Trend),
			ratio(p.Detrended, result.Mode),
			ratio(p.Seasonal, result.Mode),
			number(p.Estimated),
			number(p.Deseasonalized),
			fmt.Sprintf("%+.2f", p.DeviationPercent()),
		)
	}
	return t.String()
}

func indexTable(result *analysis.Result) string {
	t := newTable("period", "samples", "raw", "adjusted", "rank")
	rank := make(map[int]int, len(result.Profile.Indices))
	for i, p := range result.Profile.Ranked() {
		rank[int(p)] = i + 1
	}
	for _, idx := range result.Profile.Indices {
		t.Row(
			idx.Period.String(),
			strconv.Itoa(len(idx.Samples)),
			ratio(idx.Raw, result.Mode),
			ratio(idx.Adjusted, result.Mode),
			strconv.Itoa(rank[int(idx.Period)]),
		)
	}
	correction := fmt.Sprintf("correction %s", ratio(result.Profile.Correction, result.Mode))
	return t.String() + "\n" + mutedStyle.Render(correction)
}

func accuracyTable(result *analysis.Result) string {
	a := result.Accuracy
	return newTable("n", "MAE", "MSE", "RMSE", "MAPE %").
		Row(strconv.Itoa(a.N), number(a.MAE), number(a.MSE), number(a.RMSE), fmt.Sprintf("%.2f", a.MAPE)).
		String()
}

func forecastTable(result *analysis.Result) string {
	t := newTable("period", "t", "trend", "seasonal", "forecast")
	for _, f := range result.Forecasts {
		t.Row(f.Label(), strconv.Itoa(f.Index), number(f.Trend), ratio(f.Seasonal, result.Mode), number(f.Value))
	}
	return t.String()
}

// WriteSeriesList writes stored series as a table.
func WriteSeriesList(w io.Writer, infos []store.SeriesInfo) error {
	if len(infos) == 0 {
		_, err := io.WriteString(w, mutedStyle.Render("no stored series")+"\n")
		return err
	}
	t := newTable("name", "observations", "first", "last", "updated")
	for _, info := range infos {
		t.Row(info.Name, strconv.Itoa(info.Observations), info.First, info.Last, info.UpdatedAt.Format("2006-01-02 15:04"))
	}
	_, err := io.WriteString(w, t.String()+"\n")
	return err
}

// WriteHistory writes stored analysis summaries as a table.
func WriteHistory(w io.Writer, name string, records []store.AnalysisRecord) error {
	if len(records) == 0 {
		_, err := io.WriteString(w, mutedStyle.Render("no stored analyses for "+name)+"\n")
		return err
	}
	headers := []string{"id", "created", "mode", "trend", "slope", "RMSE", "MAPE %"}
	for p := timeseries.Period(0); p < timeseries.PeriodLength; p++ {
		headers = append(headers, p.String())
	}
	t := newTable(headers...)
	for _, rec := range records {
		mode := seasonal.Mode(rec.Mode)
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.Mode,
			rec.TrendMethod,
			number(rec.Slope),
			number(rec.RMSE),
			fmt.Sprintf("%.2f", rec.MAPE),
		}
		for _, idx := range rec.Indices {
			row = append(row, ratio(idx, mode))
		}
		t.Row(row...)
	}
	_, err := io.WriteString(w, titleStyle.Render(name)+"\n"+t.String()+"\n")
	return err
}

func number(v float64) string {
	if math.IsNaN(v) {
		return missing
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ratio formats seasonal quantities: four decimals for multiplicative
// factors, two for additive offsets.
func ratio(v float64, mode seasonal.Mode) string {
	if math.IsNaN(v) {
		return missing
	}
	if mode == seasonal.Multiplicative {
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
