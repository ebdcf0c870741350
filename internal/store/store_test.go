package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/sartorproj/goseasonal/analysis"
	"github.com/sartorproj/goseasonal/seasonal"
	"github.com/sartorproj/goseasonal/timeseries"
)

var sales = []float64{
	5030, 6030, 7030, 5780,
	5280, 6780, 7530, 6530,
	5530, 7280, 8530, 7030,
	6280, 8280, 9280, 7780,
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "goseasonal.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func salesSeries(t *testing.T, name string, values []float64) *timeseries.Series {
	t.Helper()
	series, err := timeseries.NewFrom(values, 2018, 0)
	if err != nil {
		t.Fatalf("Failed to build series: %v", err)
	}
	series.Name = name
	return series
}

func TestSaveAndLoadSeries(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.SaveSeries(ctx, salesSeries(t, "sales", sales)); err != nil {
		t.Fatalf("SaveSeries failed: %v", err)
	}

	loaded, err := s.LoadSeries(ctx, "sales")
	if err != nil {
		t.Fatalf("LoadSeries failed: %v", err)
	}
	if loaded.Name != "sales" || loaded.Len() != len(sales) {
		t.Fatalf("Unexpected series %q with %d points", loaded.Name, loaded.Len())
	}
	for i, v := range loaded.Values() {
		if v != sales[i] {
			t.Errorf("Value %d: expected %v, got %v", i, sales[i], v)
		}
	}
	if got := loaded.Last().Label(); got != "2021-T4" {
		t.Errorf("Expected last label 2021-T4, got %s", got)
	}
}

func TestSaveSeriesReplaces(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.SaveSeries(ctx, salesSeries(t, "sales", sales)); err != nil {
		t.Fatalf("SaveSeries failed: %v", err)
	}
	if err := s.SaveSeries(ctx, salesSeries(t, "sales", sales[:8])); err != nil {
		t.Fatalf("SaveSeries failed: %v", err)
	}

	loaded, err := s.LoadSeries(ctx, "sales")
	if err != nil {
		t.Fatalf("LoadSeries failed: %v", err)
	}
	if loaded.Len() != 8 {
		t.Errorf("Expected 8 observations after replace, got %d", loaded.Len())
	}
}

func TestSaveSeriesRequiresName(t *testing.T) {
	s := openStore(t)
	if err := s.SaveSeries(context.Background(), salesSeries(t, "", sales)); err == nil {
		t.Error("Expected error for unnamed series")
	}
}

func TestLoadSeriesNotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.LoadSeries(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListSeries(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	for _, name := range []string{"west", "east"} {
		if err := s.SaveSeries(ctx, salesSeries(t, name, sales[:12])); err != nil {
			t.Fatalf("SaveSeries failed: %v", err)
		}
	}

	infos, err := s.ListSeries(ctx)
	if err != nil {
		t.Fatalf("ListSeries failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 series, got %d", len(infos))
	}
	if infos[0].Name != "east" || infos[1].Name != "west" {
		t.Errorf("Expected name order, got %s, %s", infos[0].Name, infos[1].Name)
	}
	if infos[0].Observations != 12 || infos[0].First != "2018-T1" || infos[0].Last != "2020-T4" {
		t.Errorf("Unexpected info %+v", infos[0])
	}
	if infos[0].UpdatedAt.IsZero() {
		t.Error("Expected update time")
	}
}

func TestListSeriesNegativeCycle(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	series, err := timeseries.NewFrom(sales[:6], -1, 2)
	if err != nil {
		t.Fatalf("Failed to build series: %v", err)
	}
	series.Name = "early"
	if err := s.SaveSeries(ctx, series); err != nil {
		t.Fatalf("SaveSeries failed: %v", err)
	}

	infos, err := s.ListSeries(ctx)
	if err != nil {
		t.Fatalf("ListSeries failed: %v", err)
	}
	if len(infos) != 1 || infos[0].First != "-1-T3" || infos[0].Last != "0-T4" {
		t.Errorf("Unexpected info %+v", infos)
	}
}

func TestListAnalysesUnknownSeries(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if _, err := s.ListAnalyses(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := s.SaveSeries(ctx, salesSeries(t, "sales", sales)); err != nil {
		t.Fatalf("SaveSeries failed: %v", err)
	}
	records, err := s.ListAnalyses(ctx, "sales")
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no analyses, got %d", len(records))
	}
}

func TestSaveAnalysis(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	series := salesSeries(t, "sales", sales)

	for _, mode := range []seasonal.Mode{seasonal.Multiplicative, seasonal.Additive} {
		opts := analysis.DefaultOptions()
		opts.Mode = mode
		result, err := analysis.Run(series, opts)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if _, err := s.SaveAnalysis(ctx, result); err != nil {
			t.Fatalf("SaveAnalysis failed: %v", err)
		}
	}

	records, err := s.ListAnalyses(ctx, "sales")
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 analyses, got %d", len(records))
	}

	add := records[0]
	if add.Mode != "additive" || add.TrendMethod != "least-squares" {
		t.Errorf("Expected newest additive least-squares record, got %+v", add)
	}
	if math.Abs(add.Slope-177.94117647058823) > 1e-9 {
		t.Errorf("Unexpected slope %v", add.Slope)
	}
	sum := 0.0
	for _, v := range add.Indices {
		sum += v
	}
	if math.Abs(sum) > 1e-6 {
		t.Errorf("Expected additive indices to sum to zero, got %v", sum)
	}

	mul := records[1]
	product := 1.0
	for _, v := range mul.Indices {
		product *= v
	}
	if math.Abs(product-1) > 1e-6 {
		t.Errorf("Expected multiplicative indices product 1, got %v", product)
	}
	if mul.RMSE <= 0 {
		t.Errorf("Expected stored RMSE, got %v", mul.RMSE)
	}
}
