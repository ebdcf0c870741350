// Package store persists series and analysis summaries in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sartorproj/goseasonal/analysis"
	"github.com/sartorproj/goseasonal/timeseries"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound reports an unknown series name.
var ErrNotFound = errors.New("series not found")

// SeriesInfo summarizes a stored series.
type SeriesInfo struct {
	Name         string
	Observations int
	First        string
	Last         string
	UpdatedAt    time.Time
}

// AnalysisRecord is a stored analysis summary.
type AnalysisRecord struct {
	ID          int64
	Series      string
	Mode        string
	TrendMethod string
	Intercept   float64
	Slope       float64
	MAE         float64
	MSE         float64
	RMSE        float64
	MAPE        float64
	Indices     [timeseries.PeriodLength]float64
	CreatedAt   time.Time
}

// Store wraps SQLite access.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS series (
			name TEXT PRIMARY KEY,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS observations (
			series_name TEXT NOT NULL,
			idx INTEGER NOT NULL,
			cycle INTEGER NOT NULL,
			period INTEGER NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (series_name, idx)
		);`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY,
			series_name TEXT NOT NULL,
			mode TEXT NOT NULL,
			trend_method TEXT NOT NULL,
			intercept REAL NOT NULL,
			slope REAL NOT NULL,
			mae REAL NOT NULL,
			mse REAL NOT NULL,
			rmse REAL NOT NULL,
			mape REAL NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS seasonal_indices (
			analysis_id INTEGER NOT NULL,
			period INTEGER NOT NULL,
			raw REAL NOT NULL,
			adjusted REAL NOT NULL,
			PRIMARY KEY (analysis_id, period)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_series ON analyses(series_name);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSeries stores a series under its name, replacing any previous
// observations stored under the same name.
func (s *Store) SaveSeries(ctx context.Context, series *timeseries.Series) (err error) {
	if series.Name == "" {
		return errors.New("series name is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO series (name, updated_at) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at`,
		series.Name, now); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM observations WHERE series_name = ?`, series.Name); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observations (series_name, idx, cycle, period, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, o := range series.Observations() {
		if _, err = stmt.ExecContext(ctx, series.Name, o.Index, o.Cycle, int(o.Period), o.Value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadSeries reads a stored series. It returns ErrNotFound for unknown names.
func (s *Store) LoadSeries(ctx context.Context, name string) (*timeseries.Series, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, cycle, period, value FROM observations WHERE series_name = ? ORDER BY idx`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obs []timeseries.Observation
	for rows.Next() {
		var (
			o      timeseries.Observation
			period int
		)
		if err := rows.Scan(&o.Index, &o.Cycle, &period, &o.Value); err != nil {
			return nil, err
		}
		o.Period = timeseries.Period(period)
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	series, err := timeseries.Load(obs)
	if err != nil {
		return nil, fmt.Errorf("load series %q: %w", name, err)
	}
	series.Name = name
	return series, nil
}

// ListSeries returns every stored series ordered by name.
func (s *Store) ListSeries(ctx context.Context) ([]SeriesInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`WITH bounds AS (
			SELECT series_name, COUNT(*) AS n, MIN(idx) AS first_idx, MAX(idx) AS last_idx
			FROM observations GROUP BY series_name
		)
		SELECT s.name, s.updated_at, COALESCE(b.n, 0),
			COALESCE(f.cycle, 0), COALESCE(f.period, 0),
			COALESCE(l.cycle, 0), COALESCE(l.period, 0)
		FROM series s
		LEFT JOIN bounds b ON b.series_name = s.name
		LEFT JOIN observations f ON f.series_name = s.name AND f.idx = b.first_idx
		LEFT JOIN observations l ON l.series_name = s.name AND l.idx = b.last_idx
		ORDER BY s.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SeriesInfo
	for rows.Next() {
		var (
			info        SeriesInfo
			updated     string
			first, last timeseries.Observation
		)
		if err := rows.Scan(&info.Name, &updated, &info.Observations,
			&first.Cycle, &first.Period, &last.Cycle, &last.Period); err != nil {
			return nil, err
		}
		if info.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, err
		}
		if info.Observations > 0 {
			info.First = first.Label()
			info.Last = last.Label()
		}
		result = append(result, info)
	}
	return result, rows.Err()
}

// SaveAnalysis stores the summary of an analysis run: trend, accuracy and
// seasonal indices. Decomposed points and forecasts are derived data and are
// not stored.
func (s *Store) SaveAnalysis(ctx context.Context, result *analysis.Result) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO analyses (series_name, mode, trend_method, intercept, slope, mae, mse, rmse, mape, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Series.Name,
		string(result.Mode),
		string(result.Trend.Method),
		result.Trend.Intercept,
		result.Trend.Slope,
		result.Accuracy.MAE,
		result.Accuracy.MSE,
		result.Accuracy.RMSE,
		result.Accuracy.MAPE,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, err
	}

	for _, idx := range result.Profile.Indices {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO seasonal_indices (analysis_id, period, raw, adjusted) VALUES (?, ?, ?, ?)`,
			id, int(idx.Period), idx.Raw, idx.Adjusted); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListAnalyses returns the stored analyses of a series, newest first. It
// returns ErrNotFound when the name has neither stored observations nor
// stored analyses.
func (s *Store) ListAnalyses(ctx context.Context, name string) ([]AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, series_name, mode, trend_method, intercept, slope, mae, mse, rmse, mape, created_at
		 FROM analyses WHERE series_name = ? ORDER BY id DESC`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AnalysisRecord
	for rows.Next() {
		var (
			rec     AnalysisRecord
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.Series, &rec.Mode, &rec.TrendMethod, &rec.Intercept, &rec.Slope,
			&rec.MAE, &rec.MSE, &rec.RMSE, &rec.MAPE, &created); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(result) == 0 {
		var n int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM series WHERE name = ?`, name).Scan(&n); err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return result, nil
	}

	for i := range result {
		if err := s.loadIndices(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) loadIndices(ctx context.Context, rec *AnalysisRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT period, adjusted FROM seasonal_indices WHERE analysis_id = ? ORDER BY period`, rec.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			period   int
			adjusted float64
		)
		if err := rows.Scan(&period, &adjusted); err != nil {
			return err
		}
		if timeseries.Period(period).Valid() {
			rec.Indices[period] = adjusted
		}
	}
	return rows.Err()
}
