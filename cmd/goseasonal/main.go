// Package main provides the CLI entrypoint for goseasonal.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sartorproj/goseasonal/analysis"
	"github.com/sartorproj/goseasonal/internal/config"
	"github.com/sartorproj/goseasonal/internal/logger"
	"github.com/sartorproj/goseasonal/internal/report"
	"github.com/sartorproj/goseasonal/internal/store"
	"github.com/sartorproj/goseasonal/seasonal"
	"github.com/sartorproj/goseasonal/smoothing"
	"github.com/sartorproj/goseasonal/timeseries"
	"github.com/sartorproj/goseasonal/trend"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// demoSales is the quarterly sales scenario of 2018 to 2021.
var demoSales = []float64{
	5030, 6030, 7030, 5780,
	5280, 6780, 7530, 6530,
	5530, 7280, 8530, 7030,
	6280, 8280, 9280, 7780,
}

var (
	configPath string
	logLevel   string
	logFormat  string

	cfg       *config.Config
	log       zerolog.Logger
	logCloser io.Closer

	analyzeMode        string
	analyzeTrend       string
	analyzeAlignment   string
	analyzeHorizon     int
	analyzeFormat      string
	analyzeSave        bool
	analyzeSeries      string
	analyzeName        string
	analyzeStartCycle  int
	analyzeStartPeriod string
	analyzeValueColumn string

	storePath string
	serveAddr string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "goseasonal",
		Short:             "Classical seasonal decomposition and forecasting of quarterly series",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "goseasonal.yaml", "config file (.yaml or .toml)")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	flags.StringVar(&storePath, "db", "goseasonal.db", "SQLite database path")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// setup loads the configuration file, lets explicitly set flags override it
// and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyStringConfig(cmd, "log-level", &logLevel, cfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, cfg.Log.Format)
	applyStringConfig(cmd, "db", &storePath, cfg.Store.Path)
	applyStringConfig(cmd, "mode", &analyzeMode, cfg.Analysis.Mode)
	applyStringConfig(cmd, "trend", &analyzeTrend, cfg.Analysis.Trend)
	applyStringConfig(cmd, "alignment", &analyzeAlignment, cfg.Analysis.Alignment)
	applyIntConfig(cmd, "horizon", &analyzeHorizon, cfg.Analysis.Horizon)
	applyStringConfig(cmd, "addr", &serveAddr, cfg.Server.Addr)

	log, logCloser, err = logger.New(logger.Config{
		Level:  logLevel,
		Format: logFormat,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	return nil
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&analyzeMode, "mode", string(seasonal.Multiplicative), "decomposition model (additive, multiplicative)")
	cmd.Flags().StringVar(&analyzeTrend, "trend", string(trend.MethodLeastSquares), "trend method (least-squares, semi-average)")
	cmd.Flags().StringVar(&analyzeAlignment, "alignment", string(smoothing.Forward), "centered average alignment (forward, backward)")
	cmd.Flags().IntVar(&analyzeHorizon, "horizon", timeseries.PeriodLength, "number of quarters to forecast")
	cmd.Flags().StringVar(&analyzeFormat, "format", formatText, "output format (text, json)")
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file.csv]",
		Short: "Decompose and forecast a series from a CSV file or the store",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyzeCmd,
	}
	addAnalysisFlags(cmd)
	cmd.Flags().StringVar(&analyzeSeries, "series", "", "analyse a stored series instead of a file")
	cmd.Flags().StringVar(&analyzeName, "name", "", "series name (default: file name)")
	cmd.Flags().BoolVar(&analyzeSave, "save", false, "store the series and the analysis summary")
	addCSVFlags(cmd)
	return cmd
}

func addCSVFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&analyzeStartCycle, "start-cycle", 1, "cycle of the first row when the file has no cycle column")
	cmd.Flags().StringVar(&analyzeStartPeriod, "start-period", "T1", "period of the first row when the file has no period column")
	cmd.Flags().StringVar(&analyzeValueColumn, "value-column", "", "value column name")
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if (len(args) == 1) == (analyzeSeries != "") {
		return fmt.Errorf("give either a CSV file or --series")
	}

	var (
		series *timeseries.Series
		st     *store.Store
		err    error
	)
	if analyzeSeries != "" || analyzeSave {
		if st, err = openStore(); err != nil {
			return err
		}
		defer closeStore(st)
	}

	if analyzeSeries != "" {
		series, err = st.LoadSeries(ctx, analyzeSeries)
	} else {
		series, err = loadCSV(args[0])
	}
	if err != nil {
		return err
	}

	result, err := runAnalysis(series)
	if err != nil {
		return err
	}

	if analyzeSave {
		if analyzeSeries == "" {
			if err := st.SaveSeries(ctx, series); err != nil {
				return fmt.Errorf("failed to save series: %w", err)
			}
		}
		id, err := st.SaveAnalysis(ctx, result)
		if err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
		log.Info().Str("series", series.Name).Int64("analysis_id", id).Msg("analysis saved")
	}
	return writeResult(cmd.OutOrStdout(), result)
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Analyse the built-in quarterly sales scenario (2018-2021)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			series, err := timeseries.New(demoSales, 2018)
			if err != nil {
				return err
			}
			series.Name = "quarterly-sales"
			result, err := runAnalysis(series)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), result)
		},
	}
	addAnalysisFlags(cmd)
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <name> <file.csv>",
		Short: "Store a series from a CSV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := loadCSV(args[1])
			if err != nil {
				return err
			}
			series.Name = args[0]

			st, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			if err := st.SaveSeries(cmd.Context(), series); err != nil {
				return fmt.Errorf("failed to save series: %w", err)
			}
			log.Info().
				Str("series", series.Name).
				Int("observations", series.Len()).
				Str("first", series.First().Label()).
				Str("last", series.Last().Label()).
				Msg("series imported")
			return nil
		},
	}
	addCSVFlags(cmd)
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			infos, err := st.ListSeries(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list series: %w", err)
			}
			return report.WriteSeriesList(cmd.OutOrStdout(), infos)
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <name>",
		Short: "List stored analyses of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			records, err := st.ListAnalyses(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list analyses: %w", err)
			}
			return report.WriteHistory(cmd.OutOrStdout(), args[0], records)
		},
	}
}

// analysisOptions builds pipeline options from the resolved flags.
func analysisOptions() (analysis.Options, error) {
	opts := analysis.DefaultOptions()

	mode, err := seasonal.ParseMode(analyzeMode)
	if err != nil {
		return opts, err
	}
	alignment, err := smoothing.ParseAlignment(analyzeAlignment)
	if err != nil {
		return opts, err
	}
	if _, err := trend.ForMethod(trend.Method(analyzeTrend)); err != nil {
		return opts, err
	}

	opts.Mode = mode
	opts.Trend = trend.Method(analyzeTrend)
	opts.Alignment = alignment
	opts.Horizon = analyzeHorizon
	opts.Logger = log
	return opts, nil
}

func runAnalysis(series *timeseries.Series) (*analysis.Result, error) {
	opts, err := analysisOptions()
	if err != nil {
		return nil, err
	}
	result, err := analysis.Run(series, opts)
	if err != nil {
		return nil, fmt.Errorf("analyse %q: %w", series.Name, err)
	}
	return result, nil
}

func writeResult(w io.Writer, result *analysis.Result) error {
	switch analyzeFormat {
	case formatJSON:
		return report.WriteJSON(w, result)
	case formatText, "":
		return report.WriteText(w, result)
	default:
		return fmt.Errorf("unknown format %q (use text or json)", analyzeFormat)
	}
}

func loadCSV(path string) (*timeseries.Series, error) {
	start, err := timeseries.ParsePeriod(analyzeStartPeriod)
	if err != nil {
		return nil, err
	}
	opts := timeseries.DefaultCSVOptions()
	opts.StartCycle = analyzeStartCycle
	opts.StartPeriod = start
	opts.ValueColumn = analyzeValueColumn

	series, err := timeseries.LoadCSV(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	series.Name = analyzeName
	if series.Name == "" {
		series.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	log.Debug().Str("path", path).Int("observations", series.Len()).Msg("series loaded")
	return series, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close db")
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target *string, value string) {
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntConfig(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

