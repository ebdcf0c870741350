package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sartorproj/goseasonal/internal/metrics"
	"github.com/sartorproj/goseasonal/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	addAnalysisFlags(cmd)
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := analysisOptions()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	serverCfg := cfg.Server
	serverCfg.Addr = serveAddr

	var metricsPath string
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	srv := server.New(server.Options{
		Config:      serverCfg,
		Analysis:    opts,
		Store:       st,
		Metrics:     metrics.New(),
		MetricsPath: metricsPath,
		Logger:      log,
	})
	return srv.Run(ctx)
}
