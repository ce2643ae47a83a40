package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/guttosm/tradewindow/config"
	"github.com/guttosm/tradewindow/internal/app"
	"github.com/guttosm/tradewindow/internal/domain/dto"
	"github.com/guttosm/tradewindow/internal/ingestion"
	"github.com/guttosm/tradewindow/internal/logger"
	"github.com/guttosm/tradewindow/internal/service"
)

// batchEntry is one line of `batch` output.
type batchEntry struct {
	File   string             `json:"file" yaml:"file"`
	Result *dto.TradeResponse `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string             `json:"error,omitempty" yaml:"error,omitempty"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tradewindow",
		Short:         "Best single buy/sell trade over a price series",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			config.LoadConfig()
			out := io.Writer(os.Stderr)
			if cmd.Name() == "serve" {
				out = os.Stdout
			}
			logger.Init(logger.Options{
				Level:  config.AppConfig.Log.Level,
				Pretty: config.AppConfig.Log.Pretty,
				Out:    out,
			})
		},
	}

	root.AddCommand(serveCmd(), analyzeCmd(), batchCmd())
	return root
}

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = config.AppConfig.Server.Port
			}

			router, cleanup, err := app.InitializeApp(cmd.Context())
			if err != nil {
				logger.L().Error().Err(err).Msg("app init error")
				return err
			}

			server := startServer(router, port)
			gracefulShutdown(cmd.Context(), server, cleanup)
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (default: PORT from config)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze one .csv, .txt, .xlsx or .json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := app.BuildService(cmd.Context(), config.AppConfig, nil)
			if err != nil {
				return err
			}
			defer cleanup()
			return runAnalyze(cmd.Context(), svc, args[0], format, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}

func batchCmd() *cobra.Command {
	var (
		dir      string
		parallel int
		format   string
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze every supported file in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := app.BuildService(cmd.Context(), config.AppConfig, nil)
			if err != nil {
				return err
			}
			defer cleanup()
			return runBatch(cmd.Context(), svc, dir, parallel, format, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "./data/input", "directory with input files")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "files processed concurrently (0 = auto, max 8)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}

func runAnalyze(ctx context.Context, svc service.TradeService, path, format string, w io.Writer) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	series, err := ingestion.ParseFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	a, err := svc.Analyze(ctx, "cli:"+filepath.Base(path), series)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return writeOutput(w, format, dto.NewTradeResponse(a))
}

func runBatch(ctx context.Context, svc service.TradeService, dir string, parallel int, format string, w io.Writer) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	results, err := ingestion.ProcessDirectory(ctx, dir, svc, parallel)
	if err != nil {
		return err
	}

	entries := make([]batchEntry, 0, len(results))
	rejected := 0
	for _, r := range results {
		e := batchEntry{File: r.File}
		if r.Err != nil {
			e.Error = r.Err.Error()
			rejected++
		} else {
			resp := dto.NewTradeResponse(r.Analysis)
			e.Result = &resp
		}
		entries = append(entries, e)
	}

	logger.L().Info().Int("files", len(results)).Int("rejected", rejected).Msg("batch completed")
	return writeOutput(w, format, entries)
}

func checkFormat(format string) error {
	switch format {
	case "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func writeOutput(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
