package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/myga/internal/config"
	"github.com/rgehrsitz/myga/internal/output"
	"github.com/rgehrsitz/myga/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	var (
		mode, format string
		debounce     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [run-file]",
		Short: "Re-run a run file whenever it, a product or a table changes",
		Long: `Watch a run file, the product catalog and the tables it uses, and re-run
after each batch of changes settles. Stop with Ctrl+C.

Examples:
  myga watch run.yaml
  myga watch run.yaml --mode annual --debounce 1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			switch mode {
			case "carvm", "illustrate", "annual":
			default:
				return fmt.Errorf("unknown mode: %s (valid: carvm, illustrate, annual)", mode)
			}

			cfg, err := config.NewInputParser().LoadFromFile(path)
			if err != nil {
				return err
			}
			targets := []string{path, filepath.Join(a.dataDir, "products")}
			tablesDir := a.tablesDir(cfg)
			for _, sub := range []string{"mortality", "annuity"} {
				if info, err := os.Stat(filepath.Join(tablesDir, sub)); err == nil && info.IsDir() {
					targets = append(targets, filepath.Join(tablesDir, sub))
				}
			}

			handler := func(ctx context.Context, changed []string) error {
				err := a.rerun(ctx, cmd, path, mode, format)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "run failed: %v\n", err)
				}
				return err
			}
			w, err := watch.New(targets, handler, watch.WithDebounce(debounce), watch.WithLogger(a.logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			_ = w.Trigger(ctx)
			a.logger.Info("watching", zap.Strings("targets", targets))
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", path)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "carvm", "What to run on change (carvm, illustrate, annual)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, csv, json, html)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-running")
	return cmd
}

// rerun reloads the run file and engine and prints one report.
func (a *app) rerun(ctx context.Context, cmd *cobra.Command, path, mode, format string) error {
	cfg, err := a.loadRun(path, nil)
	if err != nil {
		return err
	}
	var report *output.Report
	switch mode {
	case "carvm":
		result, err := a.runCARVM(ctx, cfg)
		if err != nil {
			return err
		}
		report = output.NewCARVMReport(path, result)
	default:
		result, err := a.runIllustration(ctx, cfg)
		if err != nil {
			return err
		}
		report = output.NewIllustrationReport(path, result, mode == "annual", nil)
	}
	return emit(cmd, report, format, "")
}
