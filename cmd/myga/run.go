package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/myga/internal/config"
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/output"
	"github.com/rgehrsitz/myga/internal/transform"
)

// loadRun reads a run file and applies any --transform specs in order.
func (a *app) loadRun(path string, specs []string) (*domain.RunConfiguration, error) {
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return cfg, nil
	}
	ts, err := transform.NewTransformRegistry().ParseTransformSpecs(specs)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("applying transforms", zap.String("transforms", transform.Describe(ts)))
	return transform.ApplyTransforms(cfg, ts)
}

// emit writes a report to stdout, or to a timestamped file when outDir is set.
func emit(cmd *cobra.Command, report *output.Report, format, outDir string) error {
	if outDir == "" {
		return output.GenerateReport(cmd.OutOrStdout(), report, format)
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (valid: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
	}
	ext := f.Name()
	if ext == "console" {
		ext = "txt"
	}
	path, err := output.WriteFormatted(f, report, outDir, ext)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func (a *app) runIllustration(ctx context.Context, cfg *domain.RunConfiguration) (*domain.ProjectionResult, error) {
	engine, err := a.engine(cfg)
	if err != nil {
		return nil, err
	}
	return engine.RunIllustration(ctx, cfg)
}

func (a *app) runCARVM(ctx context.Context, cfg *domain.RunConfiguration) (*domain.CARVMResult, error) {
	engine, err := a.engine(cfg)
	if err != nil {
		return nil, err
	}
	return engine.RunCARVM(ctx, cfg)
}

func (a *app) illustrateCmd(annual bool) *cobra.Command {
	var (
		format, groups, outDir string
		specs                  []string
	)
	cmd := &cobra.Command{
		Use:   "illustrate [run-file]",
		Short: "Project a run month by month",
		Long: `Project a run month by month.

Examples:
  myga illustrate data/examples/run_myga5.yaml
  myga illustrate run.yaml --format csv --groups av,csv
  myga illustrate run.yaml --transform set_premium:amount=250000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := output.ParseColumnGroups(groups)
			if err != nil {
				return err
			}
			cfg, err := a.loadRun(args[0], specs)
			if err != nil {
				return err
			}
			result, err := a.runIllustration(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return emit(cmd, output.NewIllustrationReport(args[0], result, annual, selected), format, outDir)
		},
	}
	if annual {
		cmd.Use = "annual [run-file]"
		cmd.Short = "Project a run and reduce it to policy years"
		cmd.Long = ""
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, csv, json, html)")
	cmd.Flags().StringVar(&groups, "groups", "", "Comma-separated column groups for monthly output (meta, wd, mva, av, gf, csv, ann)")
	cmd.Flags().StringArrayVar(&specs, "transform", nil, "Transform applied to the run, e.g. set_withdrawal:method=pct_of_boy_av,value=0.05 (repeatable)")
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "", "Write the report to a timestamped file in this directory")
	return cmd
}

func (a *app) carvmCmd() *cobra.Command {
	var (
		format, rate, outDir string
		illustrated          bool
		specs                []string
	)
	cmd := &cobra.Command{
		Use:   "carvm [run-file]",
		Short: "Value a run with the CARVM reverse-induction reserve",
		Long: `Value a run with the CARVM reverse-induction reserve.

The reserve is the greatest year-1 reserve across the behavior paths: no partial
withdrawals continued on account value, and maximum free withdrawals to the end of
the surrender-charge term continued on cash surrender value.

Examples:
  myga carvm data/examples/run_myga5.yaml
  myga carvm run.yaml --discount-rate 0.05 --format html -o reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadRun(args[0], specs)
			if err != nil {
				return err
			}
			if rate != "" {
				r, err := decimal.NewFromString(rate)
				if err != nil {
					return fmt.Errorf("invalid --discount-rate %q: %w", rate, err)
				}
				cfg.CARVM.DiscountRate = r
			}
			if illustrated {
				cfg.CARVM.IllustratedPath = true
			}
			if err := config.NewInputParser().ValidateConfiguration(cfg); err != nil {
				return err
			}
			result, err := a.runCARVM(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return emit(cmd, output.NewCARVMReport(args[0], result), format, outDir)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, csv, json, html)")
	cmd.Flags().StringVar(&rate, "discount-rate", "", "Override the CARVM discount rate")
	cmd.Flags().BoolVar(&illustrated, "illustrated", false, "Add the run's own withdrawal instruction as a behavior path")
	cmd.Flags().StringArrayVar(&specs, "transform", nil, "Transform applied to the run before valuation (repeatable)")
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "", "Write the report to a timestamped file in this directory")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [run-file]",
		Short: "Validate a run file against its product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			spec, err := a.catalog().Get(cfg.ProductCode)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run file %s is valid (product %s, %d-year term)\n", args[0], spec.ProductCode, spec.TermYears)
			return nil
		},
	}
}
