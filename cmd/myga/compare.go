package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/myga/internal/calculation"
	"github.com/rgehrsitz/myga/internal/compare"
	"github.com/rgehrsitz/myga/internal/transform"
)

func (a *app) compareCmd() *cobra.Command {
	var (
		base, format    string
		products, rates []string
		templates       []string
		ages            []int
		concurrency     int
		listTemplates   bool
	)
	cmd := &cobra.Command{
		Use:   "compare [run-file]",
		Short: "Compare CARVM reserves across products, issue ages and discount rates",
		Long: `Value a base run and a grid of variations of it, concurrently.

Every combination of --products, --ages and --rates is valued, and each template is
applied to every combination. Empty dimensions keep the base run's value.

Examples:
  myga compare run.yaml --products MYGA5,MYGA7 --ages 40,60 --rates 0.04,0.05
  myga compare run.yaml --template max_fpw,rates_up_100bp --format csv
  myga compare run.yaml --list-templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTemplates {
				return printTemplates(cmd, decimal.Zero)
			}
			if len(args) == 0 {
				return fmt.Errorf("run file required for comparison (use --list-templates to see available templates)")
			}

			cfg, err := a.loadRun(args[0], nil)
			if err != nil {
				return err
			}
			discountRates := make([]decimal.Decimal, 0, len(rates))
			for _, r := range rates {
				d, err := decimal.NewFromString(strings.TrimSpace(r))
				if err != nil {
					return fmt.Errorf("invalid discount rate %q: %w", r, err)
				}
				discountRates = append(discountRates, d)
			}
			freePct, _, err := a.catalog().FreeWithdrawalPct(cfg.ProductCode)
			if err != nil {
				return err
			}

			engine, err := a.engine(cfg)
			if err != nil {
				return err
			}
			ce := compare.NewCompareEngine(engine)
			ce.Logger = calculation.NewZapLogger(a.logger)
			ce.Concurrency = concurrency

			set, err := ce.Compare(cmd.Context(), cfg, compare.CompareOptions{
				BaseName:      base,
				Products:      products,
				IssueAges:     ages,
				DiscountRates: discountRates,
				Templates:     templates,
				FreePct:       freePct,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			set.ConfigPath = args[0]

			var out string
			switch strings.ToLower(format) {
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(set)
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true}).Format(set)
			case "table", "console", "":
				out = (&compare.TableFormatter{}).Format(set)
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to format comparison: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "Base", "Name shown for the base run")
	cmd.Flags().StringSliceVar(&products, "products", nil, "Product codes to value the run under")
	cmd.Flags().IntSliceVar(&ages, "ages", nil, "Issue ages to value the run at")
	cmd.Flags().StringSliceVar(&rates, "rates", nil, "CARVM discount rates to value the run at")
	cmd.Flags().StringSliceVar(&templates, "template", nil, "Templates applied to every case (see --list-templates)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, csv, json)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum cases valued at once (0 uses GOMAXPROCS)")
	cmd.Flags().BoolVar(&listTemplates, "list-templates", false, "List all available templates")
	return cmd
}

func printTemplates(cmd *cobra.Command, freePct decimal.Decimal) error {
	registry := transform.CreateBuiltInTemplates(freePct)
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Available templates:")
	for _, name := range registry.List() {
		t, _ := registry.Get(name)
		fmt.Fprintf(w, "  %-18s %s\n", t.Name, t.Description)
	}
	return nil
}
