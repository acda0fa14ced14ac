package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/myga/internal/calculation"
	"github.com/rgehrsitz/myga/internal/config"
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tables"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// dataDirEnv overrides the default data directory when --data-dir is not given.
const dataDirEnv = "MYGA_DATA_DIR"

// app holds the state shared by every command for one invocation.
type app struct {
	dataDir string
	debug   bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "myga",
		Short: "MYGA illustration and CARVM reserve calculator",
		Long: `Projects multi-year guaranteed annuities month by month and values them
with a CARVM reverse-induction reserve across policyholder behavior paths.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("data-dir") {
				if v := os.Getenv(dataDirEnv); v != "" {
					a.dataDir = v
				}
			}
			logger, err := newLogger(a.debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "data", "Directory holding products/ and tables/ (env "+dataDirEnv+")")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging for detailed calculations")

	root.AddCommand(
		a.illustrateCmd(false),
		a.illustrateCmd(true),
		a.carvmCmd(),
		a.compareCmd(),
		a.productsCmd(),
		a.productCmd(),
		a.validateCmd(),
		a.watchCmd(),
		versionCmd(),
	)
	return root
}

// newLogger logs warnings and errors to stderr, or everything in debug mode.
func newLogger(debugMode bool) (*zap.Logger, error) {
	if debugMode {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return cfg.Build()
}

func (a *app) catalog() *config.ProductCatalog {
	return config.NewProductCatalog(filepath.Join(a.dataDir, "products"))
}

// tablesDir is the run's table directory, moved under the data directory when the run
// file leaves it at the default.
func (a *app) tablesDir(cfg *domain.RunConfiguration) string {
	if cfg.Tables.Dir == "" || cfg.Tables.Dir == config.DefaultTablesDir {
		return filepath.Join(a.dataDir, "tables")
	}
	return cfg.Tables.Dir
}

// engine builds a calculation engine for one run. A fresh catalog is used each time so
// edited product files are picked up.
func (a *app) engine(cfg *domain.RunConfiguration) (*calculation.CalculationEngine, error) {
	tbl, err := tables.Load(a.tablesDir(cfg))
	if err != nil {
		return nil, err
	}
	engine := calculation.NewCalculationEngine(a.catalog(), tbl)
	engine.SetLogger(calculation.NewZapLogger(a.logger))
	return engine, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "myga %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
