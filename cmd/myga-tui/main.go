package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/myga/internal/calculation"
	"github.com/rgehrsitz/myga/internal/config"
	"github.com/rgehrsitz/myga/internal/tables"
	"github.com/rgehrsitz/myga/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: myga-tui <run-file>")
		os.Exit(1)
	}
	runPath := os.Args[1]

	dataDir := "data"
	if v := os.Getenv("MYGA_DATA_DIR"); v != "" {
		dataDir = v
	}

	// Read the run file up front so a bad path fails before the alternate screen opens.
	cfg, err := config.NewInputParser().LoadFromFile(runPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	tablesDir := cfg.Tables.Dir
	if tablesDir == config.DefaultTablesDir {
		tablesDir = filepath.Join(dataDir, "tables")
	}
	tbl, err := tables.Load(tablesDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	engine := calculation.NewCalculationEngine(config.NewProductCatalog(filepath.Join(dataDir, "products")), tbl)

	p := tea.NewProgram(
		tui.NewModel(runPath, engine),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
