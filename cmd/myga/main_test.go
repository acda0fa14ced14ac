package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/myga/internal/config"
)

const (
	testDataDir = "../../data"
	testRunFile = "../../data/examples/run_myga5.yaml"
)

// execute runs the CLI with args and returns everything it wrote.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "myga", root.Use)
	assert.NotEmpty(t, root.Short)
	assert.NotEmpty(t, root.Long)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"illustrate", "annual", "carvm", "compare", "products", "product", "validate", "watch", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "CARVM")
	assert.Contains(t, out, "--data-dir")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "myga dev (commit none, built unknown)")
}

func TestProducts(t *testing.T) {
	out, err := execute(t, "products", "--data-dir", testDataDir)
	require.NoError(t, err)
	for _, code := range []string{"MYGA5", "MYGA7", "MYGA10"} {
		assert.Contains(t, out, code)
	}
	assert.Contains(t, out, "CMT_5Y")
}

func TestProducts_DataDirFromEnv(t *testing.T) {
	t.Setenv(dataDirEnv, testDataDir)
	out, err := execute(t, "products")
	require.NoError(t, err)
	assert.Contains(t, out, "MYGA7")
}

func TestProduct(t *testing.T) {
	out, err := execute(t, "product", "myga5", "--data-dir", testDataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "PRODUCT MYGA5")
	assert.Contains(t, out, "Guaranteed Term:       5 years")

	_, err = execute(t, "product", "MYGA99", "--data-dir", testDataDir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", testRunFile, "--data-dir", testDataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid (product MYGA5, 5-year term)")

	_, err = execute(t, "validate", "does-not-exist.yaml", "--data-dir", testDataDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestIllustrate(t *testing.T) {
	out, err := execute(t, "illustrate", testRunFile, "--data-dir", testDataDir, "--groups", "av,csv")
	require.NoError(t, err)
	assert.Contains(t, out, "MYGA5")
	assert.Contains(t, out, "Projection:      5 years")
}

func TestIllustrate_BadGroup(t *testing.T) {
	_, err := execute(t, "illustrate", testRunFile, "--data-dir", testDataDir, "--groups", "bogus")
	assert.Error(t, err)
}

func TestAnnual_WithTransform(t *testing.T) {
	out, err := execute(t, "annual", testRunFile, "--data-dir", testDataDir,
		"--transform", "set_premium:amount=250000")
	require.NoError(t, err)
	assert.Contains(t, out, "$250000.00")

	_, err = execute(t, "annual", testRunFile, "--data-dir", testDataDir, "--transform", "no_such_transform:x=1")
	assert.Error(t, err)
}

func TestCARVM(t *testing.T) {
	out, err := execute(t, "carvm", testRunFile, "--data-dir", testDataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "CARVM RESERVE")
	assert.Contains(t, out, "Winning Path:")
	assert.Contains(t, out, "PATH: No PW")
	assert.Contains(t, out, "PATH: Max FPW")
}

func TestCARVM_DiscountRateOverride(t *testing.T) {
	out, err := execute(t, "carvm", testRunFile, "--data-dir", testDataDir, "--discount-rate", "0.05", "-f", "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	_, err = execute(t, "carvm", testRunFile, "--data-dir", testDataDir, "--discount-rate", "five")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --discount-rate")
}

func TestCARVM_OutputDir(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "carvm", testRunFile, "--data-dir", testDataDir, "-f", "html", "-o", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Wrote "))

	matches, err := filepath.Glob(filepath.Join(dir, "myga_carvm_*.html"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "MYGA5")
}

func TestCompare_ListTemplates(t *testing.T) {
	out, err := execute(t, "compare", "--list-templates")
	require.NoError(t, err)
	assert.Contains(t, out, "max_fpw")
	assert.Contains(t, out, "rates_up_100bp")

	_, err = execute(t, "compare")
	assert.Error(t, err, "A run file is required without --list-templates")
}

func TestCompare_DiscountRates(t *testing.T) {
	out, err := execute(t, "compare", testRunFile, "--data-dir", testDataDir,
		"--rates", "0.04,0.05", "--format", "json", "--concurrency", "2")
	require.NoError(t, err)

	var decoded struct {
		BaseName   string `json:"baseName"`
		ConfigPath string `json:"configPath"`
		Results    []any  `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Base", decoded.BaseName)
	assert.Equal(t, testRunFile, decoded.ConfigPath)
	assert.Len(t, decoded.Results, 2)

	_, err = execute(t, "compare", testRunFile, "--data-dir", testDataDir, "--rates", "x")
	assert.Error(t, err)

	_, err = execute(t, "compare", testRunFile, "--data-dir", testDataDir, "--format", "xml")
	assert.Error(t, err)
}

func TestWatch_UnknownMode(t *testing.T) {
	_, err := execute(t, "watch", testRunFile, "--data-dir", testDataDir, "--mode", "forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestTablesDir(t *testing.T) {
	a := &app{dataDir: "/srv/myga"}
	cfg, err := config.NewInputParser().LoadFromFile(testRunFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/myga", "tables"), a.tablesDir(cfg))

	cfg.Tables.Dir = "/opt/tables"
	assert.Equal(t, "/opt/tables", a.tablesDir(cfg))
}
