package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ProductCatalog loads product specs from a directory of YAML files, one per product.
// Specs are validated on first load and cached; cached specs must not be mutated.
type ProductCatalog struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*domain.ProductSpec
}

// NewProductCatalog creates a catalog rooted at dir.
func NewProductCatalog(dir string) *ProductCatalog {
	return &ProductCatalog{
		dir:   dir,
		cache: make(map[string]*domain.ProductSpec),
	}
}

// Dir returns the catalog directory.
func (c *ProductCatalog) Dir() string {
	return c.dir
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// List returns the product codes available in the catalog directory, sorted.
func (c *ProductCatalog) List() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read product directory %s: %w", c.dir, err)
	}
	var codes []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		codes = append(codes, normalizeCode(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))))
	}
	sort.Strings(codes)
	return codes, nil
}

// Get returns the validated spec for a product code (case-insensitive).
func (c *ProductCatalog) Get(code string) (*domain.ProductSpec, error) {
	key := normalizeCode(code)
	if key == "" {
		return nil, fmt.Errorf("%w: empty product code", domain.ErrProductNotFound)
	}

	c.mu.RLock()
	spec, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return spec, nil
	}

	spec, err := c.load(key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		spec = cached
	} else {
		c.cache[key] = spec
	}
	c.mu.Unlock()
	return spec, nil
}

func (c *ProductCatalog) load(key string) (*domain.ProductSpec, error) {
	var data []byte
	var path string
	for _, name := range c.candidateFiles(key) {
		b, err := os.ReadFile(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", name, err)
		}
		data, path = b, name
		break
	}
	if path == "" {
		return nil, fmt.Errorf("%w: %s (looked in %s)", domain.ErrProductNotFound, key, c.dir)
	}

	spec, err := ParseProductSpec(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if spec.ProductCode == "" {
		spec.ProductCode = key
	}
	return spec, nil
}

// candidateFiles lists the file names a product code may be stored under.
func (c *ProductCatalog) candidateFiles(key string) []string {
	names := []string{key, strings.ToLower(key)}
	var out []string
	for _, n := range names {
		out = append(out, filepath.Join(c.dir, n+".yaml"), filepath.Join(c.dir, n+".yml"))
	}
	return out
}

// ParseProductSpec decodes, defaults and validates a product spec.
func ParseProductSpec(data []byte) (*domain.ProductSpec, error) {
	var spec domain.ProductSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	spec.ProductCode = normalizeCode(spec.ProductCode)
	spec.Normalize()
	if err := ValidateProductSpec(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ValidateProductSpec returns a *domain.ProductSpecError listing every problem found.
func ValidateProductSpec(spec *domain.ProductSpec) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if spec.TermYears < 1 {
		add("term_years must be >= 1, got %d", spec.TermYears)
	}
	if spec.Features.MinimumGuaranteedRate.IsNegative() {
		add("minimum_guaranteed_rate must be >= 0")
	}

	sc := spec.Features.SurrenderCharge
	for year := 1; year <= spec.TermYears; year++ {
		if _, ok := sc.Schedule[year]; !ok {
			add("surrender_charge.schedule missing policy year %d", year)
		}
	}
	for year, pct := range sc.Schedule {
		if year < 1 {
			add("surrender_charge.schedule has invalid policy year %d", year)
		}
		if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(1)) {
			add("surrender_charge.schedule[%d] must be between 0 and 1", year)
		}
	}
	if sc.AfterTerm.DefaultChargePct.IsNegative() {
		add("surrender_charge.after_term.default_charge_pct must be >= 0")
	}

	fpw := spec.Features.FreePartialWithdrawal
	if fpw.Enabled && fpw.Method == domain.FreeMethodUnset {
		add("free_partial_withdrawal.method is required when enabled")
	}
	if fpw.Enabled && fpw.Method == domain.FreePctOfBOYAV {
		pct, ok := fpw.Params["pct"]
		switch {
		case !ok:
			add("free_partial_withdrawal.params.pct is required for method %s", fpw.Method)
		case pct.IsNegative():
			add("free_partial_withdrawal.params.pct must be >= 0")
		}
	}

	gf := spec.GuaranteeFundParams()
	if gf.MFVBasePct.IsNegative() {
		add("guarantee_funds.mfv.base_pct_of_premium must be >= 0")
	}
	if gf.PFVBasePct.IsNegative() {
		add("guarantee_funds.pfv.base_pct_of_premium must be >= 0")
	}
	if gf.PFVRateYears < 0 {
		add("guarantee_funds.pfv.rate_years must be >= 0")
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return &domain.ProductSpecError{ProductCode: spec.ProductCode, Problems: problems}
	}
	return nil
}

// TermYears returns the product's guaranteed term.
func (c *ProductCatalog) TermYears(code string) (int, error) {
	spec, err := c.Get(code)
	if err != nil {
		return 0, err
	}
	return spec.TermYears, nil
}

// MinimumGuaranteedRate returns the product's crediting-rate floor.
func (c *ProductCatalog) MinimumGuaranteedRate(code string) (decimal.Decimal, error) {
	spec, err := c.Get(code)
	if err != nil {
		return decimal.Zero, err
	}
	return spec.Features.MinimumGuaranteedRate, nil
}

// MVAEnabled reports whether the product applies a market value adjustment.
func (c *ProductCatalog) MVAEnabled(code string) (bool, error) {
	spec, err := c.Get(code)
	if err != nil {
		return false, err
	}
	return spec.Features.MVA.Enabled, nil
}

// BenchmarkIndexCode returns the MVA benchmark code, or "" when MVA is disabled.
func (c *ProductCatalog) BenchmarkIndexCode(code string) (string, error) {
	spec, err := c.Get(code)
	if err != nil {
		return "", err
	}
	if !spec.Features.MVA.Enabled {
		return "", nil
	}
	return spec.Features.MVA.BenchmarkIndex.Code, nil
}

// SurrenderCharge returns the charge percentage for a product and policy year.
func (c *ProductCatalog) SurrenderCharge(code string, policyYear int) (decimal.Decimal, error) {
	spec, err := c.Get(code)
	if err != nil {
		return decimal.Zero, err
	}
	return spec.SurrenderChargePct(policyYear), nil
}

// FreeWithdrawalPct returns the free-withdrawal percentage of BOY account value, or
// false when the product's allowance is disabled or not percentage based.
func (c *ProductCatalog) FreeWithdrawalPct(code string) (decimal.Decimal, bool, error) {
	spec, err := c.Get(code)
	if err != nil {
		return decimal.Zero, false, err
	}
	fpw := spec.Features.FreePartialWithdrawal
	if !fpw.Enabled || fpw.Method != domain.FreePctOfBOYAV {
		return decimal.Zero, false, nil
	}
	return fpw.Pct(), true, nil
}
