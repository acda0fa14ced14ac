package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Defaults applied to run files that omit optional settings.
const (
	DefaultInstallmentYears = 10
	DefaultTablesDir        = "data/tables"
)

// requiredKeys records whether settings with no documented default appear in a run file.
// Decimal fields cannot tell an omitted key from an explicit zero.
type requiredKeys struct {
	CARVM struct {
		DiscountRate any `yaml:"discount_rate"`
	} `yaml:"carvm"`
}

// InputParser handles parsing of run configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a run configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.RunConfiguration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, defaults and validates run configuration YAML
func (ip *InputParser) Parse(data []byte) (*domain.RunConfiguration, error) {
	var config domain.RunConfiguration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	var present requiredKeys
	if err := yaml.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if present.CARVM.DiscountRate == nil {
		return nil, fmt.Errorf("configuration validation failed: carvm.discount_rate is required")
	}

	ip.ApplyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// ApplyDefaults fills optional settings that were left empty
func (ip *InputParser) ApplyDefaults(config *domain.RunConfiguration) {
	if config.InstallmentYears == 0 {
		config.InstallmentYears = DefaultInstallmentYears
	}
	if config.CARVM.MaxAge == 0 {
		config.CARVM.MaxAge = 100
	}
	if config.Tables.Dir == "" {
		config.Tables.Dir = DefaultTablesDir
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.RunConfiguration) error {
	if err := ip.ValidateAssumptions(&config.ProjectionAssumptions); err != nil {
		return fmt.Errorf("assumptions validation failed: %w", err)
	}
	if err := ip.validateCARVM(&config.CARVM, config.IssueAge); err != nil {
		return fmt.Errorf("carvm settings validation failed: %w", err)
	}
	return nil
}

// ValidateAssumptions validates the projection assumptions of a run
func (ip *InputParser) ValidateAssumptions(a *domain.ProjectionAssumptions) error {
	if a.ProductCode == "" {
		return fmt.Errorf("product_code is required")
	}
	if !a.Premium.IsPositive() {
		return fmt.Errorf("premium must be positive")
	}
	if a.IssueAge < 0 || a.IssueAge > 120 {
		return fmt.Errorf("issue_age must be between 0 and 120, got %d", a.IssueAge)
	}
	if a.Sex != domain.Male && a.Sex != domain.Female {
		return fmt.Errorf("sex is required (M or F)")
	}
	if a.InitialRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("initial_rate must be greater than -100%%")
	}
	if a.RenewalRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("renewal_rate must be greater than -100%%")
	}
	if a.ProjectionYears < 0 {
		return fmt.Errorf("projection_years cannot be negative")
	}
	if a.InstallmentYears < 1 || a.InstallmentYears > 30 {
		return fmt.Errorf("installment_years must be between 1 and 30, got %d", a.InstallmentYears)
	}
	if err := ip.validateWithdrawal(&a.Withdrawal); err != nil {
		return fmt.Errorf("withdrawal validation failed: %w", err)
	}
	if err := ip.validateMVA(&a.MVA); err != nil {
		return fmt.Errorf("mva validation failed: %w", err)
	}
	return nil
}

// validateWithdrawal validates the withdrawal instruction
func (ip *InputParser) validateWithdrawal(w *domain.WithdrawalInstruction) error {
	switch w.Method {
	case domain.WithdrawalPctOfBOYAV:
		if w.Value.IsNegative() || w.Value.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("percentage withdrawal must be between 0 and 1, got %s", w.Value)
		}
	case domain.WithdrawalFixedAmount:
		if w.Value.IsNegative() {
			return fmt.Errorf("fixed withdrawal amount cannot be negative")
		}
	}
	return nil
}

// validateMVA checks that index rates come in pairs and keep the MVA power defined
func (ip *InputParser) validateMVA(m *domain.MVAAssumptions) error {
	if (m.InitialIndexRate == nil) != (m.CurrentIndexRate == nil) {
		return fmt.Errorf("initial_index_rate and current_index_rate must be given together")
	}
	if m.HasRates() {
		minusOne := decimal.NewFromInt(-1)
		if m.InitialIndexRate.LessThanOrEqual(minusOne) || m.CurrentIndexRate.LessThanOrEqual(minusOne) {
			return &domain.MVADomainError{InitialIndexRate: *m.InitialIndexRate, CurrentIndexRate: *m.CurrentIndexRate}
		}
	}
	if m.MonthsRemainingOverride != nil && *m.MonthsRemainingOverride < 0 {
		return fmt.Errorf("months_remaining_override cannot be negative")
	}
	return nil
}

// validateCARVM validates reserve valuation settings
func (ip *InputParser) validateCARVM(c *domain.CARVMSettings, issueAge int) error {
	if c.DiscountRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("discount_rate must be greater than -100%%")
	}
	if c.AnnuityDiscountRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("annuity_discount_rate must be greater than -100%%")
	}
	if c.MaxAge <= issueAge {
		return fmt.Errorf("max_age (%d) must exceed issue_age (%d)", c.MaxAge, issueAge)
	}
	if c.DefaultFreePct != nil && (c.DefaultFreePct.IsNegative() || c.DefaultFreePct.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("default_free_pct must be between 0 and 1")
	}
	return nil
}
