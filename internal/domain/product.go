package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Documented guarantee-fund defaults applied when a product spec omits them.
var (
	DefaultMFVBasePct        = decimal.RequireFromString("0.875")
	DefaultPFVBasePct        = decimal.RequireFromString("0.907")
	DefaultPFVRateAnnual     = decimal.RequireFromString("0.0191")
	DefaultPFVRateYears      = 10
	DefaultPFVRateAfterYears = decimal.Zero
)

// ProductSpec is the immutable rule set for one MYGA product, loaded from YAML.
type ProductSpec struct {
	SchemaVersion int             `yaml:"schema_version" json:"schemaVersion"`
	ProductCode   string          `yaml:"product_code" json:"productCode"`
	TermYears     int             `yaml:"term_years" json:"termYears"`
	Features      ProductFeatures `yaml:"features" json:"features"`
	Assumptions   AssumptionKeys  `yaml:"assumptions" json:"assumptions"`
}

// ProductFeatures groups the contractual features of a product.
type ProductFeatures struct {
	MinimumGuaranteedRate decimal.Decimal        `yaml:"minimum_guaranteed_rate" json:"minimumGuaranteedRate"`
	MVA                   MVAFeature             `yaml:"mva" json:"mva"`
	SurrenderCharge       SurrenderChargeFeature `yaml:"surrender_charge" json:"surrenderCharge"`
	FreePartialWithdrawal FreeWithdrawalFeature  `yaml:"free_partial_withdrawal" json:"freePartialWithdrawal"`
	GuaranteeFunds        GuaranteeFundsFeature  `yaml:"guarantee_funds" json:"guaranteeFunds"`
}

// MVAFeature describes the market value adjustment and its benchmark.
type MVAFeature struct {
	Enabled        bool           `yaml:"enabled" json:"enabled"`
	BenchmarkIndex BenchmarkIndex `yaml:"benchmark_index" json:"benchmarkIndex"`
}

// BenchmarkIndex identifies the external rate an MVA is measured against.
type BenchmarkIndex struct {
	Type        string `yaml:"type" json:"type"`
	Code        string `yaml:"code" json:"code"`
	Description string `yaml:"description" json:"description"`
}

// SurrenderChargeFeature is the surrender-charge schedule keyed by policy year.
type SurrenderChargeFeature struct {
	Schedule  map[int]decimal.Decimal `yaml:"schedule" json:"schedule"`
	AfterTerm AfterTermCharge         `yaml:"after_term" json:"afterTerm"`
}

// AfterTermCharge is the charge applied to policy years beyond the explicit schedule.
type AfterTermCharge struct {
	DefaultChargePct decimal.Decimal `yaml:"default_charge_pct" json:"defaultChargePct"`
}

// FreeWithdrawalFeature is the product's annual charge-free withdrawal allowance.
type FreeWithdrawalFeature struct {
	Enabled     bool                       `yaml:"enabled" json:"enabled"`
	Method      FreeWithdrawalMethod       `yaml:"method" json:"method"`
	Params      map[string]decimal.Decimal `yaml:"params" json:"params,omitempty"`
	Description string                     `yaml:"description" json:"description,omitempty"`
}

// Pct returns the "pct" parameter, or zero when absent.
func (f FreeWithdrawalFeature) Pct() decimal.Decimal {
	if f.Params == nil {
		return decimal.Zero
	}
	return f.Params["pct"]
}

// GuaranteeFundsFeature configures the minimum and prospective fund values.
// Nil fields take the documented defaults during Normalize.
type GuaranteeFundsFeature struct {
	MFV MFVConfig `yaml:"mfv" json:"mfv"`
	PFV PFVConfig `yaml:"pfv" json:"pfv"`
}

type MFVConfig struct {
	BasePctOfPremium *decimal.Decimal `yaml:"base_pct_of_premium" json:"basePctOfPremium"`
}

type PFVConfig struct {
	BasePctOfPremium     *decimal.Decimal `yaml:"base_pct_of_premium" json:"basePctOfPremium"`
	RateAnnual           *decimal.Decimal `yaml:"rate_annual" json:"rateAnnual"`
	RateYears            *int             `yaml:"rate_years" json:"rateYears"`
	RateAfterYearsAnnual *decimal.Decimal `yaml:"rate_after_years_annual" json:"rateAfterYearsAnnual"`
}

// AssumptionKeys name the actuarial assumption sets a product is priced with.
type AssumptionKeys struct {
	MortalityTableKey     string `yaml:"mortality_table_key" json:"mortalityTableKey"`
	LapseModelKey         string `yaml:"lapse_model_key" json:"lapseModelKey"`
	WithdrawalBehaviorKey string `yaml:"withdrawal_behavior_key" json:"withdrawalBehaviorKey"`
	ExpenseAssumptionKey  string `yaml:"expense_assumption_key" json:"expenseAssumptionKey"`
}

// Normalize fills the documented guarantee-fund defaults for any field the product file omitted.
func (p *ProductSpec) Normalize() {
	gf := &p.Features.GuaranteeFunds
	if gf.MFV.BasePctOfPremium == nil {
		v := DefaultMFVBasePct
		gf.MFV.BasePctOfPremium = &v
	}
	if gf.PFV.BasePctOfPremium == nil {
		v := DefaultPFVBasePct
		gf.PFV.BasePctOfPremium = &v
	}
	if gf.PFV.RateAnnual == nil {
		v := DefaultPFVRateAnnual
		gf.PFV.RateAnnual = &v
	}
	if gf.PFV.RateYears == nil {
		v := DefaultPFVRateYears
		gf.PFV.RateYears = &v
	}
	if gf.PFV.RateAfterYearsAnnual == nil {
		v := DefaultPFVRateAfterYears
		gf.PFV.RateAfterYearsAnnual = &v
	}
	if p.Assumptions.MortalityTableKey == "" {
		p.Assumptions.MortalityTableKey = "2012IAM"
	}
}

// SurrenderChargePct returns the charge for a policy year, falling back to the after-term default.
func (p *ProductSpec) SurrenderChargePct(policyYear int) decimal.Decimal {
	if policyYear <= p.TermYears {
		if pct, ok := p.Features.SurrenderCharge.Schedule[policyYear]; ok {
			return pct
		}
	}
	return p.Features.SurrenderCharge.AfterTerm.DefaultChargePct
}

// ScheduleYears returns the explicitly scheduled policy years in ascending order.
func (p *ProductSpec) ScheduleYears() []int {
	years := make([]int, 0, len(p.Features.SurrenderCharge.Schedule))
	for y := range p.Features.SurrenderCharge.Schedule {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// GuaranteeFundParams returns the resolved guarantee-fund parameters after defaults.
func (p *ProductSpec) GuaranteeFundParams() GuaranteeFundParams {
	gf := p.Features.GuaranteeFunds
	params := GuaranteeFundParams{
		MFVBasePct:        DefaultMFVBasePct,
		PFVBasePct:        DefaultPFVBasePct,
		PFVRateAnnual:     DefaultPFVRateAnnual,
		PFVRateYears:      DefaultPFVRateYears,
		PFVRateAfterYears: DefaultPFVRateAfterYears,
	}
	if gf.MFV.BasePctOfPremium != nil {
		params.MFVBasePct = *gf.MFV.BasePctOfPremium
	}
	if gf.PFV.BasePctOfPremium != nil {
		params.PFVBasePct = *gf.PFV.BasePctOfPremium
	}
	if gf.PFV.RateAnnual != nil {
		params.PFVRateAnnual = *gf.PFV.RateAnnual
	}
	if gf.PFV.RateYears != nil {
		params.PFVRateYears = *gf.PFV.RateYears
	}
	if gf.PFV.RateAfterYearsAnnual != nil {
		params.PFVRateAfterYears = *gf.PFV.RateAfterYearsAnnual
	}
	return params
}

// GuaranteeFundParams is the flattened, defaulted view of GuaranteeFundsFeature.
type GuaranteeFundParams struct {
	MFVBasePct        decimal.Decimal `json:"mfvBasePct"`
	PFVBasePct        decimal.Decimal `json:"pfvBasePct"`
	PFVRateAnnual     decimal.Decimal `json:"pfvRateAnnual"`
	PFVRateYears      int             `json:"pfvRateYears"`
	PFVRateAfterYears decimal.Decimal `json:"pfvRateAfterYears"`
}
