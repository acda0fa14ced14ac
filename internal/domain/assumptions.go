package domain

import (
	"github.com/shopspring/decimal"
)

// ProjectionAssumptions are the policyholder-level inputs to one projection run.
type ProjectionAssumptions struct {
	ProductCode      string                `yaml:"product_code" json:"productCode"`
	Premium          decimal.Decimal       `yaml:"premium" json:"premium"`
	IssueAge         int                   `yaml:"issue_age" json:"issueAge"`
	Sex              Sex                   `yaml:"sex" json:"sex"`
	InitialRate      decimal.Decimal       `yaml:"initial_rate" json:"initialRate"`
	RenewalRate      decimal.Decimal       `yaml:"renewal_rate" json:"renewalRate"`
	Withdrawal       WithdrawalInstruction `yaml:"withdrawal" json:"withdrawal"`
	MVA              MVAAssumptions        `yaml:"mva" json:"mva"`
	ProjectionYears  int                   `yaml:"projection_years" json:"projectionYears"`
	InstallmentYears int                   `yaml:"installment_years" json:"installmentYears"`

	// Annuitize requests year-end annuitization present values in the monthly rows.
	Annuitize bool `yaml:"annuitize" json:"annuitize"`
}

// WithdrawalInstruction is the single withdrawal rule applied every policy year after the first.
type WithdrawalInstruction struct {
	Method WithdrawalMethod `yaml:"method" json:"method"`
	Value  decimal.Decimal  `yaml:"value" json:"value"` // percentage (0.10) or dollar amount; ignored for prior-year interest
}

// MVAAssumptions carries the optional benchmark index rates used for the MVA factor.
type MVAAssumptions struct {
	InitialIndexRate        *decimal.Decimal `yaml:"initial_index_rate" json:"initialIndexRate,omitempty"`
	CurrentIndexRate        *decimal.Decimal `yaml:"current_index_rate" json:"currentIndexRate,omitempty"`
	MonthsRemainingOverride *int             `yaml:"months_remaining_override" json:"monthsRemainingOverride,omitempty"`
}

// HasRates reports whether both index rates were supplied.
func (m MVAAssumptions) HasRates() bool {
	return m.InitialIndexRate != nil && m.CurrentIndexRate != nil
}

// DeepCopy returns a copy that shares no pointers with the receiver.
func (a *ProjectionAssumptions) DeepCopy() *ProjectionAssumptions {
	if a == nil {
		return nil
	}
	out := *a
	if a.MVA.InitialIndexRate != nil {
		v := *a.MVA.InitialIndexRate
		out.MVA.InitialIndexRate = &v
	}
	if a.MVA.CurrentIndexRate != nil {
		v := *a.MVA.CurrentIndexRate
		out.MVA.CurrentIndexRate = &v
	}
	if a.MVA.MonthsRemainingOverride != nil {
		v := *a.MVA.MonthsRemainingOverride
		out.MVA.MonthsRemainingOverride = &v
	}
	return &out
}

// CARVMSettings configures the reserve valuation.
type CARVMSettings struct {
	DiscountRate        decimal.Decimal   `yaml:"discount_rate" json:"discountRate"`
	AnnuityDiscountRate decimal.Decimal   `yaml:"annuity_discount_rate" json:"annuityDiscountRate"`
	MaxAge              int               `yaml:"max_age" json:"maxAge"`
	LastYearBasis       ContinuationBasis `yaml:"last_year_basis" json:"lastYearBasis"`
	// IllustratedPath adds the run's own withdrawal instruction, continued on LastYearBasis,
	// as a third behavior path.
	IllustratedPath bool `yaml:"illustrated_path" json:"illustratedPath"`
	// DefaultFreePct sizes the Max FPW path when the product's allowance is not a percentage.
	DefaultFreePct *decimal.Decimal `yaml:"default_free_pct" json:"defaultFreePct,omitempty"`
}

// TableSettings locates the mortality and payout-factor CSV files.
type TableSettings struct {
	Dir string `yaml:"dir" json:"dir"`
}

// RunConfiguration is the top-level run file: projection assumptions plus valuation settings.
type RunConfiguration struct {
	ProjectionAssumptions `yaml:",inline"`

	CARVM  CARVMSettings `yaml:"carvm" json:"carvm"`
	Tables TableSettings `yaml:"tables" json:"tables"`
}

// DeepCopy returns a copy that shares no pointers with the receiver.
func (c *RunConfiguration) DeepCopy() *RunConfiguration {
	if c == nil {
		return nil
	}
	out := *c
	out.ProjectionAssumptions = *c.ProjectionAssumptions.DeepCopy()
	if c.CARVM.DefaultFreePct != nil {
		v := *c.CARVM.DefaultFreePct
		out.CARVM.DefaultFreePct = &v
	}
	return &out
}
