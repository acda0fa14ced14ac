package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	minusOne = decimal.NewFromInt(-1)
	hundred  = decimal.NewFromInt(100)
)

func pct(d decimal.Decimal) string {
	return d.Mul(hundred).StringFixed(2) + "%"
}

func requireBase(name string, base *domain.RunConfiguration) error {
	if base == nil {
		return NewTransformError(name, "validate", "base run cannot be nil", nil)
	}
	return nil
}

// SetProduct switches the run to another product code.
type SetProduct struct {
	ProductCode string
}

func (sp *SetProduct) Name() string {
	return "set_product"
}

func (sp *SetProduct) Description() string {
	return fmt.Sprintf("Use product %s", strings.ToUpper(sp.ProductCode))
}

func (sp *SetProduct) Validate(base *domain.RunConfiguration) error {
	if strings.TrimSpace(sp.ProductCode) == "" {
		return NewTransformError(sp.Name(), "validate", "product code cannot be empty", nil)
	}
	return requireBase(sp.Name(), base)
}

func (sp *SetProduct) Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error) {
	modified := base.DeepCopy()
	modified.ProductCode = strings.ToUpper(strings.TrimSpace(sp.ProductCode))
	return modified, nil
}

// SetIssueAge changes the policyholder's age at issue.
type SetIssueAge struct {
	Age int
}

func (sa *SetIssueAge) Name() string {
	return "set_issue_age"
}

func (sa *SetIssueAge) Description() string {
	return fmt.Sprintf("Issue at age %d", sa.Age)
}

func (sa *SetIssueAge) Validate(base *domain.RunConfiguration) error {
	if sa.Age < 0 || sa.Age > 120 {
		return NewTransformError(sa.Name(), "validate", fmt.Sprintf("issue age must be between 0 and 120, got %d", sa.Age), nil)
	}
	if err := requireBase(sa.Name(), base); err != nil {
		return err
	}
	if base.CARVM.MaxAge > 0 && sa.Age >= base.CARVM.MaxAge {
		return NewTransformError(sa.Name(), "validate",
			fmt.Sprintf("issue age %d must be below the valuation max age %d", sa.Age, base.CARVM.MaxAge), nil)
	}
	return nil
}

func (sa *SetIssueAge) Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error) {
	modified := base.DeepCopy()
	modified.IssueAge = sa.Age
	return modified, nil
}

// SetPremium changes the single premium.
type SetPremium struct {
	Premium decimal.Decimal
}

func (sp *SetPremium) Name() string {
	return "set_premium"
}

func (sp *SetPremium) Description() string {
	return fmt.Sprintf("Single premium of $%s", sp.Premium.StringFixed(2))
}

func (sp *SetPremium) Validate(base *domain.RunConfiguration) error {
	if !sp.Premium.IsPositive() {
		return NewTransformError(sp.Name(), "validate", "premium must be positive", nil)
	}
	return requireBase(sp.Name(), base)
}

func (sp *SetPremium) Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error) {
	modified := base.DeepCopy()
	modified.Premium = sp.Premium
	return modified, nil
}

// SetDiscountRate changes the CARVM valuation rate. When AnnuityRate is nil the
// annuitization discount rate moves with it.
type SetDiscountRate struct {
	Rate        decimal.Decimal
	AnnuityRate *decimal.Decimal
}

func (sd *SetDiscountRate) Name() string {
	return "set_discount_rate"
}

func (sd *SetDiscountRate) Description() string {
	if sd.AnnuityRate != nil {
		return fmt.Sprintf("Value reserves at %s, annuities at %s", pct(sd.Rate), pct(*sd.AnnuityRate))
	}
	return fmt.Sprintf("Value reserves at %s", pct(sd.Rate))
}

func (sd *SetDiscountRate) Validate(base *domain.RunConfiguration) error {
	if sd.Rate.LessThanOrEqual(minusOne) {
		return NewTransformError(sd.Name(), "validate", fmt.Sprintf("discount rate must exceed -100%%, got %s", sd.Rate), nil)
	}
	if sd.AnnuityRate != nil && sd.AnnuityRate.LessThanOrEqual(minusOne) {
		return NewTransformError(sd.Name(), "validate", "annuity discount rate must exceed -100%", nil)
	}
	return requireBase(sd.Name(), base)
}

func (sd *SetDiscountRate) Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error) {
	modified := base.DeepCopy()
	modified.CARVM.DiscountRate = sd.Rate
	if sd.AnnuityRate != nil {
		modified.CARVM.AnnuityDiscountRate = *sd.AnnuityRate
	} else {
		modified.CARVM.AnnuityDiscountRate = sd.Rate
	}
	return modified, nil
}

// SetLastYearBasis selects the final-year continuation benefit.
type SetLastYearBasis struct {
	Basis domain.ContinuationBasis
}

func (sb *SetLastYearBasis) Name() string {
	return "set_last_year_basis"
}

func (sb *SetLastYearBasis) Description() string {
	return fmt.Sprintf("Final-year continuation on %s", sb.Basis)
}

func (sb *SetLastYearBasis) Validate(base *domain.RunConfiguration) error {
	return requireBase(sb.Name(), base)
}

func (sb *SetLastYearBasis) Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error) {
	modified := base.DeepCopy()
	modified.CARVM.LastYearBasis = sb.Basis
	return modified, nil
}
