package calculation

import (
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// RateResolver derives the crediting rate and surrender-charge percentage for a policy year.
type RateResolver struct {
	product     *domain.ProductSpec
	initialRate decimal.Decimal
	renewalRate decimal.Decimal
}

// NewRateResolver binds a product to the run's initial and renewal crediting rates.
func NewRateResolver(product *domain.ProductSpec, initialRate, renewalRate decimal.Decimal) *RateResolver {
	return &RateResolver{product: product, initialRate: initialRate, renewalRate: renewalRate}
}

// AnnualRate is the initial rate through the guaranteed term, then the greater of the
// renewal rate and the product's guaranteed minimum.
func (r *RateResolver) AnnualRate(policyYear int) decimal.Decimal {
	if policyYear <= r.product.TermYears {
		return r.initialRate
	}
	return decimal.Max(r.renewalRate, r.product.Features.MinimumGuaranteedRate)
}

// SurrenderChargePct returns the scheduled charge, or the after-term default past the schedule.
func (r *RateResolver) SurrenderChargePct(policyYear int) decimal.Decimal {
	return r.product.SurrenderChargePct(policyYear)
}

// MFVAnnualRate credits the initial rate during the term and the guaranteed minimum after.
func (r *RateResolver) MFVAnnualRate(policyYear int) decimal.Decimal {
	if policyYear <= r.product.TermYears {
		return r.initialRate
	}
	return r.product.Features.MinimumGuaranteedRate
}

// TermMonths is the length of the surrender-charge period in months.
func (r *RateResolver) TermMonths() int {
	return r.product.TermYears * 12
}
