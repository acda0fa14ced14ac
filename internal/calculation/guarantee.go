package calculation

import (
	"fmt"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// GuaranteeFundState holds the minimum fund value and prospective fund value balances.
type GuaranteeFundState struct {
	MFV decimal.Decimal
	PFV decimal.Decimal
}

// Floor is the greater of the two balances.
func (s GuaranteeFundState) Floor() decimal.Decimal {
	return decimal.Max(s.MFV, s.PFV)
}

// GuaranteeFundTracker credits both funds on their own rate schedules.
type GuaranteeFundTracker struct {
	params domain.GuaranteeFundParams
	rates  *RateResolver
}

// NewGuaranteeFundTracker validates the fund parameters and returns the tracker with its issue-date state.
func NewGuaranteeFundTracker(params domain.GuaranteeFundParams, rates *RateResolver, premium decimal.Decimal) (*GuaranteeFundTracker, GuaranteeFundState, error) {
	if params.MFVBasePct.IsNegative() {
		return nil, GuaranteeFundState{}, fmt.Errorf("MFV base_pct_of_premium must be >= 0, got %s", params.MFVBasePct)
	}
	if params.PFVBasePct.IsNegative() {
		return nil, GuaranteeFundState{}, fmt.Errorf("PFV base_pct_of_premium must be >= 0, got %s", params.PFVBasePct)
	}
	if params.PFVRateYears < 0 {
		return nil, GuaranteeFundState{}, fmt.Errorf("PFV rate_years must be >= 0, got %d", params.PFVRateYears)
	}
	initial := GuaranteeFundState{
		MFV: mulRound(params.MFVBasePct, premium),
		PFV: mulRound(params.PFVBasePct, premium),
	}
	return &GuaranteeFundTracker{params: params, rates: rates}, initial, nil
}

// PFVAnnualRate is the flat PFV rate for the configured years, then the after-years rate.
func (g *GuaranteeFundTracker) PFVAnnualRate(policyYear int) decimal.Decimal {
	if policyYear <= g.params.PFVRateYears {
		return g.params.PFVRateAnnual
	}
	return g.params.PFVRateAfterYears
}

// ApplyWithdrawal reduces both funds by the gross withdrawal only, floored at zero.
func (g *GuaranteeFundTracker) ApplyWithdrawal(s GuaranteeFundState, withdrawal decimal.Decimal) GuaranteeFundState {
	wd := nonNeg(withdrawal)
	return GuaranteeFundState{
		MFV: nonNeg(s.MFV.Sub(wd)),
		PFV: nonNeg(s.PFV.Sub(wd)),
	}
}

// Credit applies one month of interest to each fund at its policy-year rate.
func (g *GuaranteeFundTracker) Credit(s GuaranteeFundState, policyYear int) (GuaranteeFundState, decimal.Decimal, decimal.Decimal) {
	mfvRate := g.rates.MFVAnnualRate(policyYear)
	pfvRate := g.PFVAnnualRate(policyYear)
	return GuaranteeFundState{
		MFV: mulRound(s.MFV, one.Add(MonthlyRate(mfvRate))),
		PFV: mulRound(s.PFV, one.Add(MonthlyRate(pfvRate))),
	}, mfvRate, pfvRate
}
