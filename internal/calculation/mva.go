package calculation

import (
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// MVAFactor computes ((1+X)/(1+Y))^(N/12) - 1, where X is the benchmark index rate at
// issue, Y the current benchmark rate and N the months remaining in the adjustment period.
// The factor is zero when N <= 0. Non-positive 1+X or 1+Y is a *domain.MVADomainError.
func MVAFactor(x, y decimal.Decimal, monthsRemaining int) (decimal.Decimal, error) {
	if monthsRemaining <= 0 {
		return decimal.Zero, nil
	}
	onePlusX := one.Add(x)
	onePlusY := one.Add(y)
	if !onePlusX.IsPositive() || !onePlusY.IsPositive() {
		return decimal.Zero, &domain.MVADomainError{InitialIndexRate: x, CurrentIndexRate: y}
	}
	ratio := onePlusX.DivRound(onePlusY, 16)
	return fractionalPow(ratio, float64(monthsRemaining)/12.0).Sub(one).Round(16), nil
}

// mvaSchedule resolves the MVA factor for each policy month of a run.
type mvaSchedule struct {
	enabled    bool
	x, y       decimal.Decimal
	termMonths int
	override   *int
}

func newMVASchedule(product *domain.ProductSpec, a domain.MVAAssumptions) (*mvaSchedule, error) {
	s := &mvaSchedule{
		enabled:    product.Features.MVA.Enabled && a.HasRates(),
		termMonths: product.TermYears * 12,
		override:   a.MonthsRemainingOverride,
	}
	if !s.enabled {
		return s, nil
	}
	s.x, s.y = *a.InitialIndexRate, *a.CurrentIndexRate
	// Surface bad index rates at the start of the run rather than mid-projection.
	if _, err := MVAFactor(s.x, s.y, 12); err != nil {
		return nil, err
	}
	return s, nil
}

// monthsRemaining is measured at the end of the policy month. An override replaces
// the computed value inside the term; after the term there is no adjustment period left.
func (s *mvaSchedule) monthsRemaining(policyMonth int) int {
	remaining := s.termMonths - policyMonth
	if remaining <= 0 {
		return 0
	}
	if s.override != nil {
		if *s.override < 0 {
			return 0
		}
		return *s.override
	}
	return remaining
}

func (s *mvaSchedule) factor(policyMonth int) (decimal.Decimal, int, error) {
	if !s.enabled {
		return decimal.Zero, 0, nil
	}
	n := s.monthsRemaining(policyMonth)
	f, err := MVAFactor(s.x, s.y, n)
	return f, n, err
}
