package transform

import (
	"fmt"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// SetCreditingRates replaces the initial and/or renewal crediting rates.
type SetCreditingRates struct {
	InitialRate *decimal.Decimal
	RenewalRate *decimal.Decimal
}

func (sc *SetCreditingRates) Name() string {
	return "set_rates"
}

func (sc *SetCreditingRates) Description() string {
	switch {
	case sc.InitialRate != nil && sc.RenewalRate != nil:
		return fmt.Sprintf("Credit %s initially, %s on renewal", pct(*sc.InitialRate), pct(*sc.RenewalRate))
	case sc.InitialRate != nil:
		return fmt.Sprintf("Credit %s during the term", pct(*sc.InitialRate))
	case sc.RenewalRate != nil:
		return fmt.Sprintf("Renew at %s", pct(*sc.RenewalRate))
	}
	return "Keep crediting rates"
}

func (sc *SetCreditingRates) Validate(base *domain.RunConfiguration) error {
	if sc.InitialRate == nil && sc.RenewalRate == nil {
		return NewTransformError(sc.Name(), "validate", "at least one of initial or renewal rate is required", nil)
	}
	for _, r := range []*decimal.Decimal{sc.InitialRate, sc.RenewalRate} {
		if r != nil && r.LessThanOrEqual(minusOne) {
			return NewTransformError(sc.Name(), "validate", fmt.Sprintf("rate must exceed -100%%, got %s", r), nil)
		}
	}
	return requireBase(sc.Name(), base)
}

func (sc *SetCreditingRates) Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error) {
	modified := base.DeepCopy()
	if sc.InitialRate != nil {
		modified.InitialRate = *sc.InitialRate
	}
	if sc.RenewalRate != nil {
		modified.RenewalRate = *sc.RenewalRate
	}
	return modified, nil
}

// ShiftRenewalRate moves the renewal crediting rate by a fixed amount (e.g. -0.005).
type ShiftRenewalRate struct {
	Delta decimal.Decimal
}

func (sr *ShiftRenewalRate) Name() string {
	return "shift_renewal_rate"
}

func (sr *ShiftRenewalRate) Description() string {
	return fmt.Sprintf("Shift renewal rate by %s", pct(sr.Delta))
}

func (sr *ShiftRenewalRate) Validate(base *domain.RunConfiguration) error {
	if err := requireBase(sr.Name(), base); err != nil {
		return err
	}
	if base.RenewalRate.Add(sr.Delta).LessThanOrEqual(minusOne) {
		return NewTransformError(sr.Name(), "validate", "shifted renewal rate must exceed -100%", nil)
	}
	return nil
}

func (sr *ShiftRenewalRate) Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error) {
	modified := base.DeepCopy()
	modified.RenewalRate = base.RenewalRate.Add(sr.Delta)
	return modified, nil
}

// SetMVARates replaces the benchmark index rates at issue and today.
type SetMVARates struct {
	InitialIndexRate decimal.Decimal
	CurrentIndexRate decimal.Decimal
}

func (sm *SetMVARates) Name() string {
	return "set_mva_rates"
}

func (sm *SetMVARates) Description() string {
	return fmt.Sprintf("Benchmark yield %s at issue, %s now", pct(sm.InitialIndexRate), pct(sm.CurrentIndexRate))
}

func (sm *SetMVARates) Validate(base *domain.RunConfiguration) error {
	if sm.InitialIndexRate.LessThanOrEqual(minusOne) || sm.CurrentIndexRate.LessThanOrEqual(minusOne) {
		return NewTransformError(sm.Name(), "validate", "index rates must exceed -100%",
			&domain.MVADomainError{InitialIndexRate: sm.InitialIndexRate, CurrentIndexRate: sm.CurrentIndexRate})
	}
	return requireBase(sm.Name(), base)
}

func (sm *SetMVARates) Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error) {
	modified := base.DeepCopy()
	x, y := sm.InitialIndexRate, sm.CurrentIndexRate
	modified.MVA.InitialIndexRate = &x
	modified.MVA.CurrentIndexRate = &y
	return modified, nil
}

// ShiftIndexRate applies a parallel shock to the current benchmark yield. The base run
// must already carry both index rates.
type ShiftIndexRate struct {
	Delta decimal.Decimal
}

func (si *ShiftIndexRate) Name() string {
	return "shift_index_rate"
}

func (si *ShiftIndexRate) Description() string {
	return fmt.Sprintf("Shock current benchmark yield by %s", pct(si.Delta))
}

func (si *ShiftIndexRate) Validate(base *domain.RunConfiguration) error {
	if err := requireBase(si.Name(), base); err != nil {
		return err
	}
	if !base.MVA.HasRates() {
		return NewTransformError(si.Name(), "validate", "base run has no MVA index rates to shift", nil)
	}
	shifted := base.MVA.CurrentIndexRate.Add(si.Delta)
	if shifted.LessThanOrEqual(minusOne) {
		return NewTransformError(si.Name(), "validate", "shifted index rate must exceed -100%",
			&domain.MVADomainError{InitialIndexRate: *base.MVA.InitialIndexRate, CurrentIndexRate: shifted})
	}
	return nil
}

func (si *ShiftIndexRate) Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error) {
	modified := base.DeepCopy()
	shifted := modified.MVA.CurrentIndexRate.Add(si.Delta)
	modified.MVA.CurrentIndexRate = &shifted
	return modified, nil
}
