package calculation

import (
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// WithdrawalBudgetState tracks the free-withdrawal allowance for the current policy year.
// It is a value type: every transition returns a new state.
type WithdrawalBudgetState struct {
	PolicyYear    int
	MonthInYear   int
	FreeLimit     decimal.Decimal
	FreeUsed      decimal.Decimal
	FreeRemaining decimal.Decimal
}

// InitialWithdrawalBudget is the state at issue: policy year 1, no allowance.
func InitialWithdrawalBudget() WithdrawalBudgetState {
	return WithdrawalBudgetState{PolicyYear: 1, MonthInYear: 1}
}

// WithdrawalMonth carries the per-month inputs to the withdrawal tracker.
type WithdrawalMonth struct {
	PolicyYear         int
	MonthInYear        int
	AVBOP              decimal.Decimal
	YearBOPAV          decimal.Decimal
	PriorYearInterest  decimal.Decimal
	SurrenderChargePct decimal.Decimal
	MVAFactor          decimal.Decimal
}

// IsWithdrawalMonth reports whether withdrawals occur this month: month 1 of years 2+.
func IsWithdrawalMonth(policyYear, monthInYear int) bool {
	return monthInYear == 1 && policyYear >= 2
}

// FreeLimitForYear sizes the product's free allowance for a policy year. Year 1 and
// products without the feature have no allowance.
func FreeLimitForYear(feature domain.FreeWithdrawalFeature, policyYear int, yearBOPAV, priorYearInterest decimal.Decimal) decimal.Decimal {
	if !feature.Enabled || policyYear <= 1 {
		return decimal.Zero
	}
	switch feature.Method {
	case domain.FreePctOfBOYAV:
		return nonNeg(mulRound(feature.Pct(), yearBOPAV))
	case domain.FreePriorYearInterest:
		return nonNeg(priorYearInterest)
	}
	return decimal.Zero
}

// RequestedWithdrawal sizes the policyholder's withdrawal before clamping to the account value.
func RequestedWithdrawal(instr domain.WithdrawalInstruction, policyYear int, yearBOPAV, priorYearInterest decimal.Decimal) decimal.Decimal {
	if policyYear <= 1 {
		return decimal.Zero
	}
	switch instr.Method {
	case domain.WithdrawalPctOfBOYAV:
		return nonNeg(mulRound(instr.Value, yearBOPAV))
	case domain.WithdrawalFixedAmount:
		return nonNeg(instr.Value)
	case domain.WithdrawalPriorYearInterest:
		return nonNeg(priorYearInterest)
	}
	return decimal.Zero
}

// WithdrawalTracker applies a product's free-withdrawal rule and the run's withdrawal instruction.
type WithdrawalTracker struct {
	feature     domain.FreeWithdrawalFeature
	instruction domain.WithdrawalInstruction
}

// NewWithdrawalTracker binds a product's free allowance to the run's withdrawal instruction.
func NewWithdrawalTracker(feature domain.FreeWithdrawalFeature, instruction domain.WithdrawalInstruction) *WithdrawalTracker {
	return &WithdrawalTracker{feature: feature, instruction: instruction}
}

// refresh resets the budget on the first month of a new policy year and otherwise
// carries it forward unchanged.
func (t *WithdrawalTracker) refresh(state WithdrawalBudgetState, m WithdrawalMonth) WithdrawalBudgetState {
	if m.PolicyYear != state.PolicyYear && m.MonthInYear == 1 {
		limit := FreeLimitForYear(t.feature, m.PolicyYear, m.YearBOPAV, m.PriorYearInterest)
		return WithdrawalBudgetState{
			PolicyYear:    m.PolicyYear,
			MonthInYear:   m.MonthInYear,
			FreeLimit:     limit,
			FreeUsed:      decimal.Zero,
			FreeRemaining: limit,
		}
	}
	next := state
	next.MonthInYear = m.MonthInYear
	return next
}

// Step advances the budget for one month and splits any withdrawal into free and
// excess portions with the resulting surrender charge and MVA.
func (t *WithdrawalTracker) Step(state WithdrawalBudgetState, m WithdrawalMonth) (WithdrawalBudgetState, domain.WithdrawalDetail) {
	state = t.refresh(state, m)

	if !IsWithdrawalMonth(m.PolicyYear, m.MonthInYear) {
		return state, domain.WithdrawalDetail{
			FreeLimit:     state.FreeLimit,
			FreeUsedYTD:   state.FreeUsed,
			FreeRemaining: state.FreeRemaining,
		}
	}

	requested := RequestedWithdrawal(t.instruction, m.PolicyYear, m.YearBOPAV, m.PriorYearInterest)
	wd := decimal.Min(requested, nonNeg(m.AVBOP))

	freeUsed := decimal.Min(wd, nonNeg(state.FreeRemaining))
	excess := nonNeg(wd.Sub(freeUsed))

	usedYTD := state.FreeUsed.Add(freeUsed)
	remaining := nonNeg(state.FreeLimit.Sub(usedYTD))

	scPct := nonNeg(m.SurrenderChargePct)
	scAmount := mulRound(excess, scPct)

	mvaSubject := nonNeg(excess.Sub(scAmount))
	mvaAmount := mulRound(mvaSubject, m.MVAFactor)

	next := WithdrawalBudgetState{
		PolicyYear:    m.PolicyYear,
		MonthInYear:   m.MonthInYear,
		FreeLimit:     state.FreeLimit,
		FreeUsed:      usedYTD,
		FreeRemaining: remaining,
	}
	return next, domain.WithdrawalDetail{
		Amount:                wd,
		FreeLimit:             state.FreeLimit,
		FreeUsedThisTxn:       freeUsed,
		FreeUsedYTD:           usedYTD,
		FreeRemaining:         remaining,
		Excess:                excess,
		SurrenderChargePct:    scPct,
		SurrenderChargeAmount: scAmount,
		MVASubject:            mvaSubject,
		MVAAmount:             mvaAmount,
		PenaltyTotal:          scAmount.Add(mvaAmount),
	}
}
