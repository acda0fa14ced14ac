package calculation

import (
	"fmt"
	"testing"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjector_FirstYearCompoundsToAnnualRate(t *testing.T) {
	rows := runProjection(t, testProduct(), baseAssumptions())
	require.Len(t, rows, 60)

	month12 := rows[11]
	assert.Equal(t, 12, month12.Meta.PolicyMonth)
	assert.Equal(t, "105000.00", month12.Account.EOP.StringFixed(2))
	assertClose(t, dec("105000"), month12.Account.EOP, "0.000001")
}

func TestProjector_ConservationWithoutWithdrawals(t *testing.T) {
	rows := runProjection(t, testProduct(), baseAssumptions())

	for _, r := range rows {
		assert.True(t, r.Withdrawal.Amount.IsZero())
		assert.True(t, r.Withdrawal.PenaltyTotal.IsZero())
		assert.False(t, r.Account.FloorApplied, "month %d", r.Meta.PolicyMonth)
		want := r.Account.BOP.Add(mulRound(r.Account.BOP, r.Meta.MonthlyRate))
		assert.True(t, r.Account.EOP.Equal(want), "month %d: want %s got %s", r.Meta.PolicyMonth, want, r.Account.EOP)
	}
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i].Account.BOP.Equal(rows[i-1].Account.EOP), "month %d starts where the last ended", i+1)
	}
}

func TestProjector_Invariants(t *testing.T) {
	interestProduct := testProduct()
	interestProduct.Features.FreePartialWithdrawal = domain.FreeWithdrawalFeature{Enabled: true, Method: domain.FreePriorYearInterest}

	tests := []struct {
		name    string
		product *domain.ProductSpec
		mutate  func(a *domain.ProjectionAssumptions)
	}{
		{"no withdrawals", testProduct(), func(a *domain.ProjectionAssumptions) {}},
		{"ten percent", testProduct(), func(a *domain.ProjectionAssumptions) {
			a.Withdrawal = domain.WithdrawalInstruction{Method: domain.WithdrawalPctOfBOYAV, Value: dec("0.10")}
		}},
		{"heavy percent with rising yields", testProduct(), func(a *domain.ProjectionAssumptions) {
			a.Withdrawal = domain.WithdrawalInstruction{Method: domain.WithdrawalPctOfBOYAV, Value: dec("0.45")}
			a.MVA = domain.MVAAssumptions{InitialIndexRate: decPtr("0.03"), CurrentIndexRate: decPtr("0.07")}
		}},
		{"fixed larger than account", testProduct(), func(a *domain.ProjectionAssumptions) {
			a.Withdrawal = domain.WithdrawalInstruction{Method: domain.WithdrawalFixedAmount, Value: dec("250000")}
		}},
		{"prior year interest", interestProduct, func(a *domain.ProjectionAssumptions) {
			a.Withdrawal = domain.WithdrawalInstruction{Method: domain.WithdrawalPriorYearInterest}
		}},
		{"low rate beyond term", testProduct(), func(a *domain.ProjectionAssumptions) {
			a.InitialRate = dec("0.001")
			a.RenewalRate = decimal.Zero
			a.ProjectionYears = 15
			a.Withdrawal = domain.WithdrawalInstruction{Method: domain.WithdrawalFixedAmount, Value: dec("3000")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseAssumptions()
			tt.mutate(&a)
			rows := runProjection(t, tt.product, a)

			for _, r := range rows {
				at := fmt.Sprintf("month %d", r.Meta.PolicyMonth)
				floor := decimal.Max(r.Funds.MFVEOP, r.Funds.PFVEOP)
				assert.True(t, r.Account.EOP.GreaterThanOrEqual(floor), "%s: av below guarantee floor", at)
				assert.True(t, r.Account.EOP.GreaterThanOrEqual(r.Account.EOPRaw), "%s: floor lowered av", at)
				assert.False(t, r.Account.EOP.IsNegative(), at)
				assert.False(t, r.Funds.MFVEOP.IsNegative(), at)
				assert.False(t, r.Funds.PFVEOP.IsNegative(), at)
				assert.False(t, r.Surrender.Value.IsNegative(), at)
				assert.True(t, r.Withdrawal.Amount.LessThanOrEqual(r.Account.BOP), "%s: withdrawal exceeds av", at)
				if r.Withdrawal.Amount.IsPositive() {
					assert.Equal(t, 1, r.Meta.MonthInYear, at)
					assert.GreaterOrEqual(t, r.Meta.PolicyYear, 2, at)
				}
				// Guarantee funds move only by withdrawal principal and interest.
				wantMFV := nonNeg(r.Funds.MFVBOP.Sub(r.Withdrawal.Amount))
				wantMFV = mulRound(wantMFV, one.Add(MonthlyRate(r.Funds.MFVRate)))
				assert.True(t, r.Funds.MFVEOP.Equal(wantMFV), "%s: mfv", at)
			}
		})
	}
}

func TestProjector_PriorYearInterestWithdrawal(t *testing.T) {
	product := testProduct()
	product.Features.FreePartialWithdrawal = domain.FreeWithdrawalFeature{Enabled: true, Method: domain.FreePriorYearInterest}
	a := baseAssumptions()
	a.Withdrawal = domain.WithdrawalInstruction{Method: domain.WithdrawalPriorYearInterest}

	rows := runProjection(t, product, a)

	yearOneInterest := decimal.Zero
	for _, r := range rows[:12] {
		yearOneInterest = yearOneInterest.Add(r.Account.Interest)
	}
	month13 := rows[12]
	assert.True(t, month13.Withdrawal.Amount.Equal(yearOneInterest))
	assert.True(t, month13.Withdrawal.FreeLimit.Equal(yearOneInterest))
	assert.True(t, month13.Withdrawal.Excess.IsZero(), "Interest withdrawal is fully free")
	assert.True(t, month13.Withdrawal.PenaltyTotal.IsZero())
	assertClose(t, dec("5000"), yearOneInterest, "0.000001")
}

func TestProjector_FreeBudgetIdempotence(t *testing.T) {
	rows := runProjection(t, testProduct(), baseAssumptions())

	for year := 2; year <= 5; year++ {
		yearRows := rows[(year-1)*12 : year*12]
		limit := yearRows[0].Withdrawal.FreeLimit
		assert.True(t, limit.Equal(mulRound(dec("0.10"), yearRows[0].Account.BOP)), "year %d limit", year)
		for _, r := range yearRows {
			assert.True(t, r.Withdrawal.FreeUsedYTD.IsZero())
			assert.True(t, r.Withdrawal.FreeRemaining.Equal(limit))
		}
	}
	for _, r := range rows[:12] {
		assert.True(t, r.Withdrawal.FreeLimit.IsZero(), "No free allowance in year 1")
	}
}

func TestProjector_CSVUsesRemainingFreeBudget(t *testing.T) {
	a := baseAssumptions()
	a.Withdrawal = domain.WithdrawalInstruction{Method: domain.WithdrawalPctOfBOYAV, Value: dec("0.04")}
	rows := runProjection(t, testProduct(), a)

	month13 := rows[12]
	assert.True(t, month13.Withdrawal.Excess.IsZero())
	assert.True(t, month13.Surrender.FreeRemainingAtCalc.Equal(month13.Withdrawal.FreeRemaining))
	assert.True(t, month13.Surrender.FreeRemainingAtCalc.Equal(
		month13.Withdrawal.FreeLimit.Sub(month13.Withdrawal.Amount)))
	assert.True(t, month13.Surrender.ChargePct.Equal(dec("0.07")))
}

func TestProjector_TermEndWaiverAndMVA(t *testing.T) {
	a := baseAssumptions()
	a.MVA = domain.MVAAssumptions{InitialIndexRate: decPtr("0.04"), CurrentIndexRate: decPtr("0.045")}
	rows := runProjection(t, testProduct(), a)

	assert.Equal(t, 59, rows[0].MVA.MonthsRemaining)
	assert.True(t, rows[0].MVA.Factor.IsNegative(), "Rising yields reduce surrender values")
	assert.True(t, rows[58].Surrender.ChargePct.Equal(dec("0.04")))

	last := rows[59]
	assert.Equal(t, 0, last.MVA.MonthsRemaining)
	assert.True(t, last.MVA.Factor.IsZero())
	assert.True(t, last.Surrender.ChargePct.IsZero(), "Charge waived at the end of the term")
	assert.True(t, last.Surrender.Value.Equal(last.Account.EOP))
}

func TestProjector_Defaults(t *testing.T) {
	a := baseAssumptions()
	a.ProjectionYears = 0
	p, err := NewProjector(testProduct(), a, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 60, p.Months(), "Defaults to the product term")

	rows, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, 62, rows[24].Meta.AttainedAge)
	assert.Equal(t, 3, rows[24].Meta.PolicyYear)
	assert.Equal(t, 1, rows[24].Meta.MonthInYear)
	for _, r := range rows {
		assert.Nil(t, r.Annuitization)
	}
}

func TestProjector_RenewalRateAfterTerm(t *testing.T) {
	a := baseAssumptions()
	a.ProjectionYears = 7
	rows := runProjection(t, testProduct(), a)

	assert.True(t, rows[59].Meta.AnnualRate.Equal(dec("0.05")))
	assert.True(t, rows[60].Meta.AnnualRate.Equal(dec("0.03")))
	assert.True(t, rows[60].Surrender.ChargePct.IsZero())
}

func TestProjector_AnnuitizationAtYearEnd(t *testing.T) {
	p, err := NewProjector(testProduct(), baseAssumptions(), testAnnuity(t, "0.04"), nil)
	require.NoError(t, err)
	rows, err := p.Run()
	require.NoError(t, err)

	for _, r := range rows {
		if r.Meta.MonthInYear != 12 {
			assert.Nil(t, r.Annuitization)
			continue
		}
		require.NotNil(t, r.Annuitization, "month %d", r.Meta.PolicyMonth)
		assert.Equal(t, 60+r.Meta.PolicyYear, r.Annuitization.AttainedAge)
		assert.True(t, r.Annuitization.AmountApplied.Equal(r.Account.EOP))
		assert.True(t, r.Annuitization.Benefit.Equal(decimal.Max(r.Annuitization.InstallmentPV, r.Annuitization.LifePV)))
	}
}

func TestNewProjector_Errors(t *testing.T) {
	_, err := NewProjector(nil, baseAssumptions(), nil, nil)
	assert.Error(t, err)

	a := baseAssumptions()
	a.Premium = dec("-1")
	_, err = NewProjector(testProduct(), a, nil, nil)
	assert.Error(t, err)

	a = baseAssumptions()
	a.MVA = domain.MVAAssumptions{InitialIndexRate: decPtr("0.04"), CurrentIndexRate: decPtr("-1")}
	_, err = NewProjector(testProduct(), a, nil, nil)
	var mvaErr *domain.MVADomainError
	assert.ErrorAs(t, err, &mvaErr)
}

func TestProjector_RunIsRepeatable(t *testing.T) {
	a := baseAssumptions()
	a.Withdrawal = domain.WithdrawalInstruction{Method: domain.WithdrawalPctOfBOYAV, Value: dec("0.12")}
	p, err := NewProjector(testProduct(), a, nil, NopLogger{})
	require.NoError(t, err)

	first, err := p.Run()
	require.NoError(t, err)
	second, err := p.Run()
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].Account.EOP.Equal(second[i].Account.EOP))
	}
}
