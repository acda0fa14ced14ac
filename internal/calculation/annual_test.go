package calculation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceAnnual(t *testing.T) {
	a := baseAssumptions()
	a.Withdrawal = domain.WithdrawalInstruction{Method: domain.WithdrawalPctOfBOYAV, Value: dec("0.05")}
	rows := runProjection(t, testProduct(), a)

	annual, err := ReduceAnnual(rows)
	require.NoError(t, err)
	require.Len(t, annual, 5)

	for i, y := range annual {
		boy, eoy := rows[i*12], rows[i*12+11]
		assert.Equal(t, i+1, y.PolicyYear)
		assert.Equal(t, 60+i, y.AttainedAge)
		assert.True(t, y.AVBOY.Equal(boy.Account.BOP))
		assert.True(t, y.WD.Equal(boy.Withdrawal.Amount))
		assert.True(t, y.AVEOY.Equal(eoy.Account.EOP))
		require.True(t, y.CSVEOY.Valid)
		assert.True(t, y.CSVEOY.Decimal.Equal(eoy.Surrender.Value))
	}
	assert.True(t, annual[0].AVBOY.Equal(dec("100000")))
	assert.True(t, annual[0].WD.IsZero())
	assert.True(t, annual[1].WD.IsPositive())
}

func TestReduceAnnual_DropsIncompleteYears(t *testing.T) {
	rows := runProjection(t, testProduct(), baseAssumptions())

	// Drop month 12 of year 3 and month 1 of year 4.
	var partial []domain.MonthlyRow
	for _, r := range rows {
		if r.Meta.PolicyMonth == 36 || r.Meta.PolicyMonth == 37 {
			continue
		}
		partial = append(partial, r)
	}

	annual, err := ReduceAnnual(partial)
	require.NoError(t, err)
	var years []int
	for _, y := range annual {
		years = append(years, y.PolicyYear)
	}
	if diff := cmp.Diff([]int{1, 2, 5}, years); diff != "" {
		t.Errorf("policy years mismatch (-want +got):\n%s", diff)
	}
}

func TestReduceAnnual_Malformed(t *testing.T) {
	rows := runProjection(t, testProduct(), baseAssumptions())
	rows[7].Meta.MonthInYear = 13

	_, err := ReduceAnnual(rows)
	assert.True(t, errors.Is(err, domain.ErrMalformedProjection))

	_, err = ReduceAnnual([]domain.MonthlyRow{{Meta: domain.MonthMeta{PolicyYear: 0, MonthInYear: 1}}})
	assert.True(t, errors.Is(err, domain.ErrMalformedProjection))

	annual, err := ReduceAnnual(nil)
	require.NoError(t, err)
	assert.Empty(t, annual)
}

func TestTruncateToTerm(t *testing.T) {
	annual := []domain.AnnualRow{{PolicyYear: 3}, {PolicyYear: 1}, {PolicyYear: 7}, {PolicyYear: 2}, {PolicyYear: 5}}

	got := TruncateToTerm(annual, 3)

	var years []int
	for _, r := range got {
		years = append(years, r.PolicyYear)
	}
	assert.Equal(t, []int{1, 2, 3}, years)
	assert.Len(t, annual, 5, "Input is not modified")
	assert.Empty(t, TruncateToTerm(annual, 0))
}
