package calculation

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// ReduceAnnual collapses a monthly projection to one row per policy year: beginning values
// and the withdrawal from month 1, ending values from month 12. Years missing either month
// are dropped. Rows with invalid policy-year or month keys make the table malformed.
func ReduceAnnual(rows []domain.MonthlyRow) ([]domain.AnnualRow, error) {
	boy := make(map[int]domain.MonthlyRow)
	eoy := make(map[int]domain.MonthlyRow)

	for i, r := range rows {
		if r.Meta.PolicyYear < 1 || r.Meta.MonthInYear < 1 || r.Meta.MonthInYear > 12 {
			return nil, fmt.Errorf("%w: row %d has policy year %d, month %d",
				domain.ErrMalformedProjection, i, r.Meta.PolicyYear, r.Meta.MonthInYear)
		}
		switch r.Meta.MonthInYear {
		case 1:
			boy[r.Meta.PolicyYear] = r
		case 12:
			eoy[r.Meta.PolicyYear] = r
		}
	}

	years := make([]int, 0, len(boy))
	for y := range boy {
		if _, ok := eoy[y]; ok {
			years = append(years, y)
		}
	}
	sort.Ints(years)

	out := make([]domain.AnnualRow, 0, len(years))
	for _, y := range years {
		b, e := boy[y], eoy[y]
		out = append(out, domain.AnnualRow{
			PolicyYear:  y,
			AttainedAge: b.Meta.AttainedAge,
			AVBOY:       b.Account.BOP,
			WD:          b.Withdrawal.Amount,
			AVEOY:       e.Account.EOP,
			CSVEOY:      decimal.NullDecimal{Decimal: e.Surrender.Value, Valid: true},
		})
	}
	return out, nil
}

// TruncateToTerm keeps policy years up to and including termYears.
func TruncateToTerm(rows []domain.AnnualRow, termYears int) []domain.AnnualRow {
	out := make([]domain.AnnualRow, 0, len(rows))
	for _, r := range rows {
		if r.PolicyYear <= termYears {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PolicyYear < out[j].PolicyYear })
	return out
}
