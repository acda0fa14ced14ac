package calculation

import (
	"fmt"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// ReserveParams configures one reverse-induction reserve calculation.
type ReserveParams struct {
	IssueAge      int
	DiscountRate  decimal.Decimal
	LastYearBasis domain.ContinuationBasis
	// Annuity values the settlement options; it carries the annuitization discount rate,
	// installment term, mortality and sex.
	Annuity *AnnuitizationCalculator
}

// ComputeReserve walks the annual table from the last year back to year 1. Each year's
// continuation benefit depends on the following year's maximum benefit and withdrawal,
// so rows are finalized strictly in descending order.
func ComputeReserve(annual []domain.AnnualRow, p ReserveParams) (domain.ReserveResult, error) {
	result := domain.ReserveResult{Basis: p.LastYearBasis}
	if len(annual) == 0 {
		return result, nil
	}
	if p.Annuity == nil {
		return result, fmt.Errorf("annuitization calculator is required")
	}
	onePlusI := one.Add(p.DiscountRate)
	if !onePlusI.IsPositive() {
		return result, fmt.Errorf("carvm discount rate %s must exceed -100%%", p.DiscountRate)
	}

	rows := make([]domain.ReserveRow, len(annual))
	for i, a := range annual {
		age := p.IssueAge + a.PolicyYear
		surrender := a.AVEOY
		if a.CSVEOY.Valid {
			surrender = a.CSVEOY.Decimal
		}
		ann, err := p.Annuity.Value(a.AVEOY, age)
		if err != nil {
			return result, fmt.Errorf("policy year %d: %w", a.PolicyYear, err)
		}
		rows[i] = domain.ReserveRow{
			PolicyYear:    a.PolicyYear,
			AttainedAge:   age,
			WD:            a.WD,
			AVEOY:         a.AVEOY,
			Death:         a.AVEOY,
			Surrender:     surrender,
			InstallmentPV: ann.InstallmentPV,
			SingleLifePV:  ann.LifePV,
			Annuitization: ann.Benefit,
		}
	}

	last := len(rows) - 1
	var nextMax, nextWD decimal.Decimal
	for i := last; i >= 0; i-- {
		r := &rows[i]
		if i == last {
			if p.LastYearBasis == domain.BasisAV {
				r.Continuation = r.AVEOY
			} else {
				r.Continuation = r.Surrender
			}
		} else {
			r.Continuation = nextWD.Add(nextMax.Div(onePlusI)).Round(calcPlaces)
		}

		r.MaximumBenefit, r.Winner = greatestBenefit(r.Benefits())
		r.Reserve = r.MaximumBenefit.Div(onePlusI).Round(calcPlaces).Add(r.WD)

		nextMax = r.MaximumBenefit
		nextWD = r.WD
	}

	result.Rows = rows
	return result, nil
}

// greatestBenefit returns the largest candidate; the first one wins ties.
func greatestBenefit(candidates [4]decimal.Decimal) (decimal.Decimal, domain.BenefitKind) {
	best, kind := candidates[0], domain.BenefitDeath
	for i := 1; i < len(candidates); i++ {
		if candidates[i].GreaterThan(best) {
			best, kind = candidates[i], domain.BenefitKind(i)
		}
	}
	return best, kind
}
