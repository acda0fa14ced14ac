package calculation

import (
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// RollForwardAccount applies the month's withdrawal and penalty, credits interest on the
// remainder and floors the result at the guarantee-fund floor. The floor only ever raises
// the value.
func RollForwardAccount(bop, withdrawal, penalty, monthlyRate, floor decimal.Decimal) domain.AccountDetail {
	afterWD := nonNeg(bop.Sub(withdrawal).Sub(penalty))
	interest := mulRound(afterWD, monthlyRate)
	raw := afterWD.Add(interest)
	eop := decimal.Max(raw, floor)
	return domain.AccountDetail{
		BOP:             bop,
		AfterWithdrawal: afterWD,
		Interest:        interest,
		EOPRaw:          raw,
		Floor:           floor,
		EOP:             eop,
		FloorApplied:    floor.GreaterThan(raw),
	}
}
