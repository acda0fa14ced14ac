package calculation

import (
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// SurrenderInput describes a full surrender at month end.
type SurrenderInput struct {
	AccountValue       decimal.Decimal
	FreeRemaining      decimal.Decimal
	SurrenderChargePct decimal.Decimal
	// ChargePctOverride replaces SurrenderChargePct when set (term-end waiver).
	ChargePctOverride *decimal.Decimal
	MVAFactor         decimal.Decimal
	Funds             GuaranteeFundState
	// AdditionalFloor is an optional extra floor such as a guaranteed minimum value.
	AdditionalFloor *decimal.Decimal
}

// CashSurrenderValue converts the account value into a surrender payout. The free
// remaining budget is exempt from charge and MVA; the rest is charged, the post-charge
// excess is adjusted by the MVA factor, and the result is floored by the guarantee funds.
func CashSurrenderValue(in SurrenderInput) domain.SurrenderDetail {
	amount := nonNeg(in.AccountValue)
	freeRemaining := nonNeg(in.FreeRemaining)
	freePortion := decimal.Min(amount, freeRemaining)
	subjectSC := nonNeg(amount.Sub(freePortion))

	pct := in.SurrenderChargePct
	if in.ChargePctOverride != nil {
		pct = *in.ChargePctOverride
	}
	pct = nonNeg(pct)
	scAmount := mulRound(subjectSC, pct)

	subjectMVA := nonNeg(subjectSC.Sub(scAmount))
	mvaAmount := mulRound(subjectMVA, in.MVAFactor)

	before := nonNeg(amount.Sub(scAmount).Add(mvaAmount))
	guaranteeFloor := decimal.Max(nonNeg(in.Funds.MFV), nonNeg(in.Funds.PFV))
	value := decimal.Max(before, guaranteeFloor)
	if in.AdditionalFloor != nil {
		value = decimal.Max(value, nonNeg(*in.AdditionalFloor))
	}

	return domain.SurrenderDetail{
		SurrenderAmount:     amount,
		FreeRemainingAtCalc: freeRemaining,
		FreePortion:         freePortion,
		SubjectToCharge:     subjectSC,
		ChargePct:           pct,
		ChargeAmount:        scAmount,
		SubjectToMVA:        subjectMVA,
		MVAFactor:           in.MVAFactor,
		MVAAmount:           mvaAmount,
		BeforeFloors:        before,
		GuaranteeFloor:      guaranteeFloor,
		Value:               value,
	}
}
