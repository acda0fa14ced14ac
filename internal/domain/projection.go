package domain

import (
	"github.com/shopspring/decimal"
)

// MonthlyRow captures every computed quantity for one projected month.
// Field groups mirror the output column prefixes (meta_, wd_, mva_, av_, gf_, csv_, ann_).
type MonthlyRow struct {
	Meta          MonthMeta            `json:"meta"`
	Withdrawal    WithdrawalDetail     `json:"wd"`
	MVA           MVADetail            `json:"mva"`
	Account       AccountDetail        `json:"av"`
	Funds         GuaranteeFundDetail  `json:"gf"`
	Surrender     SurrenderDetail      `json:"csv"`
	Annuitization *AnnuitizationDetail `json:"ann,omitempty"` // set on the last month of a policy year only
}

// MonthMeta holds the time keys and resolved rates for a month.
type MonthMeta struct {
	PolicyMonth int             `json:"policyMonth"`
	PolicyYear  int             `json:"policyYear"`
	MonthInYear int             `json:"monthInPolicyYear"`
	AnnualRate  decimal.Decimal `json:"annualRate"`
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
	AttainedAge int             `json:"attainedAge"`
}

// WithdrawalDetail is the withdrawal tracker output for a month.
type WithdrawalDetail struct {
	Amount                decimal.Decimal `json:"withdrawalAmount"`
	FreeLimit             decimal.Decimal `json:"freeLimitYTD"`
	FreeUsedThisTxn       decimal.Decimal `json:"freeUsedThisTxn"`
	FreeUsedYTD           decimal.Decimal `json:"freeUsedYTD"`
	FreeRemaining         decimal.Decimal `json:"freeRemaining"`
	Excess                decimal.Decimal `json:"excessAmount"`
	SurrenderChargePct    decimal.Decimal `json:"surrenderChargePct"`
	SurrenderChargeAmount decimal.Decimal `json:"surrenderChargeAmount"`
	MVASubject            decimal.Decimal `json:"mvaAmountSubject"`
	MVAAmount             decimal.Decimal `json:"mvaAmount"`
	PenaltyTotal          decimal.Decimal `json:"penaltyTotal"`
}

// MVADetail records the MVA factor and its inputs for a month.
type MVADetail struct {
	Factor           decimal.Decimal  `json:"factor"`
	MonthsRemaining  int              `json:"monthsRemaining"`
	InitialIndexRate *decimal.Decimal `json:"initialIndexRate,omitempty"`
	CurrentIndexRate *decimal.Decimal `json:"currentIndexRate,omitempty"`
}

// AccountDetail is the account value roll-forward for a month.
type AccountDetail struct {
	BOP             decimal.Decimal `json:"bop"`
	AfterWithdrawal decimal.Decimal `json:"afterWithdrawal"`
	Interest        decimal.Decimal `json:"interestCredit"`
	EOPRaw          decimal.Decimal `json:"eopRaw"`
	Floor           decimal.Decimal `json:"floor"`
	EOP             decimal.Decimal `json:"eop"`
	FloorApplied    bool            `json:"floorApplied"`
}

// GuaranteeFundDetail shows both guarantee funds before and after the month.
type GuaranteeFundDetail struct {
	MFVBOP  decimal.Decimal `json:"mfvBop"`
	PFVBOP  decimal.Decimal `json:"pfvBop"`
	MFVRate decimal.Decimal `json:"mfvAnnualRate"`
	PFVRate decimal.Decimal `json:"pfvAnnualRate"`
	MFVEOP  decimal.Decimal `json:"mfvEop"`
	PFVEOP  decimal.Decimal `json:"pfvEop"`
}

// Floor returns the greater of the two ending fund balances.
func (g GuaranteeFundDetail) Floor() decimal.Decimal {
	return decimal.Max(g.MFVEOP, g.PFVEOP)
}

// SurrenderDetail is the cash surrender value calculation at month end.
type SurrenderDetail struct {
	SurrenderAmount     decimal.Decimal `json:"surrenderAmount"`
	FreeRemainingAtCalc decimal.Decimal `json:"freeRemainingAtCalc"`
	FreePortion         decimal.Decimal `json:"freePortionUsed"`
	SubjectToCharge     decimal.Decimal `json:"amountSubjectToSurrenderCharge"`
	ChargePct           decimal.Decimal `json:"surrenderChargePctUsed"`
	ChargeAmount        decimal.Decimal `json:"surrenderChargeAmountUsed"`
	SubjectToMVA        decimal.Decimal `json:"amountSubjectToMva"`
	MVAFactor           decimal.Decimal `json:"mvaFactorUsed"`
	MVAAmount           decimal.Decimal `json:"mvaAmountUsed"`
	BeforeFloors        decimal.Decimal `json:"beforeFloors"`
	GuaranteeFloor      decimal.Decimal `json:"nffFloorUsed"`
	Value               decimal.Decimal `json:"final"`
}

// AnnuitizationDetail values the settlement options against the year-end account value.
type AnnuitizationDetail struct {
	AmountApplied      decimal.Decimal `json:"amountApplied"`
	AttainedAge        int             `json:"attainedAge"`
	InstallmentPayment decimal.Decimal `json:"installmentPayment"`
	InstallmentPV      decimal.Decimal `json:"installmentPv"`
	LifePayment        decimal.Decimal `json:"lifePayment"`
	LifePV             decimal.Decimal `json:"lifePv"`
	Benefit            decimal.Decimal `json:"benefit"`
}

// AnnualRow is one policy year of the reduced projection.
type AnnualRow struct {
	PolicyYear  int                 `json:"policyYear"`
	AttainedAge int                 `json:"attainedAge"`
	AVBOY       decimal.Decimal     `json:"avBoy"`
	WD          decimal.Decimal     `json:"wd"`
	AVEOY       decimal.Decimal     `json:"avEoy"`
	CSVEOY      decimal.NullDecimal `json:"csvEoy"`
}

// ProjectionResult is the output of one illustration run.
type ProjectionResult struct {
	ProductCode string                `json:"productCode"`
	Assumptions ProjectionAssumptions `json:"assumptions"`
	Monthly     []MonthlyRow          `json:"monthly"`
	Annual      []AnnualRow           `json:"annual"`
}

// FinalMonth returns the last projected month, or nil for an empty projection.
func (r *ProjectionResult) FinalMonth() *MonthlyRow {
	if len(r.Monthly) == 0 {
		return nil
	}
	return &r.Monthly[len(r.Monthly)-1]
}
