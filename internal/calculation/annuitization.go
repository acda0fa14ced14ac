package calculation

import (
	"fmt"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tables"
	"github.com/shopspring/decimal"
)

// DefaultLifeMaxAge is the age at which single-life payments are assumed to stop.
const DefaultLifeMaxAge = 121

var survivalCutoff = decimal.RequireFromString("0.0000000001")

// MortalityProvider supplies annual mortality rates by attained age.
type MortalityProvider interface {
	MortalityRate(age int, sex domain.Sex) decimal.Decimal
}

// PayoutProvider supplies monthly settlement payments per amount applied.
type PayoutProvider interface {
	MonthlyPayment(amount decimal.Decimal, option domain.AnnuityOption, params tables.PayoutParams) (decimal.Decimal, error)
}

// AnnuitizationCalculator values the installment-certain and single-life options.
type AnnuitizationCalculator struct {
	Payout           PayoutProvider
	Mortality        MortalityProvider
	Sex              domain.Sex
	InstallmentYears int
	DiscountRate     decimal.Decimal
	MaxAge           int
}

// PVInstallmentCertain is the present value of a level monthly payment for the given
// number of years with no mortality discount.
func PVInstallmentCertain(payment decimal.Decimal, years int, annualDiscount decimal.Decimal) decimal.Decimal {
	if years <= 0 || !payment.IsPositive() {
		return decimal.Zero
	}
	v := one.DivRound(one.Add(MonthlyRate(annualDiscount)), 16)
	vm := one
	sum := decimal.Zero
	for m := 1; m <= years*12; m++ {
		vm = vm.Mul(v).Round(16)
		sum = sum.Add(vm)
	}
	return mulRound(payment, sum)
}

// PVSingleLife is the present value of a level monthly payment made at the end of each
// month the annuitant survives. Monthly survival is (1-qx)^(1/12) at the integer age
// reached; the sum stops at maxAge or once survival is negligible.
func PVSingleLife(payment decimal.Decimal, attainedAge int, sex domain.Sex, annualDiscount decimal.Decimal, mortality MortalityProvider, maxAge int) decimal.Decimal {
	if !payment.IsPositive() {
		return decimal.Zero
	}
	if attainedAge < 0 {
		attainedAge = 0
	}
	months := (maxAge - attainedAge) * 12
	if months <= 0 {
		return decimal.Zero
	}

	v := one.DivRound(one.Add(MonthlyRate(annualDiscount)), 16)
	vm := one
	survival := one
	sum := decimal.Zero
	var pMonth decimal.Decimal
	for m := 1; m <= months; m++ {
		if (m-1)%12 == 0 {
			age := attainedAge + (m-1)/12
			qx := mortality.MortalityRate(age, sex)
			qx = decimal.Min(decimal.Max(qx, decimal.Zero), one)
			pMonth = fractionalPow(one.Sub(qx), 1.0/12.0).Round(16)
		}
		survival = survival.Mul(pMonth).Round(16)
		vm = vm.Mul(v).Round(16)
		sum = sum.Add(survival.Mul(vm).Round(16))
		if survival.LessThan(survivalCutoff) {
			break
		}
	}
	return mulRound(payment, sum)
}

// Value computes both option values and the annuitization benefit for an amount applied
// at an attained age.
func (c *AnnuitizationCalculator) Value(amount decimal.Decimal, attainedAge int) (domain.AnnuitizationDetail, error) {
	detail := domain.AnnuitizationDetail{AmountApplied: amount, AttainedAge: attainedAge}
	if !amount.IsPositive() {
		return detail, nil
	}

	instPmt, err := c.Payout.MonthlyPayment(amount, domain.InstallmentCertain, tables.PayoutParams{Years: c.InstallmentYears})
	if err != nil {
		return detail, fmt.Errorf("installment payment: %w", err)
	}
	lifePmt, err := c.Payout.MonthlyPayment(amount, domain.SingleLifeNoGuarantee, tables.PayoutParams{
		Age: decimal.NewFromInt(int64(attainedAge)),
		Sex: c.Sex,
	})
	if err != nil {
		return detail, fmt.Errorf("life income payment: %w", err)
	}

	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultLifeMaxAge
	}

	detail.InstallmentPayment = instPmt
	detail.InstallmentPV = PVInstallmentCertain(instPmt, c.InstallmentYears, c.DiscountRate)
	detail.LifePayment = lifePmt
	detail.LifePV = PVSingleLife(lifePmt, attainedAge, c.Sex, c.DiscountRate, c.Mortality, maxAge)
	detail.Benefit = decimal.Max(detail.InstallmentPV, detail.LifePV)
	return detail, nil
}
