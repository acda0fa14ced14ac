package domain

import (
	"fmt"
	"strings"
)

// WithdrawalMethod selects how the policyholder's annual withdrawal request is sized.
type WithdrawalMethod int

const (
	// WithdrawalPctOfBOYAV requests a percentage of the beginning-of-year account value.
	WithdrawalPctOfBOYAV WithdrawalMethod = iota
	// WithdrawalFixedAmount requests a level dollar amount.
	WithdrawalFixedAmount
	// WithdrawalPriorYearInterest requests the interest credited during the prior policy year.
	WithdrawalPriorYearInterest
)

var withdrawalMethodNames = map[WithdrawalMethod]string{
	WithdrawalPctOfBOYAV:        "pct_of_boy_av",
	WithdrawalFixedAmount:       "fixed_amount",
	WithdrawalPriorYearInterest: "prior_year_interest_credited",
}

func (m WithdrawalMethod) String() string {
	if name, ok := withdrawalMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("WithdrawalMethod(%d)", int(m))
}

// ParseWithdrawalMethod converts a configuration string into a WithdrawalMethod.
func ParseWithdrawalMethod(s string) (WithdrawalMethod, error) {
	switch normalizeToken(s) {
	case "pct_of_boy_av", "pct_of_boy_account_value", "percent":
		return WithdrawalPctOfBOYAV, nil
	case "fixed_amount", "fixed":
		return WithdrawalFixedAmount, nil
	case "prior_year_interest_credited", "prior_year_interest":
		return WithdrawalPriorYearInterest, nil
	}
	return 0, fmt.Errorf("%w: withdrawal method %q", ErrUnsupportedOption, s)
}

func (m WithdrawalMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *WithdrawalMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseWithdrawalMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// FreeWithdrawalMethod selects how a product sizes its annual free (charge-exempt) allowance.
type FreeWithdrawalMethod int

const (
	// FreeMethodUnset is the zero value; an enabled allowance must name a real method.
	FreeMethodUnset FreeWithdrawalMethod = iota
	// FreePctOfBOYAV allows a percentage of the beginning-of-year account value.
	FreePctOfBOYAV
	// FreePriorYearInterest allows the interest credited during the prior policy year.
	FreePriorYearInterest
)

func (m FreeWithdrawalMethod) String() string {
	switch m {
	case FreeMethodUnset:
		return "unset"
	case FreePctOfBOYAV:
		return "pct_of_boy_account_value"
	case FreePriorYearInterest:
		return "prior_year_interest_credited"
	}
	return fmt.Sprintf("FreeWithdrawalMethod(%d)", int(m))
}

// ParseFreeWithdrawalMethod converts a product-spec string into a FreeWithdrawalMethod.
func ParseFreeWithdrawalMethod(s string) (FreeWithdrawalMethod, error) {
	switch normalizeToken(s) {
	case "pct_of_boy_account_value", "pct_of_boy_av":
		return FreePctOfBOYAV, nil
	case "prior_year_interest_credited", "prior_year_interest":
		return FreePriorYearInterest, nil
	}
	return 0, fmt.Errorf("%w: free withdrawal method %q", ErrUnsupportedOption, s)
}

func (m FreeWithdrawalMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *FreeWithdrawalMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseFreeWithdrawalMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Sex selects the mortality and life-income column used for a policyholder.
type Sex int

const (
	// SexUnset is the zero value left by a run file that omits sex.
	SexUnset Sex = iota
	Male
	Female
)

func (s Sex) String() string {
	switch s {
	case Male:
		return "male"
	case Female:
		return "female"
	}
	return "unset"
}

// Code returns the single-letter table suffix ("M" or "F").
func (s Sex) Code() string {
	if s == Female {
		return "F"
	}
	return "M"
}

// ParseSex accepts "M", "F", "male" or "female" in any case.
func ParseSex(s string) (Sex, error) {
	switch normalizeToken(s) {
	case "m", "male":
		return Male, nil
	case "f", "female":
		return Female, nil
	}
	return 0, fmt.Errorf("%w: sex %q", ErrUnsupportedOption, s)
}

func (s Sex) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Sex) UnmarshalText(text []byte) error {
	parsed, err := ParseSex(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AnnuityOption identifies a settlement option in the payout-factor tables.
type AnnuityOption int

const (
	// InstallmentCertain pays a level monthly amount for a fixed number of years.
	InstallmentCertain AnnuityOption = iota
	// SingleLifeNoGuarantee pays a level monthly amount while the annuitant lives.
	SingleLifeNoGuarantee
)

func (o AnnuityOption) String() string {
	switch o {
	case InstallmentCertain:
		return "installment"
	case SingleLifeNoGuarantee:
		return "life_income_no_guarantee"
	}
	return fmt.Sprintf("AnnuityOption(%d)", int(o))
}

// ParseAnnuityOption converts a settlement option name into an AnnuityOption.
func ParseAnnuityOption(s string) (AnnuityOption, error) {
	switch normalizeToken(s) {
	case "installment", "installment_certain":
		return InstallmentCertain, nil
	case "life_income_no_guarantee", "single_life_no_guarantee", "single_life":
		return SingleLifeNoGuarantee, nil
	}
	return 0, fmt.Errorf("%w: annuity option %q", ErrUnsupportedOption, s)
}

// ContinuationBasis selects the final-year continuation benefit in the reserve engine.
// The zero value is CSV, the documented default when last_year_basis is omitted.
type ContinuationBasis int

const (
	BasisCSV ContinuationBasis = iota
	BasisAV
)

func (b ContinuationBasis) String() string {
	if b == BasisAV {
		return "AV"
	}
	return "CSV"
}

// ParseContinuationBasis accepts "CSV" or "AV" in any case.
func ParseContinuationBasis(s string) (ContinuationBasis, error) {
	switch normalizeToken(s) {
	case "csv", "":
		return BasisCSV, nil
	case "av":
		return BasisAV, nil
	}
	return 0, fmt.Errorf("%w: continuation basis %q", ErrUnsupportedOption, s)
}

func (b ContinuationBasis) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *ContinuationBasis) UnmarshalText(text []byte) error {
	parsed, err := ParseContinuationBasis(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// BenefitKind labels the four candidate benefits compared by the reserve engine.
// The declaration order is the tie-break order.
type BenefitKind int

const (
	BenefitDeath BenefitKind = iota
	BenefitSurrender
	BenefitAnnuitization
	BenefitContinuation
)

func (k BenefitKind) String() string {
	switch k {
	case BenefitDeath:
		return "Death Benefit"
	case BenefitSurrender:
		return "Surrender Benefit"
	case BenefitAnnuitization:
		return "Annuitization Benefit"
	case BenefitContinuation:
		return "Continuation Benefit"
	}
	return fmt.Sprintf("BenefitKind(%d)", int(k))
}

func (k BenefitKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
