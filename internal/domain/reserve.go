package domain

import (
	"github.com/shopspring/decimal"
)

// ReserveRow is one policy year of the reverse-induction reserve calculation.
type ReserveRow struct {
	PolicyYear     int             `json:"policyYear"`
	AttainedAge    int             `json:"attainedAge"`
	WD             decimal.Decimal `json:"wd"`
	AVEOY          decimal.Decimal `json:"avEoy"`
	Death          decimal.Decimal `json:"deathBenefit"`
	Surrender      decimal.Decimal `json:"surrenderBenefit"`
	InstallmentPV  decimal.Decimal `json:"installmentPv"`
	SingleLifePV   decimal.Decimal `json:"singleLifePv"`
	Annuitization  decimal.Decimal `json:"annuitizationBenefit"`
	Continuation   decimal.Decimal `json:"continuationBenefit"`
	MaximumBenefit decimal.Decimal `json:"maximumBenefit"`
	Reserve        decimal.Decimal `json:"reserveBoy"`
	Winner         BenefitKind     `json:"winningBenefit"`
}

// Benefits returns the four candidates in tie-break order.
func (r ReserveRow) Benefits() [4]decimal.Decimal {
	return [4]decimal.Decimal{r.Death, r.Surrender, r.Annuitization, r.Continuation}
}

// ReserveResult is the reserve table for one policyholder-behavior path.
type ReserveResult struct {
	Basis ContinuationBasis `json:"lastYearBasis"`
	Rows  []ReserveRow      `json:"rows"`
}

// InitialReserve returns the year-1 beginning-of-year reserve, or zero for an empty table.
func (r ReserveResult) InitialReserve() decimal.Decimal {
	if len(r.Rows) == 0 {
		return decimal.Zero
	}
	return r.Rows[0].Reserve
}

// PathResult is one behavior path of a CARVM run.
type PathResult struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Assumptions ProjectionAssumptions `json:"assumptions"`
	Annual      []AnnualRow           `json:"annual"`
	Reserve     ReserveResult         `json:"reserve"`
}

// CARVMResult combines the behavior paths into the final reserve.
type CARVMResult struct {
	ProductCode string          `json:"productCode"`
	IssueAge    int             `json:"issueAge"`
	Premium     decimal.Decimal `json:"premium"`
	Settings    CARVMSettings   `json:"settings"`
	Paths       []PathResult    `json:"paths"`
	Reserve     decimal.Decimal `json:"reserve"`
	WinningPath string          `json:"winningPath"`
}

// Path returns the named path result.
func (c *CARVMResult) Path(name string) (*PathResult, bool) {
	for i := range c.Paths {
		if c.Paths[i].Name == name {
			return &c.Paths[i], true
		}
	}
	return nil, false
}
