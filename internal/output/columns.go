package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// ColumnGroup is a prefix family of monthly output columns.
type ColumnGroup string

const (
	GroupMeta          ColumnGroup = "meta"
	GroupWithdrawal    ColumnGroup = "wd"
	GroupMVA           ColumnGroup = "mva"
	GroupAccount       ColumnGroup = "av"
	GroupFunds         ColumnGroup = "gf"
	GroupSurrender     ColumnGroup = "csv"
	GroupAnnuitization ColumnGroup = "ann"
)

// AllColumnGroups lists every group in output order.
var AllColumnGroups = []ColumnGroup{
	GroupMeta, GroupWithdrawal, GroupMVA, GroupAccount, GroupFunds, GroupSurrender, GroupAnnuitization,
}

// ParseColumnGroups parses a comma-separated group list such as "av,csv". An empty string
// or "all" selects every group. The meta group is always included and the result follows
// AllColumnGroups order.
func ParseColumnGroups(s string) ([]ColumnGroup, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return AllColumnGroups, nil
	}
	want := map[ColumnGroup]bool{GroupMeta: true}
	for _, part := range strings.Split(s, ",") {
		g := ColumnGroup(strings.TrimSuffix(strings.TrimSpace(part), "_"))
		if g == "" {
			continue
		}
		if !isKnownGroup(g) {
			return nil, fmt.Errorf("%w: column group %q", domain.ErrUnsupportedOption, part)
		}
		want[g] = true
	}
	out := make([]ColumnGroup, 0, len(want))
	for _, g := range AllColumnGroups {
		if want[g] {
			out = append(out, g)
		}
	}
	return out, nil
}

func isKnownGroup(g ColumnGroup) bool {
	for _, known := range AllColumnGroups {
		if g == known {
			return true
		}
	}
	return false
}

// Column is one monthly output column.
type Column struct {
	Name  string
	Group ColumnGroup
	// Console marks the columns kept in the narrower console view.
	Console bool
	Value   func(r *domain.MonthlyRow) string
}

func rate(d decimal.Decimal) string { return d.String() }

func factor(d decimal.Decimal) string { return d.StringFixed(6) }

func optRate(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func annuity(f func(a *domain.AnnuitizationDetail) string) func(r *domain.MonthlyRow) string {
	return func(r *domain.MonthlyRow) string {
		if r.Annuitization == nil {
			return ""
		}
		return f(r.Annuitization)
	}
}

var monthlyColumns = []Column{
	{"meta_policy_month", GroupMeta, true, func(r *domain.MonthlyRow) string { return intToString(r.Meta.PolicyMonth) }},
	{"meta_policy_year", GroupMeta, true, func(r *domain.MonthlyRow) string { return intToString(r.Meta.PolicyYear) }},
	{"meta_month_in_policy_year", GroupMeta, false, func(r *domain.MonthlyRow) string { return intToString(r.Meta.MonthInYear) }},
	{"meta_annual_rate", GroupMeta, true, func(r *domain.MonthlyRow) string { return rate(r.Meta.AnnualRate) }},
	{"meta_monthly_rate", GroupMeta, false, func(r *domain.MonthlyRow) string { return rate(r.Meta.MonthlyRate) }},
	{"meta_attained_age", GroupMeta, false, func(r *domain.MonthlyRow) string { return intToString(r.Meta.AttainedAge) }},

	{"wd_amount", GroupWithdrawal, true, func(r *domain.MonthlyRow) string { return money(r.Withdrawal.Amount) }},
	{"wd_free_limit_ytd", GroupWithdrawal, false, func(r *domain.MonthlyRow) string { return money(r.Withdrawal.FreeLimit) }},
	{"wd_free_used_this_txn", GroupWithdrawal, false, func(r *domain.MonthlyRow) string { return money(r.Withdrawal.FreeUsedThisTxn) }},
	{"wd_free_used_ytd", GroupWithdrawal, false, func(r *domain.MonthlyRow) string { return money(r.Withdrawal.FreeUsedYTD) }},
	{"wd_free_remaining", GroupWithdrawal, true, func(r *domain.MonthlyRow) string { return money(r.Withdrawal.FreeRemaining) }},
	{"wd_excess_amount", GroupWithdrawal, false, func(r *domain.MonthlyRow) string { return money(r.Withdrawal.Excess) }},
	{"wd_surrender_charge_pct", GroupWithdrawal, false, func(r *domain.MonthlyRow) string { return rate(r.Withdrawal.SurrenderChargePct) }},
	{"wd_surrender_charge_amount", GroupWithdrawal, false, func(r *domain.MonthlyRow) string { return money(r.Withdrawal.SurrenderChargeAmount) }},
	{"wd_mva_amount_subject", GroupWithdrawal, false, func(r *domain.MonthlyRow) string { return money(r.Withdrawal.MVASubject) }},
	{"wd_mva_amount", GroupWithdrawal, false, func(r *domain.MonthlyRow) string { return money(r.Withdrawal.MVAAmount) }},
	{"wd_penalty_total", GroupWithdrawal, true, func(r *domain.MonthlyRow) string { return money(r.Withdrawal.PenaltyTotal) }},

	{"mva_factor", GroupMVA, true, func(r *domain.MonthlyRow) string { return factor(r.MVA.Factor) }},
	{"mva_months_remaining", GroupMVA, false, func(r *domain.MonthlyRow) string { return intToString(r.MVA.MonthsRemaining) }},
	{"mva_initial_index_rate", GroupMVA, false, func(r *domain.MonthlyRow) string { return optRate(r.MVA.InitialIndexRate) }},
	{"mva_current_index_rate", GroupMVA, false, func(r *domain.MonthlyRow) string { return optRate(r.MVA.CurrentIndexRate) }},

	{"av_bop", GroupAccount, true, func(r *domain.MonthlyRow) string { return money(r.Account.BOP) }},
	{"av_after_wd", GroupAccount, false, func(r *domain.MonthlyRow) string { return money(r.Account.AfterWithdrawal) }},
	{"av_interest_credit", GroupAccount, true, func(r *domain.MonthlyRow) string { return money(r.Account.Interest) }},
	{"av_eop_raw", GroupAccount, false, func(r *domain.MonthlyRow) string { return money(r.Account.EOPRaw) }},
	{"av_floor", GroupAccount, false, func(r *domain.MonthlyRow) string { return money(r.Account.Floor) }},
	{"av_eop", GroupAccount, true, func(r *domain.MonthlyRow) string { return money(r.Account.EOP) }},
	{"av_floor_applied", GroupAccount, false, func(r *domain.MonthlyRow) string { return boolToString(r.Account.FloorApplied) }},

	{"gf_mfv_bop", GroupFunds, false, func(r *domain.MonthlyRow) string { return money(r.Funds.MFVBOP) }},
	{"gf_pfv_bop", GroupFunds, false, func(r *domain.MonthlyRow) string { return money(r.Funds.PFVBOP) }},
	{"gf_mfv_rate_annual", GroupFunds, false, func(r *domain.MonthlyRow) string { return rate(r.Funds.MFVRate) }},
	{"gf_pfv_rate_annual", GroupFunds, false, func(r *domain.MonthlyRow) string { return rate(r.Funds.PFVRate) }},
	{"gf_mfv_eop", GroupFunds, true, func(r *domain.MonthlyRow) string { return money(r.Funds.MFVEOP) }},
	{"gf_pfv_eop", GroupFunds, true, func(r *domain.MonthlyRow) string { return money(r.Funds.PFVEOP) }},

	{"csv_surrender_amount", GroupSurrender, false, func(r *domain.MonthlyRow) string { return money(r.Surrender.SurrenderAmount) }},
	{"csv_free_remaining_at_calc", GroupSurrender, false, func(r *domain.MonthlyRow) string { return money(r.Surrender.FreeRemainingAtCalc) }},
	{"csv_free_portion_used", GroupSurrender, false, func(r *domain.MonthlyRow) string { return money(r.Surrender.FreePortion) }},
	{"csv_amount_subject_to_sc", GroupSurrender, false, func(r *domain.MonthlyRow) string { return money(r.Surrender.SubjectToCharge) }},
	{"csv_sc_pct_used", GroupSurrender, true, func(r *domain.MonthlyRow) string { return rate(r.Surrender.ChargePct) }},
	{"csv_sc_amount_used", GroupSurrender, false, func(r *domain.MonthlyRow) string { return money(r.Surrender.ChargeAmount) }},
	{"csv_amount_subject_to_mva", GroupSurrender, false, func(r *domain.MonthlyRow) string { return money(r.Surrender.SubjectToMVA) }},
	{"csv_mva_factor_used", GroupSurrender, false, func(r *domain.MonthlyRow) string { return factor(r.Surrender.MVAFactor) }},
	{"csv_mva_amount_used", GroupSurrender, false, func(r *domain.MonthlyRow) string { return money(r.Surrender.MVAAmount) }},
	{"csv_before_floors", GroupSurrender, false, func(r *domain.MonthlyRow) string { return money(r.Surrender.BeforeFloors) }},
	{"csv_nff_floor_used", GroupSurrender, false, func(r *domain.MonthlyRow) string { return money(r.Surrender.GuaranteeFloor) }},
	{"csv_final", GroupSurrender, true, func(r *domain.MonthlyRow) string { return money(r.Surrender.Value) }},

	{"ann_amount_applied", GroupAnnuitization, false, annuity(func(a *domain.AnnuitizationDetail) string { return money(a.AmountApplied) })},
	{"ann_attained_age", GroupAnnuitization, false, annuity(func(a *domain.AnnuitizationDetail) string { return intToString(a.AttainedAge) })},
	{"ann_installment_payment", GroupAnnuitization, false, annuity(func(a *domain.AnnuitizationDetail) string { return money(a.InstallmentPayment) })},
	{"ann_installment_pv", GroupAnnuitization, false, annuity(func(a *domain.AnnuitizationDetail) string { return money(a.InstallmentPV) })},
	{"ann_life_payment", GroupAnnuitization, false, annuity(func(a *domain.AnnuitizationDetail) string { return money(a.LifePayment) })},
	{"ann_life_pv", GroupAnnuitization, false, annuity(func(a *domain.AnnuitizationDetail) string { return money(a.LifePV) })},
	{"ann_benefit", GroupAnnuitization, true, annuity(func(a *domain.AnnuitizationDetail) string { return money(a.Benefit) })},
}

// Columns returns the monthly columns of the selected groups, in group order; nil or empty
// groups select all.
func Columns(groups []ColumnGroup) []Column {
	if len(groups) == 0 {
		groups = AllColumnGroups
	}
	want := make(map[ColumnGroup]bool, len(groups))
	for _, g := range groups {
		want[g] = true
	}
	out := make([]Column, 0, len(monthlyColumns))
	for _, c := range monthlyColumns {
		if want[c.Group] {
			out = append(out, c)
		}
	}
	return out
}

// ConsoleColumns returns the console subset of Columns(groups).
func ConsoleColumns(groups []ColumnGroup) []Column {
	all := Columns(groups)
	out := make([]Column, 0, len(all))
	for _, c := range all {
		if c.Console {
			out = append(out, c)
		}
	}
	return out
}
