package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/myga/internal/domain"
)

// FormatProductList renders one line per product: code, term, floor rate and MVA benchmark.
func FormatProductList(specs []*domain.ProductSpec) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%-10s %5s %10s %-10s %s\n", "Product", "Term", "Min Rate", "MVA", "Free Withdrawal")
	fmt.Fprintln(&buf, strings.Repeat("-", 72))
	for _, s := range specs {
		mva := "none"
		if s.Features.MVA.Enabled {
			mva = s.Features.MVA.BenchmarkIndex.Code
		}
		fmt.Fprintf(&buf, "%-10s %5d %10s %-10s %s\n",
			s.ProductCode, s.TermYears, FormatRate(s.Features.MinimumGuaranteedRate), mva, describeFreeWithdrawal(s.Features.FreePartialWithdrawal))
	}
	return buf.String()
}

// FormatProductSummary renders the full rule set of a product.
func FormatProductSummary(spec *domain.ProductSpec) string {
	var buf bytes.Buffer
	f := spec.Features

	fmt.Fprintf(&buf, "PRODUCT %s\n", spec.ProductCode)
	fmt.Fprintln(&buf, strings.Repeat("=", 50))
	fmt.Fprintf(&buf, "Schema Version:        %d\n", spec.SchemaVersion)
	fmt.Fprintf(&buf, "Guaranteed Term:       %d years\n", spec.TermYears)
	fmt.Fprintf(&buf, "Minimum Guaranteed:    %s\n", FormatRate(f.MinimumGuaranteedRate))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "MARKET VALUE ADJUSTMENT")
	if f.MVA.Enabled {
		b := f.MVA.BenchmarkIndex
		fmt.Fprintf(&buf, "  Benchmark:           %s (%s)\n", b.Code, b.Type)
		if b.Description != "" {
			fmt.Fprintf(&buf, "  Description:         %s\n", b.Description)
		}
	} else {
		fmt.Fprintln(&buf, "  Disabled")
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "SURRENDER CHARGES")
	for _, y := range spec.ScheduleYears() {
		fmt.Fprintf(&buf, "  Year %-3d             %s\n", y, FormatRate(spec.SurrenderChargePct(y)))
	}
	fmt.Fprintf(&buf, "  After Term:          %s\n", FormatRate(f.SurrenderCharge.AfterTerm.DefaultChargePct))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "FREE PARTIAL WITHDRAWAL")
	fmt.Fprintf(&buf, "  Allowance:           %s\n", describeFreeWithdrawal(f.FreePartialWithdrawal))
	if f.FreePartialWithdrawal.Description != "" {
		fmt.Fprintf(&buf, "  Description:         %s\n", f.FreePartialWithdrawal.Description)
	}
	fmt.Fprintln(&buf)

	gf := spec.GuaranteeFundParams()
	fmt.Fprintln(&buf, "GUARANTEE FUNDS")
	fmt.Fprintf(&buf, "  MFV Base:            %s of premium\n", FormatRate(gf.MFVBasePct))
	fmt.Fprintf(&buf, "  PFV Base:            %s of premium\n", FormatRate(gf.PFVBasePct))
	fmt.Fprintf(&buf, "  PFV Accumulation:    %s for %d years, then %s\n", FormatRate(gf.PFVRateAnnual), gf.PFVRateYears, FormatRate(gf.PFVRateAfterYears))
	fmt.Fprintln(&buf)

	a := spec.Assumptions
	fmt.Fprintln(&buf, "ASSUMPTION KEYS")
	fmt.Fprintf(&buf, "  Mortality Table:     %s\n", orDash(a.MortalityTableKey))
	fmt.Fprintf(&buf, "  Lapse Model:         %s\n", orDash(a.LapseModelKey))
	fmt.Fprintf(&buf, "  Withdrawal Behavior: %s\n", orDash(a.WithdrawalBehaviorKey))
	fmt.Fprintf(&buf, "  Expense Assumption:  %s\n", orDash(a.ExpenseAssumptionKey))
	return buf.String()
}

func describeFreeWithdrawal(f domain.FreeWithdrawalFeature) string {
	if !f.Enabled {
		return "none"
	}
	if f.Method == domain.FreePctOfBOYAV {
		return FormatRate(f.Pct()) + " of BOY account value"
	}
	return "prior year's credited interest"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
