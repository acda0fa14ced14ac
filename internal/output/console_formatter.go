package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders reports as fixed-width tables for the terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	switch report.Kind {
	case KindMonthly:
		c.writeIllustrationHeader(&buf, report)
		c.writeMonthly(&buf, report.Illustration.Monthly, ConsoleColumns(report.Groups))
	case KindAnnual:
		c.writeIllustrationHeader(&buf, report)
		c.writeAnnual(&buf, report.Illustration.Annual)
	case KindCARVM:
		c.writeCARVM(&buf, report)
	}
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) writeIllustrationHeader(buf *bytes.Buffer, report *Report) {
	r := report.Illustration
	a := r.Assumptions
	title := "MYGA ILLUSTRATION"
	if report.Kind == KindAnnual {
		title = "MYGA ANNUAL SUMMARY"
	}
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, strings.Repeat("=", 80))
	if report.Source != "" {
		fmt.Fprintf(buf, "Run File:        %s\n", report.Source)
	}
	fmt.Fprintf(buf, "Product:         %s\n", r.ProductCode)
	fmt.Fprintf(buf, "Premium:         %s\n", FormatCurrency(a.Premium))
	fmt.Fprintf(buf, "Issue Age / Sex: %d / %s\n", a.IssueAge, a.Sex)
	fmt.Fprintf(buf, "Crediting:       %s initial, %s renewal\n", FormatRate(a.InitialRate), FormatRate(a.RenewalRate))
	fmt.Fprintf(buf, "Withdrawals:     %s\n", describeWithdrawal(a.Withdrawal))
	fmt.Fprintf(buf, "MVA Index:       %s at issue, %s current\n", FormatOptionalRate(a.MVA.InitialIndexRate), FormatOptionalRate(a.MVA.CurrentIndexRate))
	fmt.Fprintf(buf, "Projection:      %d years\n", a.ProjectionYears)
	fmt.Fprintln(buf)
}

func describeWithdrawal(w domain.WithdrawalInstruction) string {
	switch w.Method {
	case domain.WithdrawalPctOfBOYAV:
		if w.Value.IsZero() {
			return "none"
		}
		return FormatRate(w.Value) + " of BOY account value"
	case domain.WithdrawalFixedAmount:
		return FormatCurrency(w.Value) + " per year"
	case domain.WithdrawalPriorYearInterest:
		return "prior year's credited interest"
	}
	return w.Method.String()
}

func (c ConsoleFormatter) writeMonthly(buf *bytes.Buffer, rows []domain.MonthlyRow, cols []Column) {
	widths := make([]int, len(cols))
	cells := make([][]string, len(rows))
	for j, col := range cols {
		widths[j] = len(col.Name)
	}
	for i := range rows {
		cells[i] = make([]string, len(cols))
		for j, col := range cols {
			v := col.Value(&rows[i])
			cells[i][j] = v
			widths[j] = max(widths[j], len(v))
		}
	}

	total := 0
	for j, col := range cols {
		fmt.Fprintf(buf, "%*s ", widths[j], col.Name)
		total += widths[j] + 1
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, strings.Repeat("-", total))
	for i := range cells {
		for j, v := range cells[i] {
			fmt.Fprintf(buf, "%*s ", widths[j], v)
		}
		fmt.Fprintln(buf)
	}
}

func (c ConsoleFormatter) writeAnnual(buf *bytes.Buffer, rows []domain.AnnualRow) {
	fmt.Fprintf(buf, "%4s %4s %14s %12s %14s %14s\n", "Year", "Age", "AV BOY", "Withdrawal", "AV EOY", "CSV EOY")
	fmt.Fprintln(buf, strings.Repeat("-", 67))
	for _, r := range rows {
		csv := "n/a"
		if r.CSVEOY.Valid {
			csv = FormatCurrency(r.CSVEOY.Decimal)
		}
		fmt.Fprintf(buf, "%4d %4d %14s %12s %14s %14s\n",
			r.PolicyYear, r.AttainedAge, FormatCurrency(r.AVBOY), FormatCurrency(r.WD), FormatCurrency(r.AVEOY), csv)
	}
}

func (c ConsoleFormatter) writeCARVM(buf *bytes.Buffer, report *Report) {
	r := report.CARVM
	fmt.Fprintln(buf, "CARVM RESERVE")
	fmt.Fprintln(buf, strings.Repeat("=", 80))
	if report.Source != "" {
		fmt.Fprintf(buf, "Run File:          %s\n", report.Source)
	}
	fmt.Fprintf(buf, "Product:           %s\n", r.ProductCode)
	fmt.Fprintf(buf, "Issue Age:         %d\n", r.IssueAge)
	fmt.Fprintf(buf, "Premium:           %s\n", FormatCurrency(r.Premium))
	fmt.Fprintf(buf, "Discount Rate:     %s (annuities %s)\n", FormatRate(r.Settings.DiscountRate), FormatRate(r.Settings.AnnuityDiscountRate))
	fmt.Fprintf(buf, "Valuation Max Age: %d\n", r.Settings.MaxAge)
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "RESERVE:           %s (%s of premium)\n", FormatCurrency(r.Reserve), FormatPercentage(pctOf(r.Reserve, r.Premium)))
	fmt.Fprintf(buf, "Winning Path:      %s\n", r.WinningPath)
	fmt.Fprintln(buf)

	for _, p := range r.Paths {
		marker := ""
		if p.Name == r.WinningPath {
			marker = " [winning]"
		}
		fmt.Fprintf(buf, "PATH: %s%s\n", p.Name, marker)
		if p.Description != "" {
			fmt.Fprintf(buf, "%s\n", p.Description)
		}
		fmt.Fprintf(buf, "Year-1 Reserve: %s  Last-Year Basis: %s\n", FormatCurrency(p.Reserve.InitialReserve()), p.Reserve.Basis)
		fmt.Fprintf(buf, "%4s %4s %12s %14s %14s %14s %14s %14s %14s %-22s\n",
			"Year", "Age", "Withdrawal", "AV EOY", "Death", "Surrender", "Annuitization", "Continuation", "Reserve BOY", " Winner")
		fmt.Fprintln(buf, strings.Repeat("-", 135))
		for _, row := range p.Reserve.Rows {
			fmt.Fprintf(buf, "%4d %4d %12s %14s %14s %14s %14s %14s %14s  %-21s\n",
				row.PolicyYear, row.AttainedAge,
				money(row.WD), money(row.AVEOY), money(row.Death), money(row.Surrender),
				money(row.Annuitization), money(row.Continuation), money(row.Reserve), row.Winner)
		}
		fmt.Fprintln(buf)
	}
}

func pctOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Shift(2)
}
