package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/myga/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Parse(htmlTemplateSource))

type htmlField struct {
	Label string
	Value string
}

type htmlTable struct {
	Title     string
	Note      string
	Highlight bool
	Headers   []string
	Rows      [][]string
}

type htmlPage struct {
	Title       string
	Source      string
	Generated   string
	Summary     []htmlField
	Tables      []htmlTable
	Assumptions []string
}

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}
	page := htmlPage{
		Source:      report.Source,
		Generated:   report.GeneratedAt.Format("2006-01-02 15:04:05"),
		Assumptions: DefaultAssumptions,
	}
	switch report.Kind {
	case KindMonthly, KindAnnual:
		page.Title = "MYGA Illustration: " + report.Illustration.ProductCode
		page.Summary = illustrationSummary(report.Illustration)
		if report.Kind == KindMonthly {
			page.Tables = []htmlTable{monthlyTable(report.Illustration.Monthly, Columns(report.Groups))}
		} else {
			page.Tables = []htmlTable{annualTable(report.Illustration.Annual)}
		}
	case KindCARVM:
		page.Title = "CARVM Reserve: " + report.CARVM.ProductCode
		page.Summary = carvmSummary(report.CARVM)
		for _, p := range report.CARVM.Paths {
			page.Tables = append(page.Tables, reserveTable(p, p.Name == report.CARVM.WinningPath))
		}
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func illustrationSummary(r *domain.ProjectionResult) []htmlField {
	a := r.Assumptions
	fields := []htmlField{
		{"Product", r.ProductCode},
		{"Premium", FormatCurrency(a.Premium)},
		{"Issue Age", intToString(a.IssueAge)},
		{"Sex", a.Sex.String()},
		{"Initial Rate", FormatRate(a.InitialRate)},
		{"Renewal Rate", FormatRate(a.RenewalRate)},
		{"Withdrawals", describeWithdrawal(a.Withdrawal)},
		{"Projection Years", intToString(a.ProjectionYears)},
	}
	if final := r.FinalMonth(); final != nil {
		fields = append(fields,
			htmlField{"Final Account Value", FormatCurrency(final.Account.EOP)},
			htmlField{"Final Surrender Value", FormatCurrency(final.Surrender.Value)})
	}
	return fields
}

func carvmSummary(r *domain.CARVMResult) []htmlField {
	return []htmlField{
		{"Product", r.ProductCode},
		{"Issue Age", intToString(r.IssueAge)},
		{"Premium", FormatCurrency(r.Premium)},
		{"Discount Rate", FormatRate(r.Settings.DiscountRate)},
		{"Annuity Discount Rate", FormatRate(r.Settings.AnnuityDiscountRate)},
		{"Valuation Max Age", intToString(r.Settings.MaxAge)},
		{"Reserve", FormatCurrency(r.Reserve)},
		{"Reserve % of Premium", FormatPercentage(pctOf(r.Reserve, r.Premium))},
		{"Winning Path", r.WinningPath},
	}
}

func monthlyTable(rows []domain.MonthlyRow, cols []Column) htmlTable {
	t := htmlTable{Title: "Monthly Projection", Headers: make([]string, len(cols))}
	for i, c := range cols {
		t.Headers[i] = c.Name
	}
	for i := range rows {
		record := make([]string, len(cols))
		for j, c := range cols {
			record[j] = c.Value(&rows[i])
		}
		t.Rows = append(t.Rows, record)
	}
	return t
}

func annualTable(rows []domain.AnnualRow) htmlTable {
	t := htmlTable{
		Title:   "Annual Summary",
		Headers: []string{"Year", "Age", "AV BOY", "Withdrawal", "AV EOY", "CSV EOY"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			intToString(r.PolicyYear), intToString(r.AttainedAge),
			money(r.AVBOY), money(r.WD), money(r.AVEOY), nullMoney(r.CSVEOY),
		})
	}
	return t
}

func reserveTable(p domain.PathResult, winning bool) htmlTable {
	t := htmlTable{
		Title:     "Path: " + p.Name,
		Note:      p.Description + " (year-1 reserve " + FormatCurrency(p.Reserve.InitialReserve()) + ")",
		Highlight: winning,
		Headers: []string{"Year", "Age", "Withdrawal", "AV EOY", "Death", "Surrender",
			"Annuitization", "Continuation", "Max Benefit", "Reserve BOY", "Winner"},
	}
	for _, r := range p.Reserve.Rows {
		t.Rows = append(t.Rows, []string{
			intToString(r.PolicyYear), intToString(r.AttainedAge), money(r.WD), money(r.AVEOY),
			money(r.Death), money(r.Surrender), money(r.Annuitization), money(r.Continuation),
			money(r.MaximumBenefit), money(r.Reserve), r.Winner.String(),
		})
	}
	return t
}
