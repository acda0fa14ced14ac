package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testIllustration() *domain.ProjectionResult {
	x, y := d("0.04"), d("0.045")
	month := func(pm int, bop, interest, eop string) domain.MonthlyRow {
		return domain.MonthlyRow{
			Meta:      domain.MonthMeta{PolicyMonth: pm, PolicyYear: (pm-1)/12 + 1, MonthInYear: (pm-1)%12 + 1, AnnualRate: d("0.05"), MonthlyRate: d("0.0040741237836483"), AttainedAge: 60},
			MVA:       domain.MVADetail{Factor: d("-0.0095238095"), MonthsRemaining: 60 - pm, InitialIndexRate: &x, CurrentIndexRate: &y},
			Account:   domain.AccountDetail{BOP: d(bop), AfterWithdrawal: d(bop), Interest: d(interest), EOPRaw: d(eop), Floor: d("87500"), EOP: d(eop)},
			Funds:     domain.GuaranteeFundDetail{MFVEOP: d("87500"), PFVEOP: d("90838.42")},
			Surrender: domain.SurrenderDetail{SurrenderAmount: d(eop), ChargePct: d("0.08"), Value: d("93000.00")},
		}
	}
	rows := []domain.MonthlyRow{
		month(1, "100000", "407.41", "100407.41"),
		month(2, "100407.41", "409.07", "100816.48"),
	}
	rows[1].Annuitization = &domain.AnnuitizationDetail{AmountApplied: d("100816.48"), AttainedAge: 61, Benefit: d("95000.12")}

	return &domain.ProjectionResult{
		ProductCode: "MYGA5",
		Assumptions: domain.ProjectionAssumptions{
			ProductCode:     "MYGA5",
			Premium:         d("100000"),
			IssueAge:        60,
			InitialRate:     d("0.05"),
			RenewalRate:     d("0.03"),
			Withdrawal:      domain.WithdrawalInstruction{Method: domain.WithdrawalPctOfBOYAV, Value: d("0.10")},
			MVA:             domain.MVAAssumptions{InitialIndexRate: &x, CurrentIndexRate: &y},
			ProjectionYears: 1,
		},
		Monthly: rows,
		Annual: []domain.AnnualRow{
			{PolicyYear: 1, AttainedAge: 60, AVBOY: d("100000"), AVEOY: d("105000"), CSVEOY: decimal.NewNullDecimal(d("97000"))},
			{PolicyYear: 2, AttainedAge: 61, AVBOY: d("105000"), WD: d("10500"), AVEOY: d("99225")},
		},
	}
}

func testCARVM() *domain.CARVMResult {
	row := func(year int, reserve string, winner domain.BenefitKind) domain.ReserveRow {
		return domain.ReserveRow{PolicyYear: year, AttainedAge: 59 + year, AVEOY: d("105000"), Death: d("105000"),
			Surrender: d("97000"), Continuation: d("100500"), MaximumBenefit: d("105000"), Reserve: d(reserve), Winner: winner}
	}
	return &domain.CARVMResult{
		ProductCode: "MYGA5",
		IssueAge:    60,
		Premium:     d("100000"),
		Settings:    domain.CARVMSettings{DiscountRate: d("0.0425"), AnnuityDiscountRate: d("0.04"), MaxAge: 100},
		Paths: []domain.PathResult{
			{Name: "No PW", Description: "No partial withdrawals", Reserve: domain.ReserveResult{Basis: domain.BasisAV,
				Rows: []domain.ReserveRow{row(1, "96500.00", domain.BenefitContinuation), row(2, "97100.00", domain.BenefitDeath)}}},
			{Name: "Max FPW", Description: "Maximum free withdrawal", Reserve: domain.ReserveResult{Basis: domain.BasisCSV,
				Rows: []domain.ReserveRow{row(1, "95100.00", domain.BenefitSurrender)}}},
		},
		Reserve:     d("96500.00"),
		WinningPath: "No PW",
	}
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"console", "console"},
		{"  CSV ", "csv"},
		{"json-pretty", "json"},
		{"table", "console"},
		{"html", "html"},
	}
	for _, tt := range tests {
		f := GetFormatterByName(tt.name)
		require.NotNil(t, f, tt.name)
		assert.Equal(t, tt.want, f.Name())
	}
	assert.Nil(t, GetFormatterByName("pdf"))

	assert.Equal(t, []string{"console", "csv", "html", "json"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "table")
}

func TestReport_Validate(t *testing.T) {
	var nilReport *Report
	assert.Error(t, nilReport.Validate())
	assert.Error(t, (&Report{Kind: KindMonthly}).Validate())
	assert.Error(t, (&Report{Kind: KindCARVM}).Validate())
	assert.Error(t, (&Report{Kind: ReportKind(9)}).Validate())
	assert.NoError(t, NewCARVMReport("run.yaml", testCARVM()).Validate())
	assert.NoError(t, NewIllustrationReport("run.yaml", testIllustration(), true, nil).Validate())

	for _, f := range builtInFormatters {
		_, err := f.Format(&Report{Kind: KindAnnual})
		assert.Error(t, err, f.Name())
	}
}

func TestGenerateReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateReport(&buf, NewCARVMReport("", testCARVM()), "console"))
	assert.Contains(t, buf.String(), "CARVM RESERVE")

	err := GenerateReport(&buf, NewCARVMReport("", testCARVM()), "pdf")
	assert.EqualError(t, err, "unsupported format: pdf")
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "kind", F: func(r *Report) ([]byte, error) { return []byte(r.Kind.String()), nil }}
	out, err := f.Format(NewCARVMReport("", testCARVM()))
	require.NoError(t, err)
	assert.Equal(t, "carvm", string(out))
	assert.Equal(t, "kind", f.Name())
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()
	report := NewCARVMReport("run.yaml", testCARVM())
	report.GeneratedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	path, err := WriteFormatted(JSONFormatter{}, report, dir, "json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "myga_carvm_20260301_093000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"winningPath": "No PW"`)
}

func TestConsoleFormatter_Monthly(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(NewIllustrationReport("run.yaml", testIllustration(), false, []ColumnGroup{GroupMeta, GroupAccount}))
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "MYGA ILLUSTRATION")
	assert.Contains(t, s, "Run File:        run.yaml")
	assert.Contains(t, s, "Withdrawals:     10.00% of BOY account value")
	assert.Contains(t, s, "MVA Index:       4.00% at issue, 4.50% current")
	assert.Contains(t, s, "av_eop")
	assert.Contains(t, s, "100816.48")
	assert.NotContains(t, s, "csv_final", "Unselected groups are omitted")
	assert.NotContains(t, s, "av_eop_raw", "Console keeps the narrow column set")
}

func TestConsoleFormatter_Annual(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(NewIllustrationReport("", testIllustration(), true, nil))
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "MYGA ANNUAL SUMMARY")
	assert.NotContains(t, s, "Run File:")
	assert.Contains(t, s, "$97000.00")
	assert.Contains(t, s, "n/a", "Missing CSV renders as n/a")
	assert.Contains(t, s, "$10500.00")
}

func TestConsoleFormatter_CARVM(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(NewCARVMReport("run.yaml", testCARVM()))
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "RESERVE:           $96500.00 (96.50% of premium)")
	assert.Contains(t, s, "Winning Path:      No PW")
	assert.Contains(t, s, "PATH: No PW [winning]")
	assert.Contains(t, s, "PATH: Max FPW\n")
	assert.Contains(t, s, "Discount Rate:     4.25% (annuities 4.00%)")
	assert.Contains(t, s, "Continuation Benefit")
	assert.Contains(t, s, "Last-Year Basis: CSV")
}

func TestCSVFormatter_Monthly(t *testing.T) {
	out, err := CSVFormatter{}.Format(NewIllustrationReport("", testIllustration(), false, []ColumnGroup{GroupMeta, GroupAnnuitization}))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "meta_policy_month", header[0])
	assert.Equal(t, "ann_benefit", header[len(header)-1])
	for _, h := range header {
		assert.True(t, strings.HasPrefix(h, "meta_") || strings.HasPrefix(h, "ann_"), h)
	}
	assert.Equal(t, "", records[1][len(header)-1], "No annuitization outside year end")
	assert.Equal(t, "95000.12", records[2][len(header)-1])
}

func TestCSVFormatter_AllGroups(t *testing.T) {
	out, err := CSVFormatter{}.Format(NewIllustrationReport("", testIllustration(), false, nil))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records[0], len(monthlyColumns))
	assert.Contains(t, records[0], "gf_pfv_eop")
	assert.Contains(t, records[0], "mva_factor")
}

func TestCSVFormatter_Annual(t *testing.T) {
	out, err := CSVFormatter{}.Format(NewIllustrationReport("", testIllustration(), true, nil))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"policy_year", "attained_age", "av_boy", "wd", "av_eoy", "csv_eoy"}, records[0])
	assert.Equal(t, []string{"1", "60", "100000.00", "0.00", "105000.00", "97000.00"}, records[1])
	assert.Equal(t, "", records[2][5])
}

func TestCSVFormatter_CARVM(t *testing.T) {
	out, err := CSVFormatter{}.Format(NewCARVMReport("", testCARVM()))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"No PW", "true", "1"}, records[1][:3])
	assert.Equal(t, "96500.00", records[1][13])
	assert.Equal(t, "Continuation Benefit", records[1][14])
	assert.Equal(t, []string{"Max FPW", "false", "1"}, records[3][:3])
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(NewIllustrationReport("", testIllustration(), true, nil))
	require.NoError(t, err)

	var annual map[string]any
	require.NoError(t, json.Unmarshal(out, &annual))
	assert.Equal(t, "MYGA5", annual["productCode"])
	assert.Len(t, annual["annual"], 2)
	assert.NotContains(t, annual, "monthly")

	out, err = JSONFormatter{}.Format(NewIllustrationReport("", testIllustration(), false, nil))
	require.NoError(t, err)
	var monthly domain.ProjectionResult
	require.NoError(t, json.Unmarshal(out, &monthly))
	require.Len(t, monthly.Monthly, 2)
	assert.True(t, monthly.Monthly[1].Account.EOP.Equal(d("100816.48")))
	assert.Equal(t, domain.WithdrawalPctOfBOYAV, monthly.Assumptions.Withdrawal.Method)

	out, err = JSONFormatter{}.Format(NewCARVMReport("", testCARVM()))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"winningBenefit": "Continuation Benefit"`)
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(NewCARVMReport("run<1>.yaml", testCARVM()))
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "<title>CARVM Reserve: MYGA5</title>")
	assert.Contains(t, s, "run&lt;1&gt;.yaml", "Source is escaped")
	assert.Contains(t, s, `<section class="winning">`)
	assert.Contains(t, s, "<h2>Path: Max FPW</h2>")
	assert.Contains(t, s, "<td>96500.00</td>")
	assert.Contains(t, s, DefaultAssumptions[1])

	out, err = HTMLFormatter{}.Format(NewIllustrationReport("", testIllustration(), true, nil))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h2>Annual Summary</h2>")
	assert.Contains(t, string(out), "<dd>$93000.00</dd>")

	out, err = HTMLFormatter{}.Format(NewIllustrationReport("", testIllustration(), false, []ColumnGroup{GroupMeta}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<th>meta_policy_month</th>")
	assert.NotContains(t, string(out), "<th>av_eop</th>")
}

func TestParseColumnGroups(t *testing.T) {
	groups, err := ParseColumnGroups("")
	require.NoError(t, err)
	assert.Equal(t, AllColumnGroups, groups)

	groups, err = ParseColumnGroups("csv, av_ ,wd")
	require.NoError(t, err)
	assert.Equal(t, []ColumnGroup{GroupMeta, GroupWithdrawal, GroupAccount, GroupSurrender}, groups)

	_, err = ParseColumnGroups("av,tax")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedOption))
}

func TestColumns(t *testing.T) {
	cols := Columns([]ColumnGroup{GroupMVA})
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"mva_factor", "mva_months_remaining", "mva_initial_index_rate", "mva_current_index_rate"}, names)

	rows := testIllustration().Monthly
	assert.Equal(t, "-0.009524", cols[0].Value(&rows[0]))
	assert.Equal(t, "0.045", cols[3].Value(&rows[0]))

	for _, c := range ConsoleColumns(nil) {
		assert.True(t, c.Console, c.Name)
	}
	assert.Len(t, Columns(nil), len(monthlyColumns))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1234.50", FormatCurrency(d("1234.5")))
	assert.Equal(t, "12.35%", FormatPercentage(d("12.345")))
	assert.Equal(t, "4.25%", FormatRate(d("0.0425")))
	assert.Equal(t, "n/a", FormatOptionalRate(nil))
}
