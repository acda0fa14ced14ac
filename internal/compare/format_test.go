package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/myga/internal/calculation"
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() *ComparisonSet {
	return &ComparisonSet{
		BaseName:   "Base run",
		ConfigPath: "/path/to/run.yaml",
		BaseResult: &ComparisonResult{
			Name:                "Base run",
			Case:                ComparisonCase{ProductCode: "MYGA5", IssueAge: 60, DiscountRate: d("0.0425")},
			Reserve:             d("95690"),
			ReservePctOfPremium: d("95.69"),
			WinningPath:         calculation.PathNoPW,
			WinningBenefit:      domain.BenefitContinuation,
			PathReserves: map[string]decimal.Decimal{
				calculation.PathNoPW:   d("95690"),
				calculation.PathMaxFPW: d("95689"),
			},
		},
		Results: []ComparisonResult{
			{
				Name:                "MYGA7/60/5.00%",
				Case:                ComparisonCase{ProductCode: "MYGA7", IssueAge: 60, DiscountRate: d("0.05")},
				Reserve:             d("94940"),
				ReservePctOfPremium: d("94.94"),
				WinningPath:         calculation.PathMaxFPW,
				WinningBenefit:      domain.BenefitSurrender,
				PathReserves: map[string]decimal.Decimal{
					calculation.PathMaxFPW: d("94940"),
				},
				ReserveDiffFromBase: d("-750"),
				ReservePctFromBase:  d("-0.7838"),
			},
		},
		Observations: []string{"Highest Reserve: MYGA7/60/5.00% at $94940.00"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(sampleSet())

	assert.Contains(t, out, "CARVM RESERVE COMPARISON")
	assert.Contains(t, out, "Base Run: Base run")
	assert.Contains(t, out, "Configuration: /path/to/run.yaml")
	assert.Contains(t, out, "Base run (base)")
	assert.Contains(t, out, "*$95.7K")
	assert.Contains(t, out, "MYGA7/60/5.00%")
	assert.Contains(t, out, "-$750")
	assert.Contains(t, out, "OBSERVATIONS")

	lines := strings.Split(out, "\n")
	var caseLine string
	for _, l := range lines {
		if strings.HasPrefix(l, "MYGA7/60/5.00%") {
			caseLine = l
		}
	}
	require.NotEmpty(t, caseLine)
	assert.Contains(t, caseLine, " - ", "Unvalued path shows a dash")
}

func TestTableFormatter_Format_NoResults(t *testing.T) {
	set := sampleSet()
	set.Results = nil
	set.Observations = nil

	out := (&TableFormatter{}).Format(set)
	assert.Contains(t, out, "Base run (base)")
	assert.NotContains(t, out, "MYGA7")
	assert.NotContains(t, out, "OBSERVATIONS")
}

func TestTableFormatter_formatDecimal(t *testing.T) {
	tf := &TableFormatter{}
	tests := []struct {
		in   string
		want string
	}{
		{"999", "999"},
		{"95690", "95.7K"},
		{"2500000", "2.50M"},
		{"-1500", "-1.5K"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tf.formatDecimal(d(tt.in)), tt.in)
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	out := (&TableFormatter{}).FormatCompact(sampleSet())
	assert.Equal(t, "Base: Base run $95.7K | MYGA7/60/5.00%: -$750", out)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleSet())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "Case", header[0])
	assert.Contains(t, header, "No PW Reserve")
	assert.Contains(t, header, "Max FPW Reserve")

	base := records[1]
	assert.Equal(t, "base", base[1])
	assert.Equal(t, "95690.00", base[6])
	assert.Equal(t, "Continuation Benefit", base[9])
	assert.Equal(t, "95690.00", base[10])
	assert.Equal(t, "95689.00", base[11])

	row := records[2]
	assert.Equal(t, "case", row[1])
	assert.Equal(t, "MYGA7", row[2])
	assert.Equal(t, "0.05", row[4])
	assert.Equal(t, "", row[10], "No PW was not valued")
	assert.Equal(t, "-750.00", row[12])
	assert.Equal(t, "-0.78", row[13])
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := (&JSONFormatter{Pretty: true}).Format(sampleSet())
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"baseName\"")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	results := decoded["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "MYGA7/60/5.00%", first["name"])
	assert.Equal(t, "Surrender Benefit", first["winningBenefit"])
	assert.Equal(t, "94940", first["reserve"])
	assert.NotContains(t, first, "Result")

	compact, err := (&JSONFormatter{}).Format(sampleSet())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(compact, "\n"), "Compact output is one line")
}
