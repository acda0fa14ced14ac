package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output with one row per case and one reserve column per behavior path
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	paths := compSet.PathNames()

	header := []string{
		"Case",
		"Type",
		"Product",
		"Issue Age",
		"Discount Rate",
		"Template",
		"Reserve",
		"Reserve % of Premium",
		"Winning Path",
		"Winning Benefit",
	}
	for _, p := range paths {
		header = append(header, p+" Reserve")
	}
	header = append(header, "Reserve Diff from Base", "Reserve % Change")
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base", paths)); err != nil {
			return "", err
		}
	}
	for i := range compSet.Results {
		if err := writer.Write(cf.formatRow(&compSet.Results[i], "case", paths)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, rowType string, paths []string) []string {
	row := []string{
		result.Name,
		rowType,
		result.Case.ProductCode,
		strconv.Itoa(result.Case.IssueAge),
		result.Case.DiscountRate.String(),
		result.Case.Template,
		result.Reserve.StringFixed(2),
		result.ReservePctOfPremium.StringFixed(2),
		result.WinningPath,
		result.WinningBenefit.String(),
	}
	for _, p := range paths {
		if v, ok := pathReserve(result, p); ok {
			row = append(row, v.StringFixed(2))
		} else {
			row = append(row, "")
		}
	}
	return append(row, result.ReserveDiffFromBase.StringFixed(2), result.ReservePctFromBase.StringFixed(2))
}
