package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing reserves across the grid
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder
	paths := compSet.PathNames()

	nameWidth := 32
	numWidth := 13
	width := nameWidth + (numWidth+1)*(len(paths)+3)

	// Header
	sb.WriteString("CARVM RESERVE COMPARISON\n")
	sb.WriteString(strings.Repeat("=", width) + "\n")
	sb.WriteString(fmt.Sprintf("Base Run: %s\n", compSet.BaseName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s", nameWidth, "Case", numWidth, "Reserve", numWidth, "% Premium"))
	for _, p := range paths {
		sb.WriteString(fmt.Sprintf(" %*s", numWidth, tf.truncate(p, numWidth)))
	}
	sb.WriteString(fmt.Sprintf(" %*s\n", numWidth, "vs Base"))
	sb.WriteString(strings.Repeat("-", width) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, paths, nameWidth, numWidth, true))
	}

	if len(compSet.Results) > 0 {
		sb.WriteString(strings.Repeat("-", width) + "\n")
		for i := range compSet.Results {
			sb.WriteString(tf.formatRow(&compSet.Results[i], paths, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", width) + "\n")

	if len(compSet.Observations) > 0 {
		sb.WriteString("\nOBSERVATIONS\n")
		sb.WriteString(strings.Repeat("-", width) + "\n")
		for _, obs := range compSet.Observations {
			sb.WriteString(fmt.Sprintf("• %s\n", obs))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single case row; the winning path's reserve is starred
func (tf *TableFormatter) formatRow(result *ComparisonResult, paths []string, nameWidth, numWidth int, isBase bool) string {
	name := result.Name
	if isBase {
		name += " (base)"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.Reserve),
		numWidth, result.ReservePctOfPremium.StringFixed(2)+"%"))
	for _, p := range paths {
		cell := "-"
		if v, ok := pathReserve(result, p); ok {
			cell = "$" + tf.formatDecimal(v)
			if p == result.WinningPath {
				cell = "*" + cell
			}
		}
		sb.WriteString(fmt.Sprintf(" %*s", numWidth, cell))
	}
	delta := ""
	if !isBase {
		delta = tf.deltaSymbol(result.ReserveDiffFromBase) + "$" + tf.formatDecimal(result.ReserveDiffFromBase.Abs())
	}
	sb.WriteString(fmt.Sprintf(" %*s\n", numWidth, delta))
	return sb.String()
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns the sign prefix for a difference from base
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary of each case's reserve
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s", compSet.BaseName))
	if compSet.BaseResult != nil {
		sb.WriteString(" $" + tf.formatDecimal(compSet.BaseResult.Reserve))
	}

	for _, r := range compSet.Results {
		change := "="
		if r.ReserveDiffFromBase.IsPositive() {
			change = "+$" + tf.formatDecimal(r.ReserveDiffFromBase)
		} else if r.ReserveDiffFromBase.IsNegative() {
			change = "-$" + tf.formatDecimal(r.ReserveDiffFromBase.Abs())
		}
		sb.WriteString(fmt.Sprintf(" | %s: %s", r.Name, change))
	}

	return sb.String()
}
