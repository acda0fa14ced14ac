package tuistyles

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1250000", "$1.25M"},
		{"95750", "$95.8K"},
		{"-4200", "$-4.2K"},
		{"640.4", "$640"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestTrendIndicator(t *testing.T) {
	assert.Equal(t, "▲", TrendIndicator(true))
	assert.Equal(t, "▼", TrendIndicator(false))
}
