package calculation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tables"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

// assertClose fails when got and want differ by more than tol.
func assertClose(t *testing.T, want, got decimal.Decimal, tol string, msgAndArgs ...any) {
	t.Helper()
	if got.Sub(want).Abs().GreaterThan(dec(tol)) {
		msg := fmt.Sprintf("want %s, got %s (tolerance %s)", want, got, tol)
		if len(msgAndArgs) > 0 {
			msg = fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...) + ": " + msg
		}
		t.Error(msg)
	}
}

// testProduct is a five-year product with a declining charge schedule, a 10% free
// allowance and an MVA.
func testProduct() *domain.ProductSpec {
	spec := &domain.ProductSpec{
		ProductCode: "TEST5",
		TermYears:   5,
		Features: domain.ProductFeatures{
			MinimumGuaranteedRate: dec("0.01"),
			MVA:                   domain.MVAFeature{Enabled: true, BenchmarkIndex: domain.BenchmarkIndex{Code: "CMT_5Y"}},
			SurrenderCharge: domain.SurrenderChargeFeature{
				Schedule: map[int]decimal.Decimal{
					1: dec("0.08"), 2: dec("0.07"), 3: dec("0.06"), 4: dec("0.05"), 5: dec("0.04"),
				},
			},
			FreePartialWithdrawal: domain.FreeWithdrawalFeature{
				Enabled: true,
				Method:  domain.FreePctOfBOYAV,
				Params:  map[string]decimal.Decimal{"pct": dec("0.10")},
			},
		},
	}
	spec.Normalize()
	return spec
}

func baseAssumptions() domain.ProjectionAssumptions {
	return domain.ProjectionAssumptions{
		ProductCode:      "TEST5",
		Premium:          dec("100000"),
		IssueAge:         60,
		Sex:              domain.Male,
		InitialRate:      dec("0.05"),
		RenewalRate:      dec("0.03"),
		Withdrawal:       domain.WithdrawalInstruction{Method: domain.WithdrawalPctOfBOYAV, Value: decimal.Zero},
		ProjectionYears:  5,
		InstallmentYears: 10,
	}
}

// flatMortality returns the same rate at every age.
type flatMortality decimal.Decimal

func (f flatMortality) MortalityRate(int, domain.Sex) decimal.Decimal { return decimal.Decimal(f) }

func testPayout(t *testing.T) *tables.PayoutTables {
	t.Helper()
	installment := make(map[int]decimal.Decimal)
	for y := 1; y <= 30; y++ {
		// level payment at 0% interest
		installment[y] = decimal.NewFromInt(1000).Div(decimal.NewFromInt(int64(12 * y)))
	}
	male := map[int]decimal.Decimal{50: dec("3.50"), 70: dec("5.50"), 90: dec("11.00")}
	female := map[int]decimal.Decimal{50: dec("3.20"), 70: dec("5.00"), 90: dec("10.00")}
	pt, err := tables.NewPayoutTables(installment, male, female)
	require.NoError(t, err)
	return pt
}

func testAnnuity(t *testing.T, discount string) *AnnuitizationCalculator {
	return &AnnuitizationCalculator{
		Payout:           testPayout(t),
		Mortality:        flatMortality(dec("0.02")),
		Sex:              domain.Male,
		InstallmentYears: 10,
		DiscountRate:     dec(discount),
		MaxAge:           DefaultLifeMaxAge,
	}
}

func runProjection(t *testing.T, spec *domain.ProductSpec, a domain.ProjectionAssumptions) []domain.MonthlyRow {
	t.Helper()
	p, err := NewProjector(spec, a, nil, nil)
	require.NoError(t, err)
	rows, err := p.Run()
	require.NoError(t, err)
	return rows
}

// staticProducts is an in-memory product source.
type staticProducts map[string]*domain.ProductSpec

func (s staticProducts) Get(code string) (*domain.ProductSpec, error) {
	spec, ok := s[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, code)
	}
	return spec, nil
}

// TestLogger records formatted messages by level.
type TestLogger struct {
	mu       sync.Mutex
	messages []string
}

func (tl *TestLogger) add(level, format string, args ...any) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.messages = append(tl.messages, level+": "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Messages() []string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]string(nil), tl.messages...)
}

func (tl *TestLogger) Debugf(format string, args ...any) {
	tl.add("DEBUG", format, args...)
}

func (tl *TestLogger) Infof(format string, args ...any) {
	tl.add("INFO", format, args...)
}

func (tl *TestLogger) Warnf(format string, args ...any) {
	tl.add("WARN", format, args...)
}

func (tl *TestLogger) Errorf(format string, args ...any) {
	tl.add("ERROR", format, args...)
}
