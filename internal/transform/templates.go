package transform

import (
	"sort"
	"strings"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in run templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []RunTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with the common policyholder
// behaviors and rate shocks. freePct sizes the maximum free withdrawal template.
func CreateBuiltInTemplates(freePct decimal.Decimal) *TemplateRegistry {
	registry := NewTemplateRegistry()
	zeroRenewal := decimal.Zero

	// Policyholder behavior templates
	registry.Register(Template{
		Name:        "no_pw",
		Description: "No partial withdrawals",
		Transforms: []RunTransform{
			&SetWithdrawal{Method: domain.WithdrawalPctOfBOYAV, Value: decimal.Zero},
		},
	})

	registry.Register(Template{
		Name:        "max_fpw",
		Description: "Withdraw the maximum free amount each year",
		Transforms: []RunTransform{
			&SetWithdrawal{Method: domain.WithdrawalPctOfBOYAV, Value: freePct},
		},
	})

	registry.Register(Template{
		Name:        "interest_only",
		Description: "Withdraw the prior year's credited interest each year",
		Transforms: []RunTransform{
			&SetWithdrawal{Method: domain.WithdrawalPriorYearInterest},
		},
	})

	registry.Register(Template{
		Name:        "excess_20pct",
		Description: "Withdraw 20% of BOY account value, exceeding the free amount",
		Transforms: []RunTransform{
			&SetWithdrawal{Method: domain.WithdrawalPctOfBOYAV, Value: decimal.RequireFromString("0.20")},
		},
	})

	// Interest rate shock templates
	registry.Register(Template{
		Name:        "rates_up_100bp",
		Description: "Benchmark yield up 100bp (MVA reduces surrender values)",
		Transforms: []RunTransform{
			&ShiftIndexRate{Delta: decimal.RequireFromString("0.01")},
		},
	})

	registry.Register(Template{
		Name:        "rates_down_100bp",
		Description: "Benchmark yield down 100bp (MVA increases surrender values)",
		Transforms: []RunTransform{
			&ShiftIndexRate{Delta: decimal.RequireFromString("-0.01")},
		},
	})

	registry.Register(Template{
		Name:        "renewal_floor",
		Description: "Renew at 0%, so renewal crediting falls to the guaranteed minimum",
		Transforms: []RunTransform{
			&SetCreditingRates{RenewalRate: &zeroRenewal},
		},
	})

	// Valuation templates
	registry.Register(Template{
		Name:        "discount_up_50bp",
		Description: "Value reserves 50bp higher",
		Transforms: []RunTransform{
			&shiftDiscountRate{Delta: decimal.RequireFromString("0.005")},
		},
	})

	registry.Register(Template{
		Name:        "csv_continuation",
		Description: "Final-year continuation on cash surrender value",
		Transforms: []RunTransform{
			&SetLastYearBasis{Basis: domain.BasisCSV},
		},
	})

	return registry
}

// shiftDiscountRate moves both valuation rates relative to the base run.
type shiftDiscountRate struct {
	Delta decimal.Decimal
}

func (sd *shiftDiscountRate) Name() string {
	return "shift_discount_rate"
}

func (sd *shiftDiscountRate) Description() string {
	return "Shift discount rates by " + pct(sd.Delta)
}

func (sd *shiftDiscountRate) Validate(base *domain.RunConfiguration) error {
	if err := requireBase(sd.Name(), base); err != nil {
		return err
	}
	return (&SetDiscountRate{Rate: base.CARVM.DiscountRate.Add(sd.Delta)}).Validate(base)
}

func (sd *shiftDiscountRate) Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error) {
	modified := base.DeepCopy()
	modified.CARVM.DiscountRate = base.CARVM.DiscountRate.Add(sd.Delta)
	modified.CARVM.AnnuityDiscountRate = base.CARVM.AnnuityDiscountRate.Add(sd.Delta)
	return modified, nil
}
