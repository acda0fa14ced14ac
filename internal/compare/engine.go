package compare

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/rgehrsitz/myga/internal/calculation"
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/transform"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ReserveRunner values a run configuration. *calculation.CalculationEngine satisfies it.
type ReserveRunner interface {
	RunCARVM(ctx context.Context, cfg *domain.RunConfiguration) (*domain.CARVMResult, error)
}

var _ ReserveRunner = (*calculation.CalculationEngine)(nil)

// CompareEngine orchestrates reserve comparisons across products, issue ages,
// discount rates and templates
type CompareEngine struct {
	Runner            ReserveRunner
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	// Concurrency bounds the cases valued at once; zero uses GOMAXPROCS.
	Concurrency int
	Logger      calculation.Logger
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(runner ReserveRunner) *CompareEngine {
	return &CompareEngine{
		Runner:            runner,
		MetricsCalculator: NewMetricsCalculator(),
		Logger:            calculation.NopLogger{},
	}
}

// CompareOptions configures comparison behavior. Empty dimensions keep the base run's value.
type CompareOptions struct {
	BaseName      string
	Products      []string
	IssueAges     []int
	DiscountRates []decimal.Decimal
	Templates     []string // template names applied one at a time to every grid cell
	// FreePct sizes the max_fpw template; zero uses 10%.
	FreePct decimal.Decimal
}

var defaultTemplateFreePct = decimal.RequireFromString("0.10")

type plannedCase struct {
	c           ComparisonCase
	description string
	cfg         *domain.RunConfiguration
}

// Cases expands the options into the grid of cases, in product, age, rate, template order.
func (ce *CompareEngine) Cases(base *domain.RunConfiguration, options CompareOptions) ([]ComparisonCase, error) {
	planned, err := ce.plan(base, options)
	if err != nil {
		return nil, err
	}
	out := make([]ComparisonCase, len(planned))
	for i, p := range planned {
		out[i] = p.c
	}
	return out, nil
}

func (ce *CompareEngine) plan(base *domain.RunConfiguration, options CompareOptions) ([]plannedCase, error) {
	if base == nil {
		return nil, fmt.Errorf("base run cannot be nil")
	}

	products := options.Products
	if len(products) == 0 {
		products = []string{base.ProductCode}
	}
	ages := options.IssueAges
	if len(ages) == 0 {
		ages = []int{base.IssueAge}
	}
	rates := options.DiscountRates
	if len(rates) == 0 {
		rates = []decimal.Decimal{base.CARVM.DiscountRate}
	}
	templates := []string{""}
	if len(options.Templates) > 0 {
		templates = options.Templates
		freePct := options.FreePct
		if freePct.IsZero() {
			freePct = defaultTemplateFreePct
		}
		ce.TemplateRegistry = transform.CreateBuiltInTemplates(freePct)
	}

	var planned []plannedCase
	for _, product := range products {
		for _, age := range ages {
			for _, rate := range rates {
				cell := []transform.RunTransform{
					&transform.SetProduct{ProductCode: product},
					&transform.SetIssueAge{Age: age},
					&transform.SetDiscountRate{Rate: rate, AnnuityRate: annuityRateFor(base, rate)},
				}
				for _, name := range templates {
					transforms := cell
					description := transform.Describe(cell)
					if name != "" {
						template, ok := ce.TemplateRegistry.Get(name)
						if !ok {
							return nil, fmt.Errorf("template %s not found", name)
						}
						transforms = append(append([]transform.RunTransform{}, cell...), template.Transforms...)
						description = template.Description
					}
					cfg, err := transform.ApplyTransforms(base, transforms)
					if err != nil {
						return nil, fmt.Errorf("failed to build case %s/%d: %w", product, age, err)
					}
					planned = append(planned, plannedCase{
						c: ComparisonCase{
							ProductCode:  cfg.ProductCode,
							IssueAge:     age,
							DiscountRate: rate,
							Template:     strings.ToLower(name),
						},
						description: description,
						cfg:         cfg,
					})
				}
			}
		}
	}
	return planned, nil
}

// annuityRateFor keeps the base run's spread between the annuity and reserve discount rates.
func annuityRateFor(base *domain.RunConfiguration, rate decimal.Decimal) *decimal.Decimal {
	spread := base.CARVM.AnnuityDiscountRate.Sub(base.CARVM.DiscountRate)
	r := rate.Add(spread)
	return &r
}

// Compare values the base run and every case of the grid. Cases run concurrently; the
// first failure cancels the rest.
func (ce *CompareEngine) Compare(ctx context.Context, base *domain.RunConfiguration, options CompareOptions) (*ComparisonSet, error) {
	planned, err := ce.plan(base, options)
	if err != nil {
		return nil, err
	}

	logger := ce.Logger
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	limit := ce.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	logger.Infof("compare start: %d cases, concurrency %d", len(planned), limit)

	baseName := options.BaseName
	if baseName == "" {
		baseName = "Base run"
	}

	var baseResult *domain.CARVMResult
	results := make([]*domain.CARVMResult, len(planned))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	g.Go(func() error {
		r, err := ce.Runner.RunCARVM(gctx, base)
		if err != nil {
			return fmt.Errorf("failed to calculate base run: %w", err)
		}
		baseResult = r
		return nil
	})
	for i, p := range planned {
		g.Go(func() error {
			r, err := ce.Runner.RunCARVM(gctx, p.cfg)
			if err != nil {
				return fmt.Errorf("failed to calculate case %s: %w", p.c.Name(), err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	baseCase := ComparisonCase{ProductCode: baseResult.ProductCode, IssueAge: base.IssueAge, DiscountRate: base.CARVM.DiscountRate}
	baseMetrics := ce.MetricsCalculator.CalculateMetrics(baseCase, baseName, baseResult)
	baseMetrics.Name = baseName

	compSet := &ComparisonSet{
		BaseName:   baseName,
		BaseResult: &baseMetrics,
		Results:    make([]ComparisonResult, 0, len(planned)),
	}
	for i, p := range planned {
		m := ce.MetricsCalculator.CalculateMetrics(p.c, p.description, results[i])
		compSet.Results = append(compSet.Results, ce.MetricsCalculator.CalculateComparison(m, baseMetrics))
	}
	compSet.Observations = GenerateObservations(compSet)

	logger.Infof("compare done: base reserve=%s", baseMetrics.Reserve.StringFixed(2))
	return compSet, nil
}
