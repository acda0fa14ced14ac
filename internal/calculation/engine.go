package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/tables"
	"github.com/shopspring/decimal"
)

// ProductSource supplies validated, immutable product rules by code.
type ProductSource interface {
	Get(code string) (*domain.ProductSpec, error)
}

// CalculationEngine runs illustrations and CARVM reserves against a product catalog and
// a loaded table set. Both are read-only, so one engine may serve concurrent runs.
type CalculationEngine struct {
	Products ProductSource
	Tables   *tables.Set
	Logger   Logger
}

// NewCalculationEngine creates a new calculation engine with a no-op logger.
func NewCalculationEngine(products ProductSource, tbl *tables.Set) *CalculationEngine {
	return &CalculationEngine{
		Products: products,
		Tables:   tbl,
		Logger:   NopLogger{},
	}
}

// SetLogger sets a logger; nil restores the no-op logger.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// annuityCalculator binds the payout and mortality tables for a product and policyholder.
func (ce *CalculationEngine) annuityCalculator(spec *domain.ProductSpec, a domain.ProjectionAssumptions, discountRate decimal.Decimal) (*AnnuitizationCalculator, error) {
	if ce.Tables == nil {
		return nil, fmt.Errorf("tables are not loaded")
	}
	mortality, err := ce.Tables.Mortality(spec.Assumptions.MortalityTableKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load mortality table %q: %w", spec.Assumptions.MortalityTableKey, err)
	}
	return &AnnuitizationCalculator{
		Payout:           ce.Tables.Payout,
		Mortality:        mortality,
		Sex:              a.Sex,
		InstallmentYears: a.InstallmentYears,
		DiscountRate:     discountRate,
		MaxAge:           DefaultLifeMaxAge,
	}, nil
}

// RunIllustration projects the run's assumptions month by month and reduces the result
// to policy years. Year-end annuitization values are included when the run asks for them.
func (ce *CalculationEngine) RunIllustration(ctx context.Context, cfg *domain.RunConfiguration) (*domain.ProjectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spec, err := ce.Products.Get(cfg.ProductCode)
	if err != nil {
		return nil, err
	}

	var annuity *AnnuitizationCalculator
	if cfg.Annuitize {
		annuity, err = ce.annuityCalculator(spec, cfg.ProjectionAssumptions, cfg.CARVM.AnnuityDiscountRate)
		if err != nil {
			return nil, err
		}
	}

	ce.logger().Debugf("illustration start: product=%s premium=%s years=%d",
		spec.ProductCode, cfg.Premium.StringFixed(2), cfg.ProjectionYears)

	projector, err := NewProjector(spec, cfg.ProjectionAssumptions, annuity, ce.logger())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare projection: %w", err)
	}
	monthly, err := projector.Run()
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}
	annual, err := ReduceAnnual(monthly)
	if err != nil {
		return nil, err
	}

	assumptions := cfg.ProjectionAssumptions
	assumptions.ProjectionYears = projector.Months() / 12
	ce.logger().Debugf("illustration done: %d months", len(monthly))

	return &domain.ProjectionResult{
		ProductCode: spec.ProductCode,
		Assumptions: assumptions,
		Monthly:     monthly,
		Annual:      annual,
	}, nil
}
