package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Behavior path names for the two-path CARVM valuation.
const (
	PathNoPW        = "No PW"
	PathMaxFPW      = "Max FPW"
	PathIllustrated = "Illustrated"
)

// DefaultCARVMMaxAge is the valuation horizon age when the run does not set one.
const DefaultCARVMMaxAge = 100

var defaultMaxFreePct = decimal.RequireFromString("0.10")

// BehaviorPath is one policyholder withdrawal behavior valued by the reserve engine.
type BehaviorPath struct {
	Name           string
	Description    string
	Withdrawal     domain.WithdrawalInstruction
	Basis          domain.ContinuationBasis
	TruncateToTerm bool
}

// DefaultBehaviorPaths returns the "No PW" and "Max FPW" paths for a product. Max FPW
// withdraws the product's free percentage each year (or the configured default when the
// product's allowance is not percentage based) and is valued through the term only.
func DefaultBehaviorPaths(spec *domain.ProductSpec, settings domain.CARVMSettings) []BehaviorPath {
	freePct := defaultMaxFreePct
	if settings.DefaultFreePct != nil {
		freePct = *settings.DefaultFreePct
	}
	fpw := spec.Features.FreePartialWithdrawal
	if fpw.Enabled && fpw.Method == domain.FreePctOfBOYAV && fpw.Pct().IsPositive() {
		freePct = fpw.Pct()
	}

	return []BehaviorPath{
		{
			Name:        PathNoPW,
			Description: "No partial withdrawals; continuation valued on account value",
			Withdrawal:  domain.WithdrawalInstruction{Method: domain.WithdrawalPctOfBOYAV, Value: decimal.Zero},
			Basis:       domain.BasisAV,
		},
		{
			Name:           PathMaxFPW,
			Description:    fmt.Sprintf("Maximum free withdrawal of %s%% of BOY account value through the term", freePct.Shift(2).String()),
			Withdrawal:     domain.WithdrawalInstruction{Method: domain.WithdrawalPctOfBOYAV, Value: freePct},
			Basis:          domain.BasisCSV,
			TruncateToTerm: true,
		},
	}
}

// IllustratedBehaviorPath values the run's own withdrawal instruction over the full
// horizon, continued on the run's last-year basis.
func IllustratedBehaviorPath(cfg *domain.RunConfiguration) BehaviorPath {
	return BehaviorPath{
		Name:        PathIllustrated,
		Description: fmt.Sprintf("Illustrated withdrawals (%s); continuation valued on %s", cfg.Withdrawal.Method, cfg.CARVM.LastYearBasis),
		Withdrawal:  cfg.Withdrawal,
		Basis:       cfg.CARVM.LastYearBasis,
	}
}

// carvmBase derives the valuation assumptions: horizon to the valuation age and renewal
// crediting at the product's guaranteed minimum.
func carvmBase(spec *domain.ProductSpec, cfg *domain.RunConfiguration) domain.ProjectionAssumptions {
	maxAge := cfg.CARVM.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultCARVMMaxAge
	}
	base := *cfg.ProjectionAssumptions.DeepCopy()
	base.ProjectionYears = max(1, maxAge-cfg.IssueAge)
	base.RenewalRate = spec.Features.MinimumGuaranteedRate
	base.Annuitize = false
	return base
}

// RunPath projects, reduces and reserves a single behavior path.
func (ce *CalculationEngine) RunPath(ctx context.Context, spec *domain.ProductSpec, base domain.ProjectionAssumptions, settings domain.CARVMSettings, path BehaviorPath) (domain.PathResult, error) {
	result := domain.PathResult{Name: path.Name, Description: path.Description}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	a := *base.DeepCopy()
	a.Withdrawal = path.Withdrawal
	result.Assumptions = a

	projector, err := NewProjector(spec, a, nil, ce.logger())
	if err != nil {
		return result, err
	}
	monthly, err := projector.Run()
	if err != nil {
		return result, err
	}
	annual, err := ReduceAnnual(monthly)
	if err != nil {
		return result, err
	}
	if path.TruncateToTerm {
		annual = TruncateToTerm(annual, spec.TermYears)
	}
	result.Annual = annual

	annuity, err := ce.annuityCalculator(spec, a, settings.AnnuityDiscountRate)
	if err != nil {
		return result, err
	}
	reserve, err := ComputeReserve(annual, ReserveParams{
		IssueAge:      a.IssueAge,
		DiscountRate:  settings.DiscountRate,
		LastYearBasis: path.Basis,
		Annuity:       annuity,
	})
	if err != nil {
		return result, fmt.Errorf("reserve: %w", err)
	}
	result.Reserve = reserve
	return result, nil
}

// RunCARVM values every default behavior path, plus the illustrated path when the run
// asks for it, and takes the greatest year-1 reserve.
// Paths share only the read-only catalog and tables, so they run concurrently.
func (ce *CalculationEngine) RunCARVM(ctx context.Context, cfg *domain.RunConfiguration) (*domain.CARVMResult, error) {
	spec, err := ce.Products.Get(cfg.ProductCode)
	if err != nil {
		return nil, err
	}
	paths := DefaultBehaviorPaths(spec, cfg.CARVM)
	if cfg.CARVM.IllustratedPath {
		paths = append(paths, IllustratedBehaviorPath(cfg))
	}
	return ce.RunCARVMPaths(ctx, spec, cfg, paths)
}

// RunCARVMPaths is RunCARVM with caller-supplied behavior paths.
func (ce *CalculationEngine) RunCARVMPaths(ctx context.Context, spec *domain.ProductSpec, cfg *domain.RunConfiguration, paths []BehaviorPath) (*domain.CARVMResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one behavior path is required")
	}
	// Load mortality before fanning out so the goroutines only read.
	if _, err := ce.Tables.Mortality(spec.Assumptions.MortalityTableKey); err != nil {
		return nil, fmt.Errorf("failed to load mortality table: %w", err)
	}

	base := carvmBase(spec, cfg)
	ce.logger().Infof("carvm start: product=%s issue_age=%d horizon=%d years discount=%s",
		spec.ProductCode, cfg.IssueAge, base.ProjectionYears, cfg.CARVM.DiscountRate.String())

	results := make([]domain.PathResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			r, err := ce.RunPath(gctx, spec, base, cfg.CARVM, path)
			if err != nil {
				return fmt.Errorf("path %s: %w", path.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &domain.CARVMResult{
		ProductCode: spec.ProductCode,
		IssueAge:    cfg.IssueAge,
		Premium:     cfg.Premium,
		Settings:    cfg.CARVM,
		Paths:       results,
	}
	out.Reserve, out.WinningPath = results[0].Reserve.InitialReserve(), results[0].Name
	for _, r := range results[1:] {
		if r.Reserve.InitialReserve().GreaterThan(out.Reserve) {
			out.Reserve, out.WinningPath = r.Reserve.InitialReserve(), r.Name
		}
	}
	ce.logger().Infof("carvm done: product=%s reserve=%s winning path=%s",
		spec.ProductCode, out.Reserve.StringFixed(2), out.WinningPath)
	return out, nil
}
