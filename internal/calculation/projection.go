package calculation

import (
	"fmt"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// projectionState is everything carried from one month to the next.
type projectionState struct {
	av                decimal.Decimal
	funds             GuaranteeFundState
	budget            WithdrawalBudgetState
	yearBOPAV         decimal.Decimal
	ytdInterest       decimal.Decimal
	priorYearInterest decimal.Decimal
}

// Projector runs the monthly roll-forward for one product and one set of assumptions.
// A Projector holds no run state, so Run may be called repeatedly.
type Projector struct {
	assumptions domain.ProjectionAssumptions
	rates       *RateResolver
	mva         *mvaSchedule
	withdrawals *WithdrawalTracker
	funds       *GuaranteeFundTracker
	initFunds   GuaranteeFundState
	annuity     *AnnuitizationCalculator
	logger      Logger
}

// NewProjector validates the inputs and prepares the component calculators. annuity may be
// nil, in which case no year-end annuitization values are produced.
func NewProjector(product *domain.ProductSpec, a domain.ProjectionAssumptions, annuity *AnnuitizationCalculator, logger Logger) (*Projector, error) {
	if product == nil {
		return nil, fmt.Errorf("product is required")
	}
	if a.Premium.IsNegative() {
		return nil, fmt.Errorf("premium must be non-negative, got %s", a.Premium)
	}
	if a.ProjectionYears <= 0 {
		a.ProjectionYears = product.TermYears
	}
	if logger == nil {
		logger = NopLogger{}
	}

	rates := NewRateResolver(product, a.InitialRate, a.RenewalRate)
	mva, err := newMVASchedule(product, a.MVA)
	if err != nil {
		return nil, err
	}
	funds, initFunds, err := NewGuaranteeFundTracker(product.GuaranteeFundParams(), rates, a.Premium)
	if err != nil {
		return nil, fmt.Errorf("guarantee funds: %w", err)
	}

	return &Projector{
		assumptions: a,
		rates:       rates,
		mva:         mva,
		withdrawals: NewWithdrawalTracker(product.Features.FreePartialWithdrawal, a.Withdrawal),
		funds:       funds,
		initFunds:   initFunds,
		annuity:     annuity,
		logger:      logger,
	}, nil
}

// Months is the number of monthly rows Run produces.
func (p *Projector) Months() int {
	return p.assumptions.ProjectionYears * 12
}

// Run projects every month in ascending order. Each month depends on the previous
// month's ending state, so the loop is strictly sequential.
func (p *Projector) Run() ([]domain.MonthlyRow, error) {
	state := projectionState{
		av:     p.assumptions.Premium,
		funds:  p.initFunds,
		budget: InitialWithdrawalBudget(),
	}

	rows := make([]domain.MonthlyRow, 0, p.Months())
	for pm := 1; pm <= p.Months(); pm++ {
		next, row, err := p.step(state, pm)
		if err != nil {
			return nil, fmt.Errorf("policy month %d: %w", pm, err)
		}
		rows = append(rows, row)
		state = next
	}
	return rows, nil
}

func (p *Projector) step(s projectionState, pm int) (projectionState, domain.MonthlyRow, error) {
	year := (pm-1)/12 + 1
	month := (pm-1)%12 + 1

	annualRate := p.rates.AnnualRate(year)
	monthlyRate := MonthlyRate(annualRate)
	scPct := p.rates.SurrenderChargePct(year)

	factor, monthsRemaining, err := p.mva.factor(pm)
	if err != nil {
		return s, domain.MonthlyRow{}, err
	}

	avBOP := s.av
	fundsBOP := s.funds
	if month == 1 {
		s.yearBOPAV = avBOP
	}

	budget, wd := p.withdrawals.Step(s.budget, WithdrawalMonth{
		PolicyYear:         year,
		MonthInYear:        month,
		AVBOP:              avBOP,
		YearBOPAV:          s.yearBOPAV,
		PriorYearInterest:  s.priorYearInterest,
		SurrenderChargePct: scPct,
		MVAFactor:          factor,
	})
	if wd.Amount.IsPositive() && wd.Amount.LessThan(RequestedWithdrawal(p.assumptions.Withdrawal, year, s.yearBOPAV, s.priorYearInterest)) {
		p.logger.Debugf("policy month %d: withdrawal clamped to account value %s", pm, avBOP.StringFixed(2))
	}

	funds := p.funds.ApplyWithdrawal(fundsBOP, wd.Amount)
	funds, mfvRate, pfvRate := p.funds.Credit(funds, year)

	account := RollForwardAccount(avBOP, wd.Amount, wd.PenaltyTotal, monthlyRate, funds.Floor())
	if account.FloorApplied {
		p.logger.Debugf("policy month %d: guarantee floor %s raised account value", pm, account.Floor.StringFixed(2))
	}

	surrender := SurrenderInput{
		AccountValue:       account.EOP,
		FreeRemaining:      budget.FreeRemaining,
		SurrenderChargePct: scPct,
		MVAFactor:          factor,
		Funds:              funds,
	}
	if pm == p.rates.TermMonths() {
		waived := decimal.Zero
		surrender.ChargePctOverride = &waived
	}
	csv := CashSurrenderValue(surrender)

	row := domain.MonthlyRow{
		Meta: domain.MonthMeta{
			PolicyMonth: pm,
			PolicyYear:  year,
			MonthInYear: month,
			AnnualRate:  annualRate,
			MonthlyRate: monthlyRate,
			AttainedAge: p.assumptions.IssueAge + year - 1,
		},
		Withdrawal: wd,
		MVA: domain.MVADetail{
			Factor:           factor,
			MonthsRemaining:  monthsRemaining,
			InitialIndexRate: p.assumptions.MVA.InitialIndexRate,
			CurrentIndexRate: p.assumptions.MVA.CurrentIndexRate,
		},
		Account: account,
		Funds: domain.GuaranteeFundDetail{
			MFVBOP:  fundsBOP.MFV,
			PFVBOP:  fundsBOP.PFV,
			MFVRate: mfvRate,
			PFVRate: pfvRate,
			MFVEOP:  funds.MFV,
			PFVEOP:  funds.PFV,
		},
		Surrender: csv,
	}

	if month == 12 && p.annuity != nil {
		ann, err := p.annuity.Value(account.EOP, p.assumptions.IssueAge+year)
		if err != nil {
			return s, domain.MonthlyRow{}, fmt.Errorf("annuitization: %w", err)
		}
		row.Annuitization = &ann
	}

	next := projectionState{
		av:                account.EOP,
		funds:             funds,
		budget:            budget,
		yearBOPAV:         s.yearBOPAV,
		ytdInterest:       s.ytdInterest.Add(account.Interest),
		priorYearInterest: s.priorYearInterest,
	}
	if month == 12 {
		next.priorYearInterest = next.ytdInterest
		next.ytdInterest = decimal.Zero
	}
	return next, row, nil
}
