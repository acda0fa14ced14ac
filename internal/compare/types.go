package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/myga/internal/calculation"
	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonCase identifies one cell of a reserve comparison grid.
type ComparisonCase struct {
	ProductCode  string          `json:"productCode"`
	IssueAge     int             `json:"issueAge"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Template     string          `json:"template,omitempty"`
}

// Name returns a compact label such as "MYGA5/60/4.25%" or "MYGA5/60/4.25%+rates_up_100bp".
func (c ComparisonCase) Name() string {
	name := fmt.Sprintf("%s/%d/%s%%", c.ProductCode, c.IssueAge, c.DiscountRate.Shift(2).StringFixed(2))
	if c.Template != "" {
		name += "+" + c.Template
	}
	return name
}

// ComparisonResult represents one valued case with its key reserve metrics
type ComparisonResult struct {
	Case        ComparisonCase      `json:"case"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Result      *domain.CARVMResult `json:"-"`

	// Key Metrics
	Reserve             decimal.Decimal            `json:"reserve"`
	ReservePctOfPremium decimal.Decimal            `json:"reservePctOfPremium"`
	WinningPath         string                     `json:"winningPath"`
	PathReserves        map[string]decimal.Decimal `json:"pathReserves"`
	WinningBenefit      domain.BenefitKind         `json:"winningBenefit"`

	// Comparison to Base
	ReserveDiffFromBase decimal.Decimal `json:"reserveDiffFromBase"`
	ReservePctFromBase  decimal.Decimal `json:"reservePctFromBase"`
}

// ComparisonSet represents a base run and the grid of cases valued against it
type ComparisonSet struct {
	BaseName     string             `json:"baseName"`
	BaseResult   *ComparisonResult  `json:"baseResult"`
	Results      []ComparisonResult `json:"results"`
	Observations []string           `json:"observations"`
	ConfigPath   string             `json:"configPath"`
}

// PathNames returns the behavior path names present in any result, in first-seen order.
// Sets built without full results fall back to the two default paths.
func (cs *ComparisonSet) PathNames() []string {
	var names []string
	seen := map[string]bool{}
	add := func(r *ComparisonResult) {
		if r == nil || r.Result == nil {
			return
		}
		for _, p := range r.Result.Paths {
			if !seen[p.Name] {
				seen[p.Name] = true
				names = append(names, p.Name)
			}
		}
	}
	add(cs.BaseResult)
	for i := range cs.Results {
		add(&cs.Results[i])
	}
	if len(names) == 0 {
		return defaultPathNames
	}
	return names
}

// MetricsCalculator extracts key metrics from CARVM results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics for one CARVM result
func (mc *MetricsCalculator) CalculateMetrics(c ComparisonCase, description string, res *domain.CARVMResult) ComparisonResult {
	result := ComparisonResult{
		Case:         c,
		Name:         c.Name(),
		Description:  description,
		Result:       res,
		Reserve:      res.Reserve,
		WinningPath:  res.WinningPath,
		PathReserves: make(map[string]decimal.Decimal, len(res.Paths)),
	}
	if res.Premium.IsPositive() {
		result.ReservePctOfPremium = res.Reserve.Div(res.Premium).Shift(2).Round(4)
	}
	for _, p := range res.Paths {
		result.PathReserves[p.Name] = p.Reserve.InitialReserve()
	}
	if winner, ok := res.Path(res.WinningPath); ok && len(winner.Reserve.Rows) > 0 {
		result.WinningBenefit = winner.Reserve.Rows[0].Winner
	}
	return result
}

// CalculateComparison computes comparison metrics between a case and the base
func (mc *MetricsCalculator) CalculateComparison(result, base ComparisonResult) ComparisonResult {
	result.ReserveDiffFromBase = result.Reserve.Sub(base.Reserve)
	if !base.Reserve.IsZero() {
		result.ReservePctFromBase = result.ReserveDiffFromBase.Div(base.Reserve).Shift(2).Round(4)
	}
	return result
}

// GenerateObservations summarizes the extremes of a comparison and checks that, for each
// product and issue age, a higher discount rate never produced a higher reserve.
func GenerateObservations(compSet *ComparisonSet) []string {
	observations := []string{}
	if len(compSet.Results) == 0 {
		return observations
	}

	highest, lowest := &compSet.Results[0], &compSet.Results[0]
	for i := range compSet.Results[1:] {
		r := &compSet.Results[i+1]
		if r.Reserve.GreaterThan(highest.Reserve) {
			highest = r
		}
		if r.Reserve.LessThan(lowest.Reserve) {
			lowest = r
		}
	}
	observations = append(observations,
		fmt.Sprintf("Highest Reserve: %s at $%s (%s%% of premium, %s path)",
			highest.Name, highest.Reserve.StringFixed(2), highest.ReservePctOfPremium.StringFixed(2), highest.WinningPath))
	if lowest != highest {
		observations = append(observations,
			fmt.Sprintf("Lowest Reserve: %s at $%s (%s%% of premium, %s path)",
				lowest.Name, lowest.Reserve.StringFixed(2), lowest.ReservePctOfPremium.StringFixed(2), lowest.WinningPath))
	}

	wins := map[string]int{}
	for _, r := range compSet.Results {
		wins[r.WinningPath]++
	}
	paths := make([]string, 0, len(wins))
	for p := range wins {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		parts = append(parts, fmt.Sprintf("%s %d", p, wins[p]))
	}
	observations = append(observations, "Winning Paths: "+strings.Join(parts, ", "))

	observations = append(observations, discountMonotonicity(compSet.Results)...)
	return observations
}

// discountMonotonicity reports every product, age and template group whose reserve rose
// when the discount rate rose.
func discountMonotonicity(results []ComparisonResult) []string {
	type key struct {
		product  string
		age      int
		template string
	}
	groups := map[key][]ComparisonResult{}
	var order []key
	for _, r := range results {
		k := key{r.Case.ProductCode, r.Case.IssueAge, r.Case.Template}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	var out []string
	multiRate := false
	for _, k := range order {
		g := groups[k]
		if len(g) < 2 {
			continue
		}
		multiRate = true
		sort.SliceStable(g, func(i, j int) bool { return g[i].Case.DiscountRate.LessThan(g[j].Case.DiscountRate) })
		for i := 1; i < len(g); i++ {
			if g[i].Reserve.GreaterThan(g[i-1].Reserve) {
				out = append(out, fmt.Sprintf("Warning: reserve rose from $%s to $%s as the discount rate rose (%s -> %s)",
					g[i-1].Reserve.StringFixed(2), g[i].Reserve.StringFixed(2), g[i-1].Name, g[i].Name))
			}
		}
	}
	if multiRate && len(out) == 0 {
		out = append(out, "Discount Sensitivity: reserves never rise as the discount rate rises")
	}
	return out
}

// pathReserve returns a path's year-1 reserve and whether the path was valued.
func pathReserve(r *ComparisonResult, name string) (decimal.Decimal, bool) {
	v, ok := r.PathReserves[name]
	return v, ok
}

// defaultPathNames is the column order used when a set carries no full results.
var defaultPathNames = []string{calculation.PathNoPW, calculation.PathMaxFPW}
