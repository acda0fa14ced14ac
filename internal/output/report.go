package output

import (
	"fmt"
	"io"
	"time"

	"github.com/rgehrsitz/myga/internal/domain"
)

// ReportKind selects which view of a run a report renders.
type ReportKind int

const (
	// KindMonthly renders every projected month.
	KindMonthly ReportKind = iota
	// KindAnnual renders the policy-year reduction.
	KindAnnual
	// KindCARVM renders the behavior paths and the final reserve.
	KindCARVM
)

func (k ReportKind) String() string {
	switch k {
	case KindMonthly:
		return "monthly"
	case KindAnnual:
		return "annual"
	case KindCARVM:
		return "carvm"
	}
	return fmt.Sprintf("ReportKind(%d)", int(k))
}

// Report is the input to every formatter: one illustration or one CARVM run.
type Report struct {
	Kind         ReportKind
	Source       string // run file the report was produced from
	Illustration *domain.ProjectionResult
	CARVM        *domain.CARVMResult
	// Groups selects the monthly column groups; empty means all.
	Groups      []ColumnGroup
	GeneratedAt time.Time
}

// NewIllustrationReport wraps a projection as a monthly or annual report.
func NewIllustrationReport(source string, result *domain.ProjectionResult, annual bool, groups []ColumnGroup) *Report {
	kind := KindMonthly
	if annual {
		kind = KindAnnual
	}
	return &Report{
		Kind:         kind,
		Source:       source,
		Illustration: result,
		Groups:       groups,
		GeneratedAt:  time.Now(),
	}
}

// NewCARVMReport wraps a reserve run.
func NewCARVMReport(source string, result *domain.CARVMResult) *Report {
	return &Report{
		Kind:        KindCARVM,
		Source:      source,
		CARVM:       result,
		GeneratedAt: time.Now(),
	}
}

// Validate checks that the report carries the result its kind needs.
func (r *Report) Validate() error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}
	switch r.Kind {
	case KindMonthly, KindAnnual:
		if r.Illustration == nil {
			return fmt.Errorf("%s report requires an illustration result", r.Kind)
		}
	case KindCARVM:
		if r.CARVM == nil {
			return fmt.Errorf("carvm report requires a CARVM result")
		}
	default:
		return fmt.Errorf("unknown report kind %d", int(r.Kind))
	}
	return nil
}

// GenerateReport formats a report with the named formatter and writes it to w.
func GenerateReport(w io.Writer, report *Report, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s", format)
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}
