package output

import (
	"encoding/json"

	"github.com/rgehrsitz/myga/internal/domain"
)

// JSONFormatter serializes the report's result as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *Report) ([]byte, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}
	var payload any
	switch report.Kind {
	case KindMonthly:
		payload = report.Illustration
	case KindAnnual:
		payload = struct {
			ProductCode string                       `json:"productCode"`
			Assumptions domain.ProjectionAssumptions `json:"assumptions"`
			Annual      []domain.AnnualRow           `json:"annual"`
		}{report.Illustration.ProductCode, report.Illustration.Assumptions, report.Illustration.Annual}
	case KindCARVM:
		payload = report.CARVM
	}
	return json.MarshalIndent(payload, "", "  ")
}
