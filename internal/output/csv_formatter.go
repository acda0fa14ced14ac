package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rgehrsitz/myga/internal/domain"
)

// CSVFormatter exports the rows of a report: monthly columns (selected by group),
// annual rows, or one reserve row per path and policy year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	var err error
	switch report.Kind {
	case KindMonthly:
		err = c.writeMonthly(w, report.Illustration.Monthly, Columns(report.Groups))
	case KindAnnual:
		err = c.writeAnnual(w, report.Illustration.Annual)
	case KindCARVM:
		err = c.writeCARVM(w, report.CARVM)
	}
	if err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c CSVFormatter) writeMonthly(w *csv.Writer, rows []domain.MonthlyRow, cols []Column) error {
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range rows {
		record := make([]string, len(cols))
		for j, col := range cols {
			record[j] = col.Value(&rows[i])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func (c CSVFormatter) writeAnnual(w *csv.Writer, rows []domain.AnnualRow) error {
	if err := w.Write([]string{"policy_year", "attained_age", "av_boy", "wd", "av_eoy", "csv_eoy"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			intToString(r.PolicyYear),
			intToString(r.AttainedAge),
			money(r.AVBOY),
			money(r.WD),
			money(r.AVEOY),
			nullMoney(r.CSVEOY),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func (c CSVFormatter) writeCARVM(w *csv.Writer, result *domain.CARVMResult) error {
	header := []string{
		"path", "winning_path", "policy_year", "attained_age", "wd", "av_eoy",
		"death_benefit", "surrender_benefit", "installment_pv", "single_life_pv",
		"annuitization_benefit", "continuation_benefit", "maximum_benefit", "reserve_boy", "winning_benefit",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range result.Paths {
		winning := boolToString(p.Name == result.WinningPath)
		for _, r := range p.Reserve.Rows {
			record := []string{
				p.Name,
				winning,
				intToString(r.PolicyYear),
				intToString(r.AttainedAge),
				money(r.WD),
				money(r.AVEOY),
				money(r.Death),
				money(r.Surrender),
				money(r.InstallmentPV),
				money(r.SingleLifePV),
				money(r.Annuitization),
				money(r.Continuation),
				money(r.MaximumBenefit),
				money(r.Reserve),
				r.Winner.String(),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}
