package tables

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	InstallmentFile = "installment_option.csv"
	LifeIncomeFile  = "life_income_no_guarantee.csv"

	// MinInstallmentYears and MaxInstallmentYears bound the installment-certain option.
	MinInstallmentYears = 1
	MaxInstallmentYears = 30
)

var perThousand = decimal.NewFromInt(1000)

// PayoutParams selects a row of a payout table.
type PayoutParams struct {
	Years int             // installment-certain term
	Age   decimal.Decimal // attained age, may be fractional for life income
	Sex   domain.Sex
}

type installmentEntry struct {
	years  int
	factor decimal.Decimal
}

// PayoutTables holds monthly income per $1000 applied for the settlement options.
type PayoutTables struct {
	installment []installmentEntry // sorted by years
	lifeAges    []int              // sorted ascending
	lifeFactors map[domain.Sex][]decimal.Decimal
}

// NewPayoutTables builds tables from in-memory maps.
func NewPayoutTables(installment map[int]decimal.Decimal, male, female map[int]decimal.Decimal) (*PayoutTables, error) {
	if len(installment) == 0 {
		return nil, fmt.Errorf("installment table has no rows")
	}
	if len(male) == 0 {
		return nil, fmt.Errorf("life income table has no rows")
	}

	pt := &PayoutTables{lifeFactors: make(map[domain.Sex][]decimal.Decimal)}
	for years, factor := range installment {
		pt.installment = append(pt.installment, installmentEntry{years: years, factor: factor})
	}
	sort.Slice(pt.installment, func(i, j int) bool { return pt.installment[i].years < pt.installment[j].years })

	for age := range male {
		pt.lifeAges = append(pt.lifeAges, age)
	}
	sort.Ints(pt.lifeAges)
	for _, age := range pt.lifeAges {
		f, ok := female[age]
		if !ok {
			return nil, fmt.Errorf("life income table missing female factor for age %d", age)
		}
		pt.lifeFactors[domain.Male] = append(pt.lifeFactors[domain.Male], male[age])
		pt.lifeFactors[domain.Female] = append(pt.lifeFactors[domain.Female], f)
	}
	return pt, nil
}

// LoadPayoutTables reads installment_option.csv and life_income_no_guarantee.csv from dir.
func LoadPayoutTables(dir string) (*PayoutTables, error) {
	instRows, err := readHeaderedCSV(filepath.Join(dir, InstallmentFile))
	if err != nil {
		return nil, err
	}
	installment := make(map[int]decimal.Decimal, len(instRows))
	for i, row := range instRows {
		years, err := strconv.Atoi(row["years"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid years %q: %w", InstallmentFile, i+1, row["years"], err)
		}
		factor, err := decimal.NewFromString(row["monthly_per_1000"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid factor: %w", InstallmentFile, i+1, err)
		}
		installment[years] = factor
	}

	lifeRows, err := readHeaderedCSV(filepath.Join(dir, LifeIncomeFile))
	if err != nil {
		return nil, err
	}
	male := make(map[int]decimal.Decimal, len(lifeRows))
	female := make(map[int]decimal.Decimal, len(lifeRows))
	for i, row := range lifeRows {
		age, err := strconv.Atoi(row["age"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid age %q: %w", LifeIncomeFile, i+1, row["age"], err)
		}
		m, err := decimal.NewFromString(row["male_per_1000"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid male factor: %w", LifeIncomeFile, i+1, err)
		}
		f, err := decimal.NewFromString(row["female_per_1000"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid female factor: %w", LifeIncomeFile, i+1, err)
		}
		male[age] = m
		female[age] = f
	}

	return NewPayoutTables(installment, male, female)
}

// InstallmentFactor returns the monthly income per $1000 for an exact installment term.
func (pt *PayoutTables) InstallmentFactor(years int) (decimal.Decimal, error) {
	if years < MinInstallmentYears || years > MaxInstallmentYears {
		return decimal.Zero, fmt.Errorf("%w: installment years %d outside %d-%d",
			domain.ErrTableLookup, years, MinInstallmentYears, MaxInstallmentYears)
	}
	i := sort.Search(len(pt.installment), func(i int) bool { return pt.installment[i].years >= years })
	if i == len(pt.installment) || pt.installment[i].years != years {
		return decimal.Zero, fmt.Errorf("%w: installment table does not contain years=%d", domain.ErrTableLookup, years)
	}
	return pt.installment[i].factor, nil
}

// LifeFactor returns the single-life-no-guarantee factor for an age, interpolating
// linearly between tabulated ages. Ages above the table clamp to the last row;
// ages below the first (minimum eligible) age, or a sex with no column, return zero.
func (pt *PayoutTables) LifeFactor(age decimal.Decimal, sex domain.Sex) decimal.Decimal {
	factors, ok := pt.lifeFactors[sex]
	if !ok {
		return decimal.Zero
	}
	minAge := decimal.NewFromInt(int64(pt.lifeAges[0]))
	maxAge := decimal.NewFromInt(int64(pt.lifeAges[len(pt.lifeAges)-1]))

	if age.LessThan(minAge) {
		return decimal.Zero
	}
	if age.GreaterThanOrEqual(maxAge) {
		return factors[len(factors)-1]
	}

	// First tabulated age strictly greater than age.
	hi := sort.Search(len(pt.lifeAges), func(i int) bool {
		return decimal.NewFromInt(int64(pt.lifeAges[i])).GreaterThan(age)
	})
	lo := hi - 1
	loAge := decimal.NewFromInt(int64(pt.lifeAges[lo]))
	if loAge.Equal(age) {
		return factors[lo]
	}
	hiAge := decimal.NewFromInt(int64(pt.lifeAges[hi]))
	w := age.Sub(loAge).Div(hiAge.Sub(loAge))
	return factors[lo].Add(factors[hi].Sub(factors[lo]).Mul(w))
}

// MonthlyPayment returns (amount/1000) * factor for the requested option.
func (pt *PayoutTables) MonthlyPayment(amount decimal.Decimal, option domain.AnnuityOption, params PayoutParams) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, nil
	}
	var factor decimal.Decimal
	switch option {
	case domain.InstallmentCertain:
		f, err := pt.InstallmentFactor(params.Years)
		if err != nil {
			return decimal.Zero, err
		}
		factor = f
	case domain.SingleLifeNoGuarantee:
		factor = pt.LifeFactor(params.Age, params.Sex)
	default:
		return decimal.Zero, fmt.Errorf("%w: annuity option %s", domain.ErrUnsupportedOption, option)
	}
	return amount.Div(perThousand).Mul(factor), nil
}

// readHeaderedCSV returns each data row keyed by lower-cased header name.
func readHeaderedCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
