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

// DefaultMortalityKey is used when a product does not name a mortality table.
const DefaultMortalityKey = "2012IAM"

// MortalityTable holds annual mortality rates by integer age, sorted ascending.
type MortalityTable struct {
	ages []int
	qx   []decimal.Decimal
}

// NewMortalityTable builds a table from an age->qx map, clamping each rate to [0,1].
func NewMortalityTable(rates map[int]decimal.Decimal) (*MortalityTable, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("mortality table has no rows")
	}
	t := &MortalityTable{
		ages: make([]int, 0, len(rates)),
		qx:   make([]decimal.Decimal, 0, len(rates)),
	}
	for age := range rates {
		t.ages = append(t.ages, age)
	}
	sort.Ints(t.ages)
	for _, age := range t.ages {
		t.qx = append(t.qx, clampUnit(rates[age]))
	}
	return t, nil
}

// ParseMortalityCSV reads a two-column (age, qx) CSV. A header row and rows that
// do not parse as numbers are skipped.
func ParseMortalityCSV(r io.Reader) (*MortalityTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rates := make(map[int]decimal.Decimal)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read mortality CSV: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		ageF, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			continue
		}
		qx, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}
		rates[int(ageF)] = qx
	}
	return NewMortalityTable(rates)
}

// LoadMortalityCSV reads a mortality table from disk.
func LoadMortalityCSV(path string) (*MortalityTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mortality table not found: %w", err)
	}
	defer f.Close()

	t, err := ParseMortalityCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Rate returns qx for an age. Ages past either end of the table clamp to the nearest tabulated age.
func (t *MortalityTable) Rate(age int) decimal.Decimal {
	i := sort.SearchInts(t.ages, age)
	switch {
	case i >= len(t.ages):
		return t.qx[len(t.qx)-1]
	case t.ages[i] == age:
		return t.qx[i]
	case i == 0:
		return t.qx[0]
	}
	// Gap inside the table: use the next lower tabulated age.
	return t.qx[i-1]
}

// MinAge returns the lowest tabulated age.
func (t *MortalityTable) MinAge() int { return t.ages[0] }

// MaxAge returns the highest tabulated age.
func (t *MortalityTable) MaxAge() int { return t.ages[len(t.ages)-1] }

// MortalitySet pairs male and female tables that share a key.
type MortalitySet struct {
	Key    string
	tables map[domain.Sex]*MortalityTable
}

// NewMortalitySet builds a set from already-loaded tables.
func NewMortalitySet(key string, male, female *MortalityTable) *MortalitySet {
	return &MortalitySet{
		Key: key,
		tables: map[domain.Sex]*MortalityTable{
			domain.Male:   male,
			domain.Female: female,
		},
	}
}

// LoadMortalitySet reads <key>_M.csv and <key>_F.csv from dir.
func LoadMortalitySet(dir, key string) (*MortalitySet, error) {
	if key == "" {
		key = DefaultMortalityKey
	}
	male, err := LoadMortalityCSV(filepath.Join(dir, key+"_M.csv"))
	if err != nil {
		return nil, err
	}
	female, err := LoadMortalityCSV(filepath.Join(dir, key+"_F.csv"))
	if err != nil {
		return nil, err
	}
	return NewMortalitySet(key, male, female), nil
}

// MortalityRate returns the annual mortality rate for an attained age and sex.
func (s *MortalitySet) MortalityRate(age int, sex domain.Sex) decimal.Decimal {
	t, ok := s.tables[sex]
	if !ok || t == nil {
		t = s.tables[domain.Male]
	}
	return t.Rate(age)
}

func clampUnit(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return d
}
