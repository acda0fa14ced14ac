// Package tables loads the read-only actuarial tables used by the projection:
// annual mortality rates and settlement-option payout factors. Tables are loaded
// once per process and are safe for concurrent reads afterwards.
package tables

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Set bundles the payout tables with the mortality sets loaded so far.
type Set struct {
	Dir    string
	Payout *PayoutTables

	mu        sync.Mutex
	mortality map[string]*MortalitySet
}

// Load reads the payout tables from dir/annuity and prepares lazy mortality loading
// from dir/mortality.
func Load(dir string) (*Set, error) {
	payout, err := LoadPayoutTables(filepath.Join(dir, "annuity"))
	if err != nil {
		return nil, fmt.Errorf("failed to load payout tables: %w", err)
	}
	return NewSet(dir, payout), nil
}

// NewSet builds a set from already-loaded tables. Mortality keys not supplied are read
// from dir/mortality on first use.
func NewSet(dir string, payout *PayoutTables, mortality ...*MortalitySet) *Set {
	s := &Set{
		Dir:       dir,
		Payout:    payout,
		mortality: make(map[string]*MortalitySet, len(mortality)),
	}
	for _, m := range mortality {
		s.mortality[m.Key] = m
	}
	return s
}

// Mortality returns the mortality set for a table key, loading it on first use.
func (s *Set) Mortality(key string) (*MortalitySet, error) {
	if key == "" {
		key = DefaultMortalityKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.mortality[key]; ok {
		return m, nil
	}
	m, err := LoadMortalitySet(filepath.Join(s.Dir, "mortality"), key)
	if err != nil {
		return nil, err
	}
	s.mortality[key] = m
	return m, nil
}

// Preload loads the named mortality sets up front so concurrent runs never hit the loader.
func (s *Set) Preload(keys ...string) error {
	for _, k := range keys {
		if _, err := s.Mortality(k); err != nil {
			return err
		}
	}
	return nil
}
