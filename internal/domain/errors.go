package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound is returned when a product code has no spec in the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrUnsupportedOption is returned for unknown withdrawal, annuity or basis option strings.
	ErrUnsupportedOption = errors.New("unsupported option")
	// ErrMalformedProjection is returned when a monthly table lacks its policy-year or month keys.
	ErrMalformedProjection = errors.New("malformed monthly projection")
	// ErrTableLookup is returned when a payout table has no entry for the requested key.
	ErrTableLookup = errors.New("table lookup failed")
)

// ProductSpecError reports every validation problem found in one product spec.
type ProductSpecError struct {
	ProductCode string
	Problems    []string
}

func (e *ProductSpecError) Error() string {
	return fmt.Sprintf("product spec %s is invalid: %s", e.ProductCode, strings.Join(e.Problems, "; "))
}

// MVADomainError reports benchmark index rates for which the MVA power is undefined.
type MVADomainError struct {
	InitialIndexRate decimal.Decimal
	CurrentIndexRate decimal.Decimal
}

func (e *MVADomainError) Error() string {
	return fmt.Sprintf("mva undefined for index rates X=%s Y=%s: 1+X and 1+Y must be positive",
		e.InitialIndexRate.String(), e.CurrentIndexRate.String())
}
