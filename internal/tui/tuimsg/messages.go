// Package tuimsg holds the messages exchanged between the root TUI model and its scenes.
package tuimsg

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/myga/internal/domain"
)

// RunLoadedMsg signals the run file has been parsed and validated
type RunLoadedMsg struct {
	Path   string
	Config *domain.RunConfiguration
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// RecalculateMsg asks the root model to revalue the run at a new CARVM discount rate.
type RecalculateMsg struct {
	DiscountRate decimal.Decimal
}

// ReserveStartedMsg signals a CARVM valuation has begun
type ReserveStartedMsg struct {
	DiscountRate decimal.Decimal
}

// ReserveComputedMsg carries a finished valuation.
type ReserveComputedMsg struct {
	DiscountRate decimal.Decimal
	Result       *domain.CARVMResult
	Err          error
}
