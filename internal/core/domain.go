package core

import (
	"errors"
	"fmt"
	"math"
)

type (
	// ProjectionInput holds the three values a projection is computed from.
	ProjectionInput struct {
		Principal          float64 `json:"principal"`
		MonthlyRatePercent float64 `json:"monthly_rate_percent"`
		TermMonths         int     `json:"term_months"`
	}

	// ProjectionPoint is the state of the deposit at the end of a given month.
	ProjectionPoint struct {
		Month               int     `json:"month"`
		Balance             float64 `json:"balance"`
		AccumulatedInterest float64 `json:"accumulated_interest"`
	}

	// ProjectionResult is the full month-by-month series plus its summary.
	ProjectionResult struct {
		Input         ProjectionInput   `json:"input"`
		Points        []ProjectionPoint `json:"points"`
		FinalBalance  float64           `json:"final_balance"`
		TotalInterest float64           `json:"total_interest"`
	}

	// Share is one part of the final amount.
	Share struct {
		Label   string  `json:"label"`
		Value   float64 `json:"value"`
		Percent float64 `json:"percent"`
	}

	// Composition splits the final amount into principal and interest.
	Composition struct {
		Principal Share `json:"principal"`
		Interest  Share `json:"interest"`
	}

	// ReferenceRate is a typical monthly rate shown next to the form as guidance.
	ReferenceRate struct {
		Name       string   `json:"name"`
		MinPercent *float64 `json:"min_percent,omitempty"`
		MaxPercent *float64 `json:"max_percent,omitempty"`
		Note       string   `json:"note,omitempty"`
	}
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Validate reports whether a projection can be computed for in.
// Zero rate and zero term are rejected on purpose, matching the calculator's
// long-standing behaviour.
func (in ProjectionInput) Validate() error {
	if math.IsNaN(in.Principal) || math.IsInf(in.Principal, 0) || in.Principal <= 0 {
		return fmt.Errorf("%w: principal must be greater than zero", ErrInvalidInput)
	}
	if math.IsNaN(in.MonthlyRatePercent) || math.IsInf(in.MonthlyRatePercent, 0) || in.MonthlyRatePercent <= 0 {
		return fmt.Errorf("%w: monthly rate must be greater than zero", ErrInvalidInput)
	}
	if in.TermMonths <= 0 {
		return fmt.Errorf("%w: term must be at least one month", ErrInvalidInput)
	}
	return nil
}

// Composition returns the principal/interest split of the final amount.
func (r ProjectionResult) Composition() Composition {
	c := Composition{
		Principal: Share{Label: "Valor Principal", Value: r.Input.Principal},
		Interest:  Share{Label: "Juros", Value: r.TotalInterest},
	}
	if r.FinalBalance > 0 {
		c.Principal.Percent = r.Input.Principal / r.FinalBalance * 100
		c.Interest.Percent = r.TotalInterest / r.FinalBalance * 100
	}
	return c
}

// Range renders the reference range as shown in the guidance box.
func (rr ReferenceRate) Range() string {
	switch {
	case rr.MinPercent == nil && rr.MaxPercent == nil:
		return "variável"
	case rr.MinPercent == nil:
		return "até " + FormatPercent(*rr.MaxPercent)
	case rr.MaxPercent == nil || *rr.MinPercent == *rr.MaxPercent:
		return "~" + FormatPercent(*rr.MinPercent)
	default:
		return FormatPercent(*rr.MinPercent) + " a " + FormatPercent(*rr.MaxPercent)
	}
}
