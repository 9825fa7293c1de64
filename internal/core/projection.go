// Package core holds the compound-interest projection engine and the money
// helpers shared by the presentation layer.
//
// All computation runs on float64. Rounding to cents happens only when a
// value is formatted for display.
package core

import (
	"fmt"
	"math"
)

// ComputeFinalAmount returns principal * (1 + monthlyRatePercent/100) ^ termMonths.
func ComputeFinalAmount(principal, monthlyRatePercent float64, termMonths int) (float64, error) {
	in := ProjectionInput{Principal: principal, MonthlyRatePercent: monthlyRatePercent, TermMonths: termMonths}
	if err := in.Validate(); err != nil {
		return 0, err
	}
	amount := balanceAt(principal, monthlyRatePercent/100, termMonths)
	if math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: final amount overflows", ErrInvalidInput)
	}
	return amount, nil
}

// ComputeProjection returns the balance and accumulated interest for every
// month in [0, termMonths], plus the summary of the last month.
func ComputeProjection(principal, monthlyRatePercent float64, termMonths int) (ProjectionResult, error) {
	in := ProjectionInput{Principal: principal, MonthlyRatePercent: monthlyRatePercent, TermMonths: termMonths}
	if err := in.Validate(); err != nil {
		return ProjectionResult{}, err
	}

	rate := monthlyRatePercent / 100
	points := make([]ProjectionPoint, 0, termMonths+1)
	for month := 0; month <= termMonths; month++ {
		balance := balanceAt(principal, rate, month)
		if math.IsInf(balance, 0) {
			return ProjectionResult{}, fmt.Errorf("%w: balance overflows at month %d", ErrInvalidInput, month)
		}
		points = append(points, ProjectionPoint{
			Month:               month,
			Balance:             balance,
			AccumulatedInterest: balance - principal,
		})
	}

	final := points[len(points)-1].Balance
	return ProjectionResult{
		Input:         in,
		Points:        points,
		FinalBalance:  final,
		TotalInterest: final - principal,
	}, nil
}

// Project is ComputeProjection for an already assembled input.
func Project(in ProjectionInput) (ProjectionResult, error) {
	return ComputeProjection(in.Principal, in.MonthlyRatePercent, in.TermMonths)
}

func balanceAt(principal, rate float64, month int) float64 {
	if month == 0 {
		return principal
	}
	return principal * math.Pow(1+rate, float64(month))
}
