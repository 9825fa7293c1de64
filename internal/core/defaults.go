package core

const (
	DefaultPrincipal          = 1000.0
	DefaultMonthlyRatePercent = 5.0
	DefaultTermMonths         = 12

	PrincipalStep = 100.0
	RateStep      = 0.5
	TermStep      = 1

	MinPrincipalInput = 0.0
	MinRateInput      = 0.0
	MinTermInput      = 1
)

// DefaultInput is the form state shown on first load.
func DefaultInput() ProjectionInput {
	return ProjectionInput{
		Principal:          DefaultPrincipal,
		MonthlyRatePercent: DefaultMonthlyRatePercent,
		TermMonths:         DefaultTermMonths,
	}
}

func ptr(v float64) *float64 { return &v }

// DefaultReferenceRates lists the typical monthly returns of common Brazilian
// investments. Stocks have no fixed range and can be negative.
func DefaultReferenceRates() []ReferenceRate {
	return []ReferenceRate{
		{Name: "Poupança", MinPercent: ptr(0.5), MaxPercent: ptr(0.5)},
		{Name: "CDB", MinPercent: ptr(0.8), MaxPercent: ptr(1.2)},
		{Name: "Tesouro Direto", MinPercent: ptr(0.6), MaxPercent: ptr(1.0)},
		{Name: "Ações", Note: "podendo ser negativa"},
	}
}
