package http

import (
	"errors"
	"html/template"
	"strings"

	"juros/internal/charts"
	"juros/internal/core"
)

// User-facing messages.
const (
	msgInvalidValues    = "Por favor, insira valores válidos (maiores que zero)."
	msgPositiveHint     = "Informe valores positivos para taxa e período."
	msgAboveLimits      = "Valores acima do limite do simulador: até R$ 1 trilhão, 1000% ao mês e 1200 meses."
	msgUnparseable      = "Não foi possível ler os valores informados."
	msgRateLimited      = "Muitas simulações em pouco tempo. Tente novamente em instantes."
	msgInternal         = "Erro interno. Tente novamente."
	msgRatesUnavailable = "Taxas de referência indisponíveis no momento."
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// fieldLabel names a request field the way the form does.
func fieldLabel(field string) string {
	switch field {
	case fieldPrincipal:
		return "Valor Inicial"
	case fieldRate:
		return "Taxa de Juros Mensal"
	case fieldTerm:
		return "Período"
	default:
		return field
	}
}

func parseErrorMessage(err error) (string, string) {
	var fe *FieldError
	if errors.As(err, &fe) {
		if errors.Is(fe, ErrAboveLimits) {
			return msgAboveLimits, fe.Field
		}
		return msgUnparseable + " Verifique o campo " + fieldLabel(fe.Field) + ".", fe.Field
	}
	return msgUnparseable, ""
}

var templateFuncs = template.FuncMap{
	"brl":     core.FormatBRL,
	"percent": core.FormatPercent,
	"half":    func(v float64) float64 { return v / 2 },
}

type formDefaults struct {
	Principal     float64
	RatePercent   float64
	TermMonths    int
	PrincipalStep float64
	RateStep      float64
	TermStep      int
	MinPrincipal  float64
	MinRate       float64
	MinTerm       int
}

func defaultForm() formDefaults {
	return formDefaults{
		Principal:     core.DefaultPrincipal,
		RatePercent:   core.DefaultMonthlyRatePercent,
		TermMonths:    core.DefaultTermMonths,
		PrincipalStep: core.PrincipalStep,
		RateStep:      core.RateStep,
		TermStep:      core.TermStep,
		MinPrincipal:  core.MinPrincipalInput,
		MinRate:       core.MinRateInput,
		MinTerm:       core.MinTermInput,
	}
}

type rateView struct {
	Name  string
	Range string
	Note  string
}

type tableRow struct {
	Month    int
	Balance  string
	Interest string
}

type projectionView struct {
	Principal     string
	TotalInterest string
	FinalBalance  string
	RateDelta     string
	TermMonths    int
	Rows          []tableRow

	LineTitle string
	Line      charts.LineLayout
	PieTitle  string
	Pie       charts.PieLayout
}

type indexPage struct {
	Form        formDefaults
	Rates       []rateView
	RatesError  string
	Result      *projectionView
	ResultError string
}

func newRateViews(list []core.ReferenceRate) []rateView {
	out := make([]rateView, 0, len(list))
	for _, rr := range list {
		out = append(out, rateView{Name: rr.Name, Range: rr.Range(), Note: rr.Note})
	}
	return out
}

func newProjectionView(res core.ProjectionResult) *projectionView {
	rows := make([]tableRow, 0, len(res.Points))
	for _, p := range res.Points {
		rows = append(rows, tableRow{
			Month:    p.Month,
			Balance:  core.FormatBRL(p.Balance),
			Interest: core.FormatBRL(p.AccumulatedInterest),
		})
	}

	line := charts.NewProjectionLineChart(res)
	pie := charts.NewCompositionPie(res)
	return &projectionView{
		Principal:     core.FormatBRL(res.Input.Principal),
		TotalInterest: core.FormatBRL(res.TotalInterest),
		FinalBalance:  core.FormatBRL(res.FinalBalance),
		RateDelta:     core.FormatPercent(res.Input.MonthlyRatePercent) + " ao mês",
		TermMonths:    res.Input.TermMonths,
		Rows:          rows,
		LineTitle:     line.Title,
		Line:          line.Layout(),
		PieTitle:      pie.Title,
		Pie:           pie.Layout(),
	}
}

type apiProjection struct {
	Input         core.ProjectionInput   `json:"input"`
	Points        []core.ProjectionPoint `json:"points"`
	FinalBalance  float64                `json:"final_balance"`
	TotalInterest float64                `json:"total_interest"`
	Composition   core.Composition       `json:"composition"`
}

func newAPIProjection(res core.ProjectionResult) apiProjection {
	return apiProjection{
		Input:         res.Input,
		Points:        res.Points,
		FinalBalance:  res.FinalBalance,
		TotalInterest: res.TotalInterest,
		Composition:   res.Composition(),
	}
}

type apiReferenceRate struct {
	core.ReferenceRate
	Range string `json:"range"`
}
