// Package core provides money parsing and formatting utilities.
//
// This file contains the functions that turn form input into float64 values
// and render amounts in the Brazilian "R$ 1.234,56" style.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseDecimal converts a user-entered amount to a float64.
//
// Both decimal separators are accepted. When a value carries both, the
// rightmost one is the decimal separator and the other groups thousands. When
// only one kind appears more than once it is treated as a thousands separator.
// A single separator is decimal, except that a value written with the "R$"
// prefix and a lone "." followed by exactly three digits is grouped thousands.
// Signed values are rejected; zero is accepted and left to validation.
//
// Examples:
//   ParseDecimal("1000")      -> 1000, nil
//   ParseDecimal("1000,50")   -> 1000.5, nil
//   ParseDecimal("1.000,50")  -> 1000.5, nil
//   ParseDecimal("1,000.50")  -> 1000.5, nil
//   ParseDecimal("1.000.000") -> 1000000, nil
//   ParseDecimal("1.000")     -> 1, nil
//   ParseDecimal("R$ 1.000")  -> 1000, nil
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	brl := strings.HasPrefix(s, "R$")
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	intPart, fracPart, ok := splitDecimal(s, brl)
	if !ok {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	normalized := intPart
	if fracPart != "" {
		normalized += "." + fracPart
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// splitDecimal separates the integer and fractional parts, dropping
// thousands separators from the integer part. It reports false when the
// grouping is malformed. brl makes "1.000" read as one thousand.
func splitDecimal(s string, brl bool) (string, string, bool) {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	var decSep, groupSep string
	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			decSep, groupSep = ",", "."
		} else {
			decSep, groupSep = ".", ","
		}
	case commas == 1:
		decSep = ","
	case dots == 1 && brl && len(s)-strings.Index(s, ".") == 4:
		groupSep = "."
	case dots == 1:
		decSep = "."
	case commas > 1:
		groupSep = ","
	case dots > 1:
		groupSep = "."
	}

	intPart, fracPart := s, ""
	if decSep != "" {
		parts := strings.Split(s, decSep)
		if len(parts) != 2 {
			return "", "", false
		}
		intPart, fracPart = parts[0], parts[1]
	}
	if groupSep != "" {
		groups := strings.Split(intPart, groupSep)
		for i, g := range groups {
			if (i == 0 && (len(g) == 0 || len(g) > 3)) || (i > 0 && len(g) != 3) {
				return "", "", false
			}
		}
		intPart = strings.Join(groups, "")
	}
	return intPart, fracPart, true
}

// ParseTerm converts a user-entered number of months.
func ParseTerm(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return n, nil
}

// FormatBRL renders v as "R$ 1.234,56", rounding half away from zero.
func FormatBRL(v float64) string {
	return formatCurrency(v, 2)
}

// FormatBRLWhole renders v without cents, for chart axes.
func FormatBRLWhole(v float64) string {
	return formatCurrency(v, 0)
}

// FormatPercent renders v as "5,00%".
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return strings.Replace(decimal.NewFromFloat(v).StringFixed(2), ".", ",", 1) + "%"
}

func formatCurrency(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "R$ -"
	}
	d := decimal.NewFromFloat(v).Round(places)
	s := "R$ " + groupThousands(d.Abs().StringFixed(places))
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

func groupThousands(fixed string) string {
	intPart, frac, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
