// Package http serves the simulator page, its htmx partials and the JSON API.
//
// This file reads simulation parameters from form, JSON and query input.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"juros/internal/core"
)

// Request field names shared by the form, the JSON body and the API query.
const (
	fieldPrincipal = "principal"
	fieldRate      = "rate"
	fieldTerm      = "term"
)

const maxBodyBytes = 16 << 10

// Simulator limits. The engine itself accepts any positive input; these keep
// a single request small enough to compute and render.
const (
	maxRequestPrincipal   = 1_000_000_000_000.0
	maxRequestRatePercent = 1000.0
	maxRequestTermMonths  = 1200 // 100 anos
)

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, the latter being what htmx sends.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads at most maxBodyBytes of the body once.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}
	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
		}
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// FieldError names the request field that could not be read.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

var errMissingField = errors.New("value is required")

// ErrAboveLimits marks a value larger than the simulator accepts.
var ErrAboveLimits = errors.New("value above simulator limits")

// ParseProjectionInput reads principal, rate and term through get. Only the
// syntax is checked here; ranges are left to core validation.
func ParseProjectionInput(get func(string) string) (core.ProjectionInput, error) {
	var in core.ProjectionInput

	raw := strings.TrimSpace(get(fieldPrincipal))
	if raw == "" {
		return in, &FieldError{Field: fieldPrincipal, Err: errMissingField}
	}
	principal, err := parseSigned(raw)
	if err != nil {
		return in, &FieldError{Field: fieldPrincipal, Err: err}
	}

	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(get(fieldRate)), "%"))
	if raw == "" {
		return in, &FieldError{Field: fieldRate, Err: errMissingField}
	}
	rate, err := parseSigned(raw)
	if err != nil {
		return in, &FieldError{Field: fieldRate, Err: err}
	}

	raw = strings.TrimSpace(get(fieldTerm))
	if raw == "" {
		return in, &FieldError{Field: fieldTerm, Err: errMissingField}
	}
	term, err := core.ParseTerm(raw)
	if err != nil {
		return in, &FieldError{Field: fieldTerm, Err: err}
	}

	in.Principal = principal
	in.MonthlyRatePercent = rate
	in.TermMonths = term
	return in, checkLimits(in)
}

// checkLimits only looks at upper bounds; non-positive values are left to
// core validation.
func checkLimits(in core.ProjectionInput) error {
	switch {
	case in.Principal > maxRequestPrincipal:
		return &FieldError{Field: fieldPrincipal, Err: ErrAboveLimits}
	case in.MonthlyRatePercent > maxRequestRatePercent:
		return &FieldError{Field: fieldRate, Err: ErrAboveLimits}
	case in.TermMonths > maxRequestTermMonths:
		return &FieldError{Field: fieldTerm, Err: ErrAboveLimits}
	}
	return nil
}

// parseSigned lets a leading minus through so that negative amounts reach
// validation and get the same answer as zero.
func parseSigned(raw string) (float64, error) {
	if rest, ok := strings.CutPrefix(raw, "-"); ok {
		v, err := core.ParseDecimal(rest)
		return -v, err
	}
	return core.ParseDecimal(raw)
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}
