package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"juros/internal/core"
)

func TestParseProjectionInput(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		want      core.ProjectionInput
		wantField string
		wantLimit bool
	}{
		{
			name:   "plain values",
			values: url.Values{"principal": {"1000"}, "rate": {"5"}, "term": {"12"}},
			want:   core.ProjectionInput{Principal: 1000, MonthlyRatePercent: 5, TermMonths: 12},
		},
		{
			name:   "brazilian format with percent sign",
			values: url.Values{"principal": {"R$ 1.234,56"}, "rate": {"0,75 %"}, "term": {" 24 "}},
			want:   core.ProjectionInput{Principal: 1234.56, MonthlyRatePercent: 0.75, TermMonths: 24},
		},
		{
			name:   "negative values pass through to validation",
			values: url.Values{"principal": {"-50"}, "rate": {"-1,5"}, "term": {"-3"}},
			want:   core.ProjectionInput{Principal: -50, MonthlyRatePercent: -1.5, TermMonths: -3},
		},
		{
			name:   "zero is syntactically valid",
			values: url.Values{"principal": {"0"}, "rate": {"0"}, "term": {"0"}},
			want:   core.ProjectionInput{},
		},
		{
			name:   "values at the simulator limits",
			values: url.Values{"principal": {"1000000000000"}, "rate": {"1000"}, "term": {"1200"}},
			want:   core.ProjectionInput{Principal: 1e12, MonthlyRatePercent: 1000, TermMonths: 1200},
		},
		{
			name:      "term above the simulator limit",
			values:    url.Values{"principal": {"1000"}, "rate": {"1"}, "term": {"1500"}},
			wantField: fieldTerm,
			wantLimit: true,
		},
		{
			name:      "principal above the simulator limit",
			values:    url.Values{"principal": {"2000000000000"}, "rate": {"1"}, "term": {"12"}},
			wantField: fieldPrincipal,
			wantLimit: true,
		},
		{
			name:      "missing principal",
			values:    url.Values{"rate": {"5"}, "term": {"12"}},
			wantField: fieldPrincipal,
		},
		{
			name:      "garbage rate",
			values:    url.Values{"principal": {"1000"}, "rate": {"five"}, "term": {"12"}},
			wantField: fieldRate,
		},
		{
			name:      "fractional term",
			values:    url.Values{"principal": {"1000"}, "rate": {"5"}, "term": {"1.5"}},
			wantField: fieldTerm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProjectionInput(tt.values.Get)
			if tt.wantField != "" {
				var fe *FieldError
				if !errors.As(err, &fe) {
					t.Fatalf("expected FieldError, got %v", err)
				}
				if fe.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", fe.Field, tt.wantField)
				}
				if errors.Is(err, ErrAboveLimits) != tt.wantLimit {
					t.Errorf("ErrAboveLimits = %v, want %v", errors.Is(err, ErrAboveLimits), tt.wantLimit)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantJSON    bool
		wantErr     bool
		want        map[string]string
	}{
		{
			name:        "form data",
			body:        "principal=1000&rate=5&term=12",
			contentType: "application/x-www-form-urlencoded",
			want:        map[string]string{"principal": "1000", "rate": "5", "term": "12"},
		},
		{
			name:        "json with numbers and strings",
			body:        `{"principal": 1500.5, "rate": "0,5", "term": 6}`,
			contentType: "application/json",
			wantJSON:    true,
			want:        map[string]string{"principal": "1500.5", "rate": "0,5", "term": "6"},
		},
		{
			name:        "control characters are stripped",
			body:        "principal=10%0000&rate=5",
			contentType: "application/x-www-form-urlencoded",
			want:        map[string]string{"principal": "1000", "term": ""},
		},
		{
			name:        "broken json",
			body:        `{"principal": `,
			contentType: "application/json",
			wantErr:     true,
		},
		{
			name: "empty body",
			want: map[string]string{"principal": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/projection", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			p := NewRequestBodyParser(req)
			err := p.Parse()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
			for k, v := range tt.want {
				if got := p.Get(k); got != v {
					t.Errorf("Get(%q) = %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if RequirePOST(req) != nil {
		t.Error("POST should be allowed")
	}

	resp := RequireGET(req)
	if resp == nil {
		t.Fatal("POST should be rejected by RequireGET")
	}
	w := httptest.NewRecorder()
	resp.Write(w)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", w.Code)
	}
	if got := w.Header().Get("Allow"); got != "GET, HEAD" {
		t.Errorf("Allow = %q", got)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  12\x00\x07,5\t "); got != "12,5" {
		t.Errorf("sanitizeInput = %q", got)
	}
}
