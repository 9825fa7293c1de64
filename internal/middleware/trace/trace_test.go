package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	applog "juros/internal/log"
)

func TestGenerateRequestID(t *testing.T) {
	re := regexp.MustCompile(`^req_[0-9a-f]{16}$`)
	a, b := GenerateRequestID(), GenerateRequestID()
	if !re.MatchString(a) {
		t.Errorf("unexpected request id %q", a)
	}
	if a == b {
		t.Error("request ids should differ")
	}
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Output: &buf})

	m := NewMiddleware(func(*http.Request) string { return "203.0.113.7" })
	var seenID string
	h := applog.Middleware(logger)(m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		if r.URL.Path == "/boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seenID == "" || rec.Header().Get(HeaderRequestID) != seenID {
		t.Errorf("request id not propagated: ctx=%q header=%q", seenID, rec.Header().Get(HeaderRequestID))
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	got := m.GetMetrics()
	if got.TotalRequests != 2 || got.ServerErrors != 1 {
		t.Errorf("GetMetrics() = %+v", got)
	}

	out := buf.String()
	if strings.Count(out, "HTTP request started") != 2 {
		t.Errorf("expected two start records: %s", out)
	}
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "status_code=500") {
		t.Errorf("server error should be logged at error level: %s", out)
	}
	if !strings.Contains(out, "request_id="+seenID) {
		t.Errorf("logs should carry the request id: %s", out)
	}
}
