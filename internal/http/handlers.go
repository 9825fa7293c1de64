package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"juros/internal/core"
	applog "juros/internal/log"
)

const catalogTimeout = 3 * time.Second

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx := r.Context()
	logger := applog.FromContext(ctx)
	if s.templates == nil {
		logger.ErrorContext(ctx, "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	page := indexPage{Form: defaultForm()}

	cctx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()
	list, err := s.catalog.List(cctx)
	if err != nil {
		logger.ErrorContext(ctx, "Reference rates unavailable",
			applog.FieldOperation, applog.OpList,
			applog.FieldError, err.Error())
		page.RatesError = msgRatesUnavailable
	} else {
		page.Rates = newRateViews(list)
	}

	// The first render shows the defaults without counting as a simulation.
	if res, err := core.Project(core.DefaultInput()); err == nil {
		page.Result = newProjectionView(res)
	} else {
		page.ResultError = msgInternal
	}

	s.render(w, r, "index.html", page)
}

// handleProjection renders the result partial for the htmx form.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx := r.Context()
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Unreadable projection request",
			applog.FieldOperation, applog.OpParse,
			applog.FieldError, err.Error())
		BadRequestError(msgUnparseable).Write(w)
		return
	}

	in, err := ParseProjectionInput(parser.Get)
	if err != nil {
		msg, _ := parseErrorMessage(err)
		if errors.Is(err, ErrAboveLimits) {
			WarningResponse(http.StatusUnprocessableEntity, msg).Write(w)
			return
		}
		BadRequestError(msg).Write(w)
		return
	}

	res, err := s.service.Project(ctx, in)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			WarningResponse(http.StatusUnprocessableEntity, msgInvalidValues+" "+msgPositiveHint).
				TriggerWarningNotification(msgInvalidValues).
				Write(w)
			return
		}
		applog.NewStructuredLogger(applog.FromContext(ctx)).
			LogError(ctx, "Projection failed", err, applog.ComponentProjection, applog.OpCompute, applog.NewFields())
		InternalServerError(msgInternal).Write(w)
		return
	}

	if s.templates == nil {
		InternalServerError(msgInternal).Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "projection.html", newProjectionView(res)); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Template execution failed",
			applog.FieldOperation, applog.OpRender,
			"template", "projection.html",
			applog.FieldError, err.Error())
		InternalServerError(msgInternal).Write(w)
		return
	}

	NewHTMXResponse().
		Header("Content-Type", "text/html; charset=utf-8").
		Body(buf.Bytes()).
		TriggerProjectionComputed(res.FinalBalance, res.TotalInterest, res.Input.TermMonths).
		Write(w)
}

func (s *Server) handleAPIProjection(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	q := r.URL.Query()
	in, err := ParseProjectionInput(func(key string) string { return sanitizeInput(q.Get(key)) })
	if err != nil {
		msg, field := parseErrorMessage(err)
		status := http.StatusBadRequest
		if errors.Is(err, ErrAboveLimits) {
			status = http.StatusUnprocessableEntity
		}
		writeJSONError(w, status, msg, field)
		return
	}

	res, err := s.service.Project(r.Context(), in)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			writeJSONError(w, http.StatusUnprocessableEntity, msgInvalidValues, "")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, msgInternal, "")
		return
	}
	writeJSON(w, http.StatusOK, newAPIProjection(res))
}

func (s *Server) handleReferenceRates(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogTimeout)
	defer cancel()
	list, err := s.catalog.List(ctx)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Reference rates unavailable",
			applog.FieldOperation, applog.OpList,
			applog.FieldError, err.Error())
		writeJSONError(w, http.StatusServiceUnavailable, msgRatesUnavailable, "")
		return
	}

	out := make([]apiReferenceRate, 0, len(list))
	for _, rr := range list {
		out = append(out, apiReferenceRate{ReferenceRate: rr, Range: rr.Range()})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady verifies templates, the rate catalog and any extra checks.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)
	fail := func(name string, err error) {
		checks[name] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	if s.templates == nil {
		fail("templates", errors.New("templates not loaded"))
	} else {
		checks["templates"] = "ok"
	}

	if _, err := s.catalog.List(ctx); err != nil {
		fail("reference_rates", err)
	} else {
		checks["reference_rates"] = "ok"
	}

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			fail(name, err)
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	rateLimitMetrics := s.rateLimitMetrics.GetMetrics()
	stats := s.service.Stats()

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_server_errors_total Responses with a 5xx status\n")
	fmt.Fprintf(w, "# TYPE http_server_errors_total counter\n")
	fmt.Fprintf(w, "http_server_errors_total %d\n\n", traceMetrics.ServerErrors)

	fmt.Fprintf(w, "# HELP http_response_time_avg_ms Average response time in milliseconds\n")
	fmt.Fprintf(w, "# TYPE http_response_time_avg_ms gauge\n")
	fmt.Fprintf(w, "http_response_time_avg_ms %.3f\n\n", float64(traceMetrics.AverageResponseTime.Microseconds())/1000)

	fmt.Fprintf(w, "# HELP projections_computed_total Projections computed successfully\n")
	fmt.Fprintf(w, "# TYPE projections_computed_total counter\n")
	fmt.Fprintf(w, "projections_computed_total %d\n\n", stats.Computed)

	fmt.Fprintf(w, "# HELP projections_rejected_total Projections rejected by validation\n")
	fmt.Fprintf(w, "# TYPE projections_rejected_total counter\n")
	fmt.Fprintf(w, "projections_rejected_total %d\n\n", stats.Rejected)

	fmt.Fprintf(w, "# HELP projection_events_failed_total Projection events that could not be published\n")
	fmt.Fprintf(w, "# TYPE projection_events_failed_total counter\n")
	fmt.Fprintf(w, "projection_events_failed_total %d\n\n", stats.PublishFailures)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.Rejected)

	fmt.Fprintf(w, "# HELP rate_limit_store_errors_total Requests let through because the limiter store failed\n")
	fmt.Fprintf(w, "# TYPE rate_limit_store_errors_total counter\n")
	fmt.Fprintf(w, "rate_limit_store_errors_total %d\n\n", rateLimitMetrics.StoreError)

	if s.activeClients != nil {
		fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
		fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
		fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", s.activeClients())
	}

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", s.securityDetector.SuspiciousRequests())

	if s.cacheStats != nil {
		cs := s.cacheStats()
		fmt.Fprintf(w, "# HELP cache_hits_total Reference rate cache hits\n")
		fmt.Fprintf(w, "# TYPE cache_hits_total counter\n")
		fmt.Fprintf(w, "cache_hits_total %d\n\n", cs.Hits)

		fmt.Fprintf(w, "# HELP cache_misses_total Reference rate cache misses\n")
		fmt.Fprintf(w, "# TYPE cache_misses_total counter\n")
		fmt.Fprintf(w, "cache_misses_total %d\n\n", cs.Misses)

		fmt.Fprintf(w, "# HELP cache_entries Current cache entries\n")
		fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
		fmt.Fprintf(w, "cache_entries %d\n\n", cs.Size)
	}

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.started).Seconds())
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender,
			"template", name,
			applog.FieldError, err.Error())
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
