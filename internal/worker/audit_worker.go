// Package worker consumes projection events and keeps running aggregates.
package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"juros/internal/amqp"
	"juros/internal/cache"
	applog "juros/internal/log"
)

const (
	seenCapacity = 10_000
	seenTTL      = time.Hour
)

// Report is a snapshot of everything seen since the worker started.
type Report struct {
	Count              int64
	Duplicates         int64
	MeanRatePercent    float64
	MeanTermMonths     float64
	LargestFinalAmount float64
	LastEventAt        time.Time
}

// AuditWorker aggregates ProjectionComputed events. Redelivered messages are
// recognised by ID and counted once.
type AuditWorker struct {
	logger *applog.Logger
	seen   *cache.LRUCache[struct{}]

	mu         sync.Mutex
	count      int64
	duplicates int64
	sumRate    float64
	sumTerm    float64
	largest    float64
	lastAt     time.Time
}

func NewAuditWorker(logger *applog.Logger) *AuditWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	return &AuditWorker{
		logger: logger.WithComponent(applog.ComponentWorker),
		seen:   cache.NewLRUCache[struct{}](seenCapacity, seenTTL),
	}
}

var errInvalidEvent = errors.New("invalid projection event")

// Handle records one event. It matches amqp.Handler.
func (w *AuditWorker) Handle(ctx context.Context, msg *amqp.ProjectionComputedMessage) error {
	if msg.TermMonths <= 0 || math.IsNaN(msg.FinalBalance) || math.IsInf(msg.FinalBalance, 0) {
		// Requeueing a bad event would loop forever, so it is logged and acknowledged.
		w.logger.WarnContext(ctx, "Ignoring invalid projection event",
			applog.FieldMessageID, msg.ID,
			applog.FieldError, fmt.Errorf("%w: term=%d", errInvalidEvent, msg.TermMonths).Error())
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, dup := w.seen.Get(msg.ID); dup {
		w.duplicates++
		return nil
	}
	w.seen.Set(msg.ID, struct{}{})

	w.count++
	w.sumRate += msg.MonthlyRatePercent
	w.sumTerm += float64(msg.TermMonths)
	w.largest = math.Max(w.largest, msg.FinalBalance)
	w.lastAt = msg.Timestamp

	w.logger.DebugContext(ctx, "Projection event recorded",
		applog.FieldMessageID, msg.ID,
		applog.FieldTerm, msg.TermMonths,
		applog.FieldFinalBalance, msg.FinalBalance)
	return nil
}

func (w *AuditWorker) Report() Report {
	w.mu.Lock()
	defer w.mu.Unlock()

	r := Report{
		Count:              w.count,
		Duplicates:         w.duplicates,
		LargestFinalAmount: w.largest,
		LastEventAt:        w.lastAt,
	}
	if w.count > 0 {
		r.MeanRatePercent = w.sumRate / float64(w.count)
		r.MeanTermMonths = w.sumTerm / float64(w.count)
	}
	return r
}

// RunReports logs the current report every interval until ctx ends.
func (w *AuditWorker) RunReports(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logReport(context.Background())
			return nil
		case <-ticker.C:
			w.logReport(ctx)
			w.seen.CleanExpired()
		}
	}
}

func (w *AuditWorker) logReport(ctx context.Context) {
	r := w.Report()
	w.logger.InfoContext(ctx, "Projection audit report",
		"count", r.Count,
		"duplicates", r.Duplicates,
		"mean_rate_percent", r.MeanRatePercent,
		"mean_term_months", r.MeanTermMonths,
		"largest_final_balance", r.LargestFinalAmount)
}
