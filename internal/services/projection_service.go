// Package services orchestrates a simulation: compute, log, count and
// announce it.
package services

import (
	"context"
	"errors"
	"sync/atomic"

	"juros/internal/amqp"
	"juros/internal/core"
	applog "juros/internal/log"
	"juros/internal/middleware/trace"
)

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	PublishProjectionComputed(ctx context.Context, msg *amqp.ProjectionComputedMessage) error
}

// Stats are the service counters exposed on /metrics.
type Stats struct {
	Computed        int64
	Rejected        int64
	PublishFailures int64
}

type ProjectionService struct {
	publisher EventPublisher
	logger    *applog.Logger

	computed        atomic.Int64
	rejected        atomic.Int64
	publishFailures atomic.Int64
}

// NewProjectionService accepts a nil publisher, in which case no events are sent.
func NewProjectionService(publisher EventPublisher, logger *applog.Logger) *ProjectionService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ProjectionService{
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentProjection),
	}
}

// Project computes the month-by-month series for in. Validation failures are
// returned wrapped in core.ErrInvalidInput; publishing problems never are.
func (s *ProjectionService) Project(ctx context.Context, in core.ProjectionInput) (core.ProjectionResult, error) {
	sl := applog.NewStructuredLogger(applog.FromContext(ctx))

	res, err := core.Project(in)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			s.rejected.Add(1)
			sl.LogValidationFailure(ctx, in.Principal, in.MonthlyRatePercent, in.TermMonths, err)
		}
		return core.ProjectionResult{}, err
	}

	s.computed.Add(1)
	sl.LogProjectionComputed(ctx, in.Principal, in.MonthlyRatePercent, in.TermMonths, res.FinalBalance, res.TotalInterest)
	s.publish(ctx, res)
	return res, nil
}

func (s *ProjectionService) publish(ctx context.Context, res core.ProjectionResult) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewProjectionComputedMessage(res, trace.GetRequestID(ctx))
	if err := s.publisher.PublishProjectionComputed(ctx, msg); err != nil {
		s.publishFailures.Add(1)
		s.logger.WarnContext(ctx, "Failed to publish projection event",
			applog.FieldMessageID, msg.ID,
			applog.FieldError, err.Error())
	}
}

func (s *ProjectionService) Stats() Stats {
	return Stats{
		Computed:        s.computed.Load(),
		Rejected:        s.rejected.Load(),
		PublishFailures: s.publishFailures.Load(),
	}
}
