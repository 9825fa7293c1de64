package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"juros/internal/core"
)

// ProjectionComputedMessage announces a successful simulation. It carries the
// inputs and headline results only; the monthly series is not shipped.
type ProjectionComputedMessage struct {
	ID                 string    `json:"id"`
	RequestID          string    `json:"request_id,omitempty"`
	Principal          float64   `json:"principal"`
	MonthlyRatePercent float64   `json:"monthly_rate_percent"`
	TermMonths         int       `json:"term_months"`
	FinalBalance       float64   `json:"final_balance"`
	TotalInterest      float64   `json:"total_interest"`
	Timestamp          time.Time `json:"timestamp"`
}

func NewProjectionComputedMessage(res core.ProjectionResult, requestID string) *ProjectionComputedMessage {
	return &ProjectionComputedMessage{
		ID:                 uuid.NewString(),
		RequestID:          requestID,
		Principal:          res.Input.Principal,
		MonthlyRatePercent: res.Input.MonthlyRatePercent,
		TermMonths:         res.Input.TermMonths,
		FinalBalance:       res.FinalBalance,
		TotalInterest:      res.TotalInterest,
		Timestamp:          time.Now().UTC(),
	}
}

func (m *ProjectionComputedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

var errMissingID = errors.New("message has no id")

// ProjectionComputedMessageFromJSON decodes and sanity-checks a message body.
func ProjectionComputedMessageFromJSON(data []byte) (*ProjectionComputedMessage, error) {
	var msg ProjectionComputedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errMissingID
	}
	return &msg, nil
}
