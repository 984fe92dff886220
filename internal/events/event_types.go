package events

import (
	"time"

	"github.com/acidni/intake-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionAccepted EventType = "submission_accepted"
	EventSubmissionRejected EventType = "submission_rejected"
	EventTicketDispatched   EventType = "ticket_dispatched"
)

// Event represents a pipeline event emitted while processing a submission.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Kind      domain.Kind `json:"kind"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// SubmissionAcceptedPayload payload.
type SubmissionAcceptedPayload struct {
	Subject  string  `json:"subject"`
	App      string  `json:"app,omitempty"`
	BotScore float64 `json:"bot_score,omitempty"`
}

// SubmissionRejectedPayload payload.
type SubmissionRejectedPayload struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// TicketDispatchedPayload payload.
type TicketDispatchedPayload struct {
	WorkItemID int  `json:"work_item_id,omitempty"`
	EmailSent  bool `json:"email_sent"`
}
