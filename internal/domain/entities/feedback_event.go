package entities

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackEventType represents the type of feedback lifecycle event
type FeedbackEventType string

const (
	FeedbackEventCreated        FeedbackEventType = "feedback.created"
	FeedbackEventUpdated        FeedbackEventType = "feedback.updated"
	FeedbackEventAcknowledged   FeedbackEventType = "feedback.acknowledged"
	FeedbackEventRequestCreated FeedbackEventType = "feedback_request.created"
	FeedbackEventRequestClosed  FeedbackEventType = "feedback_request.closed"
)

// FeedbackEvent is published after a successful feedback mutation.
// FeedbackID or RequestID is set depending on the event type.
type FeedbackEvent struct {
	ID         string            `json:"id"`
	Type       FeedbackEventType `json:"type"`
	FeedbackID string            `json:"feedback_id,omitempty"`
	RequestID  int64             `json:"request_id,omitempty"`
	ManagerID  string            `json:"manager_id"`
	EmployeeID string            `json:"employee_id"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewFeedbackEvent creates an event about feedback f
func NewFeedbackEvent(eventType FeedbackEventType, f *Feedback) *FeedbackEvent {
	return &FeedbackEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		FeedbackID: f.ID,
		ManagerID:  f.ManagerID,
		EmployeeID: f.EmployeeID,
		Timestamp:  time.Now().UTC(),
	}
}

// NewFeedbackRequestEvent creates an event about request r
func NewFeedbackRequestEvent(eventType FeedbackEventType, r *FeedbackRequest) *FeedbackEvent {
	return &FeedbackEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		RequestID:  r.ID,
		ManagerID:  r.ManagerID,
		EmployeeID: r.EmployeeID,
		Timestamp:  time.Now().UTC(),
	}
}
