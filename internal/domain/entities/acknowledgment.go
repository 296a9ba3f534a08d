package entities

import "time"

// Acknowledgment records that the recipient has read a feedback item.
// There is at most one per feedback.
type Acknowledgment struct {
	ID             int64     `json:"id" db:"id"`
	FeedbackID     string    `json:"feedback_id" db:"feedback_id"`
	EmployeeID     string    `json:"employee_id" db:"employee_id"`
	Acknowledged   bool      `json:"acknowledged" db:"acknowledged"`
	Comment        *string   `json:"comment,omitempty" db:"comment"`
	AcknowledgedAt time.Time `json:"acknowledged_at" db:"acknowledged_at"`
}
