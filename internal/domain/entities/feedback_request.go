package entities

import "time"

// FeedbackRequest is an employee's prompt asking their manager for feedback.
// ManagerID is copied from the employee's assignment when the request is made.
type FeedbackRequest struct {
	ID         int64      `json:"id" db:"id"`
	EmployeeID string     `json:"employee_id" db:"employee_id"`
	ManagerID  string     `json:"manager_id" db:"manager_id"`
	Message    *string    `json:"message,omitempty" db:"message"`
	IsOpen     bool       `json:"is_open" db:"is_open"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty" db:"closed_at"`
}
