package entities

import (
	"strings"
	"time"
)

// Role distinguishes managers, who author feedback, from employees, who receive it.
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleEmployee
}

// User represents a manager or an employee.
// ManagerID is only meaningful for employees; nil means unassigned.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Role         Role      `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	ManagerID    *string   `json:"manager_id,omitempty" db:"manager_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsManager reports whether the user has the manager role
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// IsEmployee reports whether the user has the employee role
func (u *User) IsEmployee() bool {
	return u.Role == RoleEmployee
}

// ReportsTo reports whether u is an employee assigned to managerID.
func (u *User) ReportsTo(managerID string) bool {
	return u.IsEmployee() && u.ManagerID != nil && *u.ManagerID == managerID
}

// NormalizeEmail is applied to every email before storage or lookup,
// which makes email matching case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
