package entities

// Identity is the authenticated caller resolved from a bearer credential.
type Identity struct {
	ID        string  `json:"id"`
	Role      Role    `json:"role"`
	Email     string  `json:"email"`
	ManagerID *string `json:"manager_id,omitempty"`
}

// IsManager reports whether the caller is a manager
func (i *Identity) IsManager() bool {
	return i != nil && i.Role == RoleManager
}

// IsEmployee reports whether the caller is an employee
func (i *Identity) IsEmployee() bool {
	return i != nil && i.Role == RoleEmployee
}

// IdentityFromUser builds the identity for u.
func IdentityFromUser(u *User) *Identity {
	return &Identity{
		ID:        u.ID,
		Role:      u.Role,
		Email:     u.Email,
		ManagerID: u.ManagerID,
	}
}
