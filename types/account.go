package types

// Role is the account-level authorization designation.
type Role string

// Supported roles. RoleAdmin overrides project and task membership checks.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string to a Role. Anything other than
// "admin" is a regular user, including the empty string.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Account represents a sign-in identity.
// It is created at sign-up and never modified by the program afterwards.
type Account struct {
	// Username is the unique login name chosen by the user.
	Username string `json:"username"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// It is never written to logs.
	PasswordHash string `json:"-"`

	// Email is the user's email address.
	Email string `json:"email"`

	// Role indicates the account's authorization level.
	Role Role `json:"role"`
}

// IsAdmin reports whether the account holds the admin role.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
