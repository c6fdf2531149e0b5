package model

import "time"

// Role is the closed set of account roles understood by the console.
type Role string

const (
	// RoleAdmin can manage users and everything an editor can.
	RoleAdmin Role = "admin"
	// RoleEditor can upload, edit and ingest documents.
	RoleEditor Role = "editor"
	// RoleViewer can browse documents and ask questions.
	RoleViewer Role = "viewer"
)

// ParseRole maps a raw role string onto the closed Role set.
// Unknown or empty values normalise to RoleViewer; ok is false in that case.
func ParseRole(s string) (role Role, ok bool) {
	switch Role(s) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return Role(s), true
	default:
		return RoleViewer, false
	}
}

// IsAdmin reports whether role is admin.
func IsAdmin(role Role) bool {
	return role == RoleAdmin
}

// IsEditor reports whether role may edit content (admin or editor).
func IsEditor(role Role) bool {
	return role == RoleAdmin || role == RoleEditor
}

// Satisfies reports whether a user holding r may access something gated by required.
// An empty requirement and the viewer requirement admit any authenticated role.
func (r Role) Satisfies(required Role) bool {
	switch required {
	case "":
		return true
	case RoleAdmin:
		return IsAdmin(r)
	case RoleEditor:
		return IsEditor(r)
	default:
		return true
	}
}

// Roles lists the assignable roles in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleViewer}
}

// User is the identity of the signed-in account as carried by the session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u != nil && IsAdmin(u.Role)
}

// IsEditor returns true if the user may edit content.
func (u *User) IsEditor() bool {
	return u != nil && IsEditor(u.Role)
}

// Account is a user record as managed on the Users page.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateAccountRequest is the body of POST /users.
type CreateAccountRequest struct {
	Username string `json:"username" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role" validate:"required,oneof=admin editor viewer"`
}

// UpdateAccountRequest is the body of PATCH /users/{id}. Empty fields are not sent.
type UpdateAccountRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=admin editor viewer"`
}

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration holds the sign-up form fields.
type Registration struct {
	Username string `json:"username" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResult is returned by login, registration and token validation.
// Token may be empty on validation when the server does not renew it.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}
