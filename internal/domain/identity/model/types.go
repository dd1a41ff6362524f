package model

import "time"

// Role enumerates the access levels resolved from the profile store.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Identity is the resolved, authenticated representation of the caller for
// the duration of one request. It is never cached across requests.
type Identity struct {
	SubjectID string         `json:"subject_id"`
	Email     string         `json:"email"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IssuedAt  time.Time      `json:"issued_at"`

	// Role is empty until the authorization gate annotates it.
	Role Role `json:"role,omitempty"`
}

// Logger provides the minimal logging contract required by the identity domain.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
