// Package model defines domain entities for the application.
package model

// AuthenticatedUser is the identity record resolved from a bearer token.
// It is owned by the identity service and never persisted by the relay.
type AuthenticatedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
