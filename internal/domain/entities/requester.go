package entities

import "strings"

// Requester is the authenticated user on whose behalf an operation runs.
// Identity is established upstream; this service only reads the token claims.
type Requester struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

func (r Requester) IsZero() bool {
	return strings.TrimSpace(r.ID) == ""
}

func (r Requester) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}
