package domain

import "time"

// Credential is a subject's stored password hash in "{id}hash" form.
type Credential struct {
	Subject      string
	PasswordHash string
	UpdatedAt    time.Time
}
