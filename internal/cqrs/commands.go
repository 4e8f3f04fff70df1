package cqrs

import "time"

// UpdateAccountCommand updates the caller's own account. Pointer fields make
// the payload partial: nil means "leave unchanged", a non-nil value overwrites.
// Score is intentionally not a field here; it can never arrive from a client.
type UpdateAccountCommand struct {
	CallerEmail     string
	DisplayName     *string
	About           *string
	Location        *string
	BirthDate       *time.Time
	WebSiteURL      *string
	ProfileImageURL *string
}
