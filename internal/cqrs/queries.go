package cqrs

import "github.com/google/uuid"

// GetAccountQuery fetches a single account projection by ID. This is a public
// lookup: there is no requesting-user field and no ownership check.
type GetAccountQuery struct {
	AccountID uuid.UUID
}
