package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountView is the read-optimised projection of an account. It is the only
// shape the API ever returns and deliberately carries no email address and no
// security state.
type AccountView struct {
	ID              uuid.UUID  `json:"id"`
	DisplayName     string     `json:"displayName"`
	Score           int        `json:"score"`
	About           *string    `json:"about,omitempty"`
	Location        *string    `json:"location,omitempty"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	WebSiteURL      *string    `json:"webSiteUrl,omitempty"`
	ProfileImageURL *string    `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time  `json:"createdTimestamp"`
	UpdatedAt       time.Time  `json:"updatedTimestamp"`
}

// AccountToView projects an Account onto its public view.
func AccountToView(a *Account) *AccountView {
	return &AccountView{
		ID:              a.ID,
		DisplayName:     a.DisplayName,
		Score:           a.Score,
		About:           a.About,
		Location:        a.Location,
		BirthDate:       a.BirthDate,
		WebSiteURL:      a.WebSiteURL,
		ProfileImageURL: a.ProfileImageURL,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
