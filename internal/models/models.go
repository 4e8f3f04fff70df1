package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the persisted identity record. The identity store owns email
// uniqueness, password hashing and confirmation/lockout state; nothing in the
// service mutates those fields. Score is adjusted only by vote events.
type Account struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"-"`
	DisplayName     string     `json:"displayName"`
	Score           int        `json:"score"`
	About           *string    `json:"about,omitempty"`
	Location        *string    `json:"location,omitempty"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	WebSiteURL      *string    `json:"webSiteUrl,omitempty"`
	ProfileImageURL *string    `json:"profileImageUrl,omitempty"`
	PasswordHash    string     `json:"-"`
	EmailConfirmed  bool       `json:"-"`
	LockoutEnd      *time.Time `json:"-"`
	CreatedAt       time.Time  `json:"createdTimestamp"`
	UpdatedAt       time.Time  `json:"updatedTimestamp"`
}
