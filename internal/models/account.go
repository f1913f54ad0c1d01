package models

import (
	"time"

	"github.com/google/uuid"
)

type Provider string

const (
	ProviderGoogle  Provider = "google"
	ProviderDiscord Provider = "discord"
	ProviderLocal   Provider = "local"
)

var ValidProviders = map[Provider]bool{
	ProviderGoogle:  true,
	ProviderDiscord: true,
	ProviderLocal:   true,
}

// Account links a user to a credential source: either a local password
// or an OAuth provider identity.
type Account struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user"`
	Provider   Provider  `json:"provider"`
	ProviderID string    `json:"providerId,omitempty"`
	Password   string    `json:"-"`
	IsDeleted  bool      `json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
