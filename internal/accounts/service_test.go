package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/config"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

func TestNewProvidersSkipsUnconfigured(t *testing.T) {
	cfg := &config.Config{
		GoogleClientID:     "gid",
		GoogleClientSecret: "gsecret",
		GoogleRedirectURL:  "http://localhost:3030/api/v1/auth/accounts/google/callback",
	}
	providers := NewProviders(cfg)

	if _, ok := providers[models.ProviderGoogle]; !ok {
		t.Error("google provider should be configured")
	}
	if _, ok := providers[models.ProviderDiscord]; ok {
		t.Error("discord provider should be absent without a client ID")
	}
}

func TestProviderAuthURLs(t *testing.T) {
	cfg := &config.Config{
		GoogleClientID:      "gid",
		GoogleRedirectURL:   "http://localhost:3030/google/callback",
		DiscordClientID:     "did",
		DiscordRedirectURL:  "http://localhost:3030/discord/callback",
		GoogleClientSecret:  "s",
		DiscordClientSecret: "s",
	}
	providers := NewProviders(cfg)

	gurl := providers[models.ProviderGoogle].AuthURL("state-1")
	if !strings.Contains(gurl, "accounts.google.com") || !strings.Contains(gurl, "state-1") {
		t.Errorf("google auth URL = %q", gurl)
	}
	durl := providers[models.ProviderDiscord].AuthURL("state-2")
	if !strings.Contains(durl, "discord.com") || !strings.Contains(durl, "state-2") {
		t.Errorf("discord auth URL = %q", durl)
	}
}

func TestLinkRejectsUnknownProvider(t *testing.T) {
	s := NewService(nil, nil, map[models.Provider]IdentityProvider{}, zap.NewNop())
	user := models.AuthUser{Email: "jane@example.com"}

	if _, err := s.BeginLink(context.Background(), user, "github"); !errors.Is(err, errWrongProvider) {
		t.Errorf("BeginLink(github) = %v, want WRONG_PROVIDER", err)
	}
	if _, err := s.CompleteLink(context.Background(), user, "github", "code"); !errors.Is(err, errWrongProvider) {
		t.Errorf("CompleteLink(github) = %v, want WRONG_PROVIDER", err)
	}
}

func TestUnlinkRejectsInvalidProvider(t *testing.T) {
	s := NewService(nil, nil, nil, zap.NewNop())
	user := models.AuthUser{Email: "jane@example.com"}

	if err := s.Unlink(context.Background(), user, "github"); !errors.Is(err, errWrongProvider) {
		t.Errorf("Unlink(github) = %v, want WRONG_PROVIDER", err)
	}
}
