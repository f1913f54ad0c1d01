package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/config"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

// Identity is what a provider tells us about the authenticated user.
type Identity struct {
	ProviderID string
	Email      string
	ImageURL   string
}

// IdentityProvider wraps one OAuth provider's authorize/exchange flow.
type IdentityProvider interface {
	Name() models.Provider
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// NewProviders builds the provider set from config. Providers with no
// configured client ID are left out; linking them responds
// WRONG_PROVIDER.
func NewProviders(cfg *config.Config) map[models.Provider]IdentityProvider {
	providers := make(map[models.Provider]IdentityProvider)
	if cfg.GoogleClientID != "" {
		providers[models.ProviderGoogle] = &googleProvider{config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}}
	}
	if cfg.DiscordClientID != "" {
		providers[models.ProviderDiscord] = &discordProvider{config: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email"},
			Endpoint:     discordEndpoint,
		}}
	}
	return providers
}

func fetchJSON(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, url string, dst interface{}) error {
	client := cfg.Client(ctx, token)
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("fetch identity: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch identity: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// ── Google ──────────────────────────────────────────────────────────

type googleProvider struct {
	config *oauth2.Config
}

func (p *googleProvider) Name() models.Provider {
	return models.ProviderGoogle
}

func (p *googleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange google code: %w", err)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := fetchJSON(ctx, p.config, token, "https://www.googleapis.com/oauth2/v2/userinfo", &info); err != nil {
		return nil, err
	}
	return &Identity{ProviderID: info.ID, Email: info.Email, ImageURL: info.Picture}, nil
}

// ── Discord ─────────────────────────────────────────────────────────

type discordProvider struct {
	config *oauth2.Config
}

func (p *discordProvider) Name() models.Provider {
	return models.ProviderDiscord
}

func (p *discordProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *discordProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange discord code: %w", err)
	}

	var info struct {
		ID     string `json:"id"`
		Email  string `json:"email"`
		Avatar string `json:"avatar"`
	}
	if err := fetchJSON(ctx, p.config, token, "https://discord.com/api/users/@me", &info); err != nil {
		return nil, err
	}

	imageURL := ""
	if info.Avatar != "" {
		imageURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", info.ID, info.Avatar)
	}
	return &Identity{ProviderID: info.ID, Email: info.Email, ImageURL: imageURL}, nil
}
