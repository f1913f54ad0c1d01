package accounts

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

var (
	errAlreadyLinked = api.New(http.StatusBadRequest, "ACCOUNT_ALREADY_LINKED",
		"An account for this provider is already linked.")
	errWrongProvider = api.New(http.StatusBadRequest, "WRONG_PROVIDER",
		"The provider is not supported for linking.")
	errLastAccount = api.New(http.StatusBadRequest, "LAST_ACCOUNT",
		"Cannot unlink the last remaining account.")
)

// UserDirectory is the slice of the user store the linking flow needs.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ChangeImage(ctx context.Context, id uuid.UUID, imageURL string) (*models.User, error)
}

type Service struct {
	store     *Store
	users     UserDirectory
	providers map[models.Provider]IdentityProvider
	logger    *zap.Logger
}

func NewService(store *Store, users UserDirectory, providers map[models.Provider]IdentityProvider, logger *zap.Logger) *Service {
	return &Service{store: store, users: users, providers: providers, logger: logger}
}

// BeginLink returns the provider's authorization URL, or fails when
// the provider is unknown or already linked to this user.
func (s *Service) BeginLink(ctx context.Context, user models.AuthUser, provider models.Provider) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", errWrongProvider
	}
	existing, err := s.store.FindByUserAndProvider(ctx, user.ID, provider)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", errAlreadyLinked
	}
	return p.AuthURL(user.ID.String()), nil
}

// CompleteLink exchanges the callback code, resolves the provider
// identity, and links the account to the user holding that email. The
// user's image is backfilled from the provider when empty.
func (s *Service) CompleteLink(ctx context.Context, user models.AuthUser, provider models.Provider, code string) (*models.Account, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, errWrongProvider
	}
	existing, err := s.store.FindByUserAndProvider(ctx, user.ID, provider)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errAlreadyLinked
	}

	identity, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	target, err := s.users.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, api.ErrUserNotFound
	}

	account := &models.Account{
		ID:         uuid.New(),
		UserID:     target.ID,
		Provider:   provider,
		ProviderID: identity.ProviderID,
	}
	if err := s.store.InsertOne(ctx, account); err != nil {
		return nil, err
	}

	if target.ImageURL == "" && identity.ImageURL != "" {
		if _, err := s.users.ChangeImage(ctx, target.ID, identity.ImageURL); err != nil {
			s.logger.Warn("backfill user image", zap.Error(err))
		}
	}

	s.logger.Info("account linked",
		zap.String("user", target.ID.String()), zap.String("provider", string(provider)))
	return account, nil
}

// Unlink removes a provider account unless it is the user's last one.
func (s *Service) Unlink(ctx context.Context, user models.AuthUser, provider models.Provider) error {
	if !models.ValidProviders[provider] {
		return errWrongProvider
	}
	count, err := s.store.CountActive(ctx, user.ID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return errLastAccount
	}

	deleted, err := s.store.DeleteByUserAndProvider(ctx, user.ID, provider)
	if err != nil {
		return err
	}
	if !deleted {
		return api.NotFound("Account Not Found", "No linked account exists for this provider")
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	accounts, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts, nil
}
