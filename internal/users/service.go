package users

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/accounts"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/auth"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/session"
)

// A user row can only be edited this often; change-image is exempt.
const updateThrottle = 30 * 24 * time.Hour

var (
	errEmailTaken  = api.New(http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists.")
	errUpdateLimit = api.New(http.StatusUnauthorized, "UPDATE_LIMIT_REACHED",
		"Your profile was updated recently. Please wait before updating again.")
	errDeactivated = api.New(http.StatusUnauthorized, "ACCOUNT_DEACTIVATED",
		"This account is deactivated. Activate it to continue.")
)

type Service struct {
	db       *sql.DB
	store    *Store
	accounts *accounts.Store
	profiles ProfileRegistry
	sessions *session.Store
	secret   []byte
	logger   *zap.Logger
}

func NewService(db *sql.DB, store *Store, accountStore *accounts.Store, profiles ProfileRegistry, sessions *session.Store, secret []byte, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		store:    store,
		accounts: accountStore,
		profiles: profiles,
		sessions: sessions,
		secret:   secret,
		logger:   logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegister(req models.RegisterRequest) []api.FieldIssue {
	var issues []api.FieldIssue
	if _, err := mail.ParseAddress(req.Email); err != nil {
		issues = append(issues, api.FieldIssue{Field: "email", Message: "a valid email is required"})
	}
	if len(req.Password) < 6 {
		issues = append(issues, api.FieldIssue{Field: "password", Message: "password must be at least 6 characters"})
	}
	if req.Role != "" && !models.ValidUserRoles[req.Role] {
		issues = append(issues, api.FieldIssue{Field: "role", Message: "role must be one of student, mentor, institute"})
	}
	return issues
}

// Register creates the user, its local account, and its role profile
// and preferences in one transaction. A failure anywhere rolls the
// whole registration back; there is never a user without a profile.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if issues := validateRegister(req); len(issues) > 0 {
		return nil, api.ValidationError(issues)
	}

	profileStore, err := s.profiles.For(req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:          uuid.New(),
		Email:       req.Email,
		Username:    strings.SplitN(req.Email, "@", 2)[0],
		Role:        req.Role,
		ImageURL:    req.ImageURL,
		Permissions: []string{},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin registration: %w", err)
	}
	defer tx.Rollback()

	if err := s.store.Insert(ctx, tx, user); err != nil {
		return nil, err
	}
	account := &models.Account{
		ID:       uuid.New(),
		UserID:   user.ID,
		Provider: models.ProviderLocal,
		Password: string(hash),
	}
	if err := s.accounts.Insert(ctx, tx, account); err != nil {
		return nil, err
	}
	if err := profileStore.Create(ctx, tx, user.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}
	s.logger.Info("user registered", zap.String("user", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

// Login checks the local credential and opens a session. The returned
// token and session ID go into the auth cookie pair.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, string, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, "", "", err
	}
	if user == nil {
		return nil, "", "", api.ErrInvalidCredentials
	}
	if user.IsDeleted {
		return nil, "", "", errDeactivated
	}

	account, err := s.accounts.FindByUserAndProvider(ctx, user.ID, models.ProviderLocal)
	if err != nil {
		return nil, "", "", err
	}
	if account == nil {
		return nil, "", "", api.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, "", "", api.ErrInvalidCredentials
	}

	token, err := auth.Sign(models.AuthUser{ID: user.ID, Email: user.Email, Role: user.Role}, s.secret, auth.AccessTokenTTL)
	if err != nil {
		return nil, "", "", fmt.Errorf("sign token: %w", err)
	}
	sessionID, err := s.sessions.Create(ctx, user.ID, auth.AccessTokenTTL)
	if err != nil {
		return nil, "", "", err
	}
	return user, token, sessionID, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *Service) GetByID(ctx context.Context, idStr string) (*models.User, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, api.InvalidID(fmt.Sprintf("%q is not a valid ID", idStr))
	}
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, api.ErrUserNotFound
	}
	return user, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, api.ErrUserNotFound
	}
	return user, nil
}

func (s *Service) Verify(ctx context.Context, userID uuid.UUID) error {
	return s.store.SetVerified(ctx, userID)
}

// Update applies the allowlisted user fields, at most once per
// throttle window.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, upd models.UserUpdate) (*models.User, error) {
	if upd.Username == nil && upd.FirstName == nil && upd.LastName == nil && upd.FullName == nil {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "no fields to update"}})
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, api.ErrUserNotFound
	}
	if time.Since(user.UpdatedAt) < updateThrottle {
		return nil, errUpdateLimit
	}

	return s.store.Update(ctx, userID, upd)
}

func (s *Service) ChangeImage(ctx context.Context, userID uuid.UUID, imageURL string) (*models.User, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "imageUrl", Message: "imageUrl is required"}})
	}
	user, err := s.store.ChangeImage(ctx, userID, imageURL)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, api.ErrUserNotFound
	}
	return user, nil
}

// Deactivate soft-deletes the user with its accounts, profile and
// preferences, all in one transaction, and ends the current session.
func (s *Service) Deactivate(ctx context.Context, userID uuid.UUID, sessionID string) error {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return api.ErrUserNotFound
	}
	profileStore, err := s.profiles.For(user.Role)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin deactivation: %w", err)
	}
	defer tx.Rollback()

	if err := s.store.SetDeleted(ctx, tx, userID, true); err != nil {
		return err
	}
	if err := s.accounts.SetDeletedForUser(ctx, tx, userID, true); err != nil {
		return err
	}
	if err := profileStore.SetDeleted(ctx, tx, userID, true); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deactivation: %w", err)
	}

	if sessionID != "" {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("delete session after deactivation", zap.Error(err))
		}
	}
	return nil
}

// Activate restores a deactivated user after re-checking the local
// credential, mirroring Deactivate's transaction.
func (s *Service) Activate(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, api.ErrUserNotFound
	}
	if !user.IsDeleted {
		return user, nil
	}

	account, err := s.accounts.FindAnyByUserAndProvider(ctx, user.ID, models.ProviderLocal)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, api.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, api.ErrInvalidCredentials
	}

	profileStore, err := s.profiles.For(user.Role)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin activation: %w", err)
	}
	defer tx.Rollback()

	if err := s.store.SetDeleted(ctx, tx, user.ID, false); err != nil {
		return nil, err
	}
	if err := s.accounts.SetDeletedForUser(ctx, tx, user.ID, false); err != nil {
		return nil, err
	}
	if err := profileStore.SetDeleted(ctx, tx, user.ID, false); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit activation: %w", err)
	}

	user.IsDeleted = false
	return user, nil
}

// ── Role profiles and preferences ───────────────────────────────────

func (s *Service) Profile(ctx context.Context, user models.AuthUser) (interface{}, error) {
	store, err := s.profiles.For(user.Role)
	if err != nil {
		return nil, err
	}
	return store.Profile(ctx, user.ID)
}

func (s *Service) UpdateProfile(ctx context.Context, user models.AuthUser, fields map[string]interface{}) (interface{}, error) {
	store, err := s.profiles.For(user.Role)
	if err != nil {
		return nil, err
	}
	return store.UpdateProfile(ctx, user.ID, fields)
}

func (s *Service) Preferences(ctx context.Context, user models.AuthUser) (*models.Preferences, error) {
	store, err := s.profiles.For(user.Role)
	if err != nil {
		return nil, err
	}
	return store.Preferences(ctx, user.ID)
}

func (s *Service) UpdatePreferences(ctx context.Context, user models.AuthUser, language string) (*models.Preferences, error) {
	store, err := s.profiles.For(user.Role)
	if err != nil {
		return nil, err
	}
	return store.UpdatePreferences(ctx, user.ID, language)
}
