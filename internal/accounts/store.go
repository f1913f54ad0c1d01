package accounts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/database"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const accountCols = `id, user_id, provider, COALESCE(provider_id, ''), COALESCE(password, ''),
	is_deleted, created_at, updated_at`

func scanAccount(row interface{ Scan(...interface{}) error }) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Provider, &a.ProviderID, &a.Password,
		&a.IsDeleted, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Insert runs on a Queryer so registration and linking can share a
// transaction with the surrounding user writes.
func (s *Store) Insert(ctx context.Context, q database.Queryer, a *models.Account) error {
	row := q.QueryRowContext(ctx,
		`INSERT INTO accounts (id, user_id, provider, provider_id, password)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		 RETURNING created_at, updated_at`,
		a.ID, a.UserID, a.Provider, a.ProviderID, a.Password,
	)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// InsertOne writes an account outside any transaction.
func (s *Store) InsertOne(ctx context.Context, a *models.Account) error {
	return s.Insert(ctx, s.db, a)
}

// FindByUserAndProvider returns (nil, nil) when the user has no account
// for that provider.
func (s *Store) FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider models.Provider) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE user_id = $1 AND provider = $2 AND is_deleted = FALSE`,
		userID, provider)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &a, nil
}

// FindAnyByUserAndProvider also matches soft-deleted accounts, used
// when reactivating a deactivated user.
func (s *Store) FindAnyByUserAndProvider(ctx context.Context, userID uuid.UUID, provider models.Provider) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE user_id = $1 AND provider = $2`,
		userID, provider)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &a, nil
}

func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE user_id = $1 AND is_deleted = FALSE`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE user_id = $1 AND is_deleted = FALSE`,
		userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

// DeleteByUserAndProvider hard-deletes an account link. Returns false
// when no row matched.
func (s *Store) DeleteByUserAndProvider(ctx context.Context, userID uuid.UUID, provider models.Provider) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE user_id = $1 AND provider = $2`, userID, provider)
	if err != nil {
		return false, fmt.Errorf("delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetDeletedForUser flips every account of a user, sharing the caller's
// transaction during deactivation and reactivation.
func (s *Store) SetDeletedForUser(ctx context.Context, q database.Queryer, userID uuid.UUID, deleted bool) error {
	_, err := q.ExecContext(ctx,
		`UPDATE accounts SET is_deleted = $2, updated_at = NOW() WHERE user_id = $1`, userID, deleted)
	if err != nil {
		return fmt.Errorf("set accounts deleted: %w", err)
	}
	return nil
}
