package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/database"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const userCols = `id, email, COALESCE(username, ''), first_name, last_name, fullname,
	role, image_url, is_verified, is_deleted, permissions, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.FullName,
		&u.Role, &u.ImageURL, &u.IsVerified, &u.IsDeleted,
		pq.Array(&u.Permissions), &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// Insert runs on a Queryer so registration can write the user row
// inside the same transaction as its account, profile and preferences.
func (s *Store) Insert(ctx context.Context, q database.Queryer, u *models.User) error {
	row := q.QueryRowContext(ctx,
		`INSERT INTO users (id, email, username, role, image_url, permissions)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
		 RETURNING created_at, updated_at`,
		u.ID, u.Email, u.Username, u.Role, u.ImageURL, pq.Array(u.Permissions),
	)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (*models.User, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	add := func(col string, val interface{}) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Username != nil {
		add("username", *upd.Username)
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.FullName != nil {
		add("fullname", *upd.FullName)
	}

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE users SET %s WHERE id = $1 RETURNING %s`, strings.Join(set, ", "), userCols),
		args...,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}

func (s *Store) ChangeImage(ctx context.Context, id uuid.UUID, imageURL string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE users SET image_url = $2, updated_at = NOW() WHERE id = $1 RETURNING `+userCols,
		id, imageURL,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("change user image: %w", err)
	}
	return &u, nil
}

func (s *Store) SetVerified(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("verify user: %w", err)
	}
	return nil
}

// SetDeleted runs on a Queryer so deactivation can flip the user row
// together with its accounts, profile and preferences.
func (s *Store) SetDeleted(ctx context.Context, q database.Queryer, id uuid.UUID, deleted bool) error {
	_, err := q.ExecContext(ctx,
		`UPDATE users SET is_deleted = $2, updated_at = NOW() WHERE id = $1`, id, deleted)
	if err != nil {
		return fmt.Errorf("set user deleted: %w", err)
	}
	return nil
}
