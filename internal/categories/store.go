package categories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const categoryCols = `id, title, type, parent, created_at, updated_at`

func scanCategory(row interface{ Scan(...interface{}) error }) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Title, &c.Type, &c.Parent, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Insert writes every payload with duplicate tolerance: a title that
// already exists is collected instead of aborting the rest of the batch.
func (s *Store) Insert(ctx context.Context, payloads []models.CategoryPayload) ([]models.Category, []string, error) {
	inserted := make([]models.Category, 0, len(payloads))
	var duplicates []string

	for _, p := range payloads {
		row := s.db.QueryRowContext(ctx,
			`INSERT INTO categories (id, title, type, parent)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (title) DO NOTHING
			 RETURNING `+categoryCols,
			uuid.New(), p.Title, p.Type, p.Parent,
		)
		c, err := scanCategory(row)
		if err == sql.ErrNoRows {
			duplicates = append(duplicates, p.Title)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("insert category: %w", err)
		}
		inserted = append(inserted, c)
	}

	return inserted, duplicates, nil
}

// FindByID returns (nil, nil) when no category has the given ID.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

// FindByTitlesAndTypes runs the one batched existence query: all
// categories whose title is in titles AND whose type is in types.
func (s *Store) FindByTitlesAndTypes(ctx context.Context, titles []string, types []string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryCols+` FROM categories
		 WHERE title = ANY($1) AND type = ANY($2)`,
		pq.Array(titles), pq.Array(types),
	)
	if err != nil {
		return nil, fmt.Errorf("find categories by titles: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error) {
	set := "updated_at = NOW()"
	args := []interface{}{id}
	idx := 2

	if upd.Title != nil {
		set += fmt.Sprintf(", title = $%d", idx)
		args = append(args, *upd.Title)
		idx++
	}
	if upd.Type != nil {
		set += fmt.Sprintf(", type = $%d", idx)
		args = append(args, *upd.Type)
		idx++
	}
	if upd.Parent != nil {
		set += fmt.Sprintf(", parent = $%d", idx)
		args = append(args, *upd.Parent)
		idx++
	}

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE categories SET %s WHERE id = $1 RETURNING %s`, set, categoryCols),
		args...,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return nil, errDuplicateTitle
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &c, nil
}

// Delete hard-deletes. Returns false when the ID did not exist.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) List(ctx context.Context, filter models.CategoryFilter, limit, offset int) ([]models.Category, error) {
	var rows *sql.Rows
	var err error

	if filter.Type != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+categoryCols+` FROM categories WHERE type = $1 ORDER BY id LIMIT $2 OFFSET $3`,
			filter.Type, limit, offset,
		)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+categoryCols+` FROM categories ORDER BY id LIMIT $1 OFFSET $2`,
			limit, offset,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) Count(ctx context.Context, filter models.CategoryFilter) (int, error) {
	var count int
	var err error
	if filter.Type != "" {
		err = s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM categories WHERE type = $1`, filter.Type).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM categories`).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
