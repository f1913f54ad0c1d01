package questions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

var errDuplicateTitle = errors.New("duplicate question title")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const questionCols = `id, title, description, options, correct_option, type, difficulty,
	subjects, chapters, topics, tags, author, hints, points, source, created_at, updated_at`

func scanQuestion(row interface{ Scan(...interface{}) error }) (models.Question, error) {
	var q models.Question
	err := row.Scan(
		&q.ID, &q.Title, &q.Description,
		pq.Array(&q.Options), pq.Array(&q.CorrectOption),
		&q.Type, &q.Difficulty,
		pq.Array(&q.Subjects), pq.Array(&q.Chapters), pq.Array(&q.Topics), pq.Array(&q.Tags),
		&q.Author, &q.Hints, &q.Points, &q.Source,
		&q.CreatedAt, &q.UpdatedAt,
	)
	return q, err
}

// Insert writes each payload independently so a title collision in one
// record does not abort the rest. Colliding titles come back in the
// duplicates slice.
func (s *Store) Insert(ctx context.Context, payloads []models.QuestionPayload) ([]models.Question, []string, error) {
	inserted := make([]models.Question, 0, len(payloads))
	var duplicates []string

	for _, p := range payloads {
		row := s.db.QueryRowContext(ctx,
			`INSERT INTO questions
			 (id, title, description, options, correct_option, type, difficulty,
			  subjects, chapters, topics, tags, author, hints, points, source)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			 ON CONFLICT (title) DO NOTHING
			 RETURNING `+questionCols,
			uuid.New(), p.Title, p.Description,
			pq.Array(p.Options), pq.Array(p.CorrectOption),
			p.Type, p.Difficulty,
			pq.Array(p.Subjects), pq.Array(p.Chapters), pq.Array(p.Topics), pq.Array(p.Tags),
			p.Author, p.Hints, p.Points, p.Source,
		)
		q, err := scanQuestion(row)
		if err == sql.ErrNoRows {
			duplicates = append(duplicates, p.Title)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("insert question: %w", err)
		}
		inserted = append(inserted, q)
	}

	return inserted, duplicates, nil
}

// FindByID returns (nil, nil) when no question has the given ID.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+questionCols+` FROM questions WHERE id = $1`, id)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question: %w", err)
	}
	return &q, nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, upd models.QuestionUpdate) (*models.Question, error) {
	set := "updated_at = NOW()"
	args := []interface{}{id}
	idx := 2

	add := func(col string, val interface{}) {
		set += fmt.Sprintf(", %s = $%d", col, idx)
		args = append(args, val)
		idx++
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Options != nil {
		add("options", pq.Array(upd.Options))
	}
	if upd.CorrectOption != nil {
		add("correct_option", pq.Array(upd.CorrectOption))
	}
	if upd.Type != nil {
		add("type", *upd.Type)
	}
	if upd.Difficulty != nil {
		add("difficulty", *upd.Difficulty)
	}
	if upd.Subjects != nil {
		add("subjects", pq.Array(upd.Subjects))
	}
	if upd.Chapters != nil {
		add("chapters", pq.Array(upd.Chapters))
	}
	if upd.Topics != nil {
		add("topics", pq.Array(upd.Topics))
	}
	if upd.Tags != nil {
		add("tags", pq.Array(upd.Tags))
	}
	if upd.Author != nil {
		add("author", *upd.Author)
	}
	if upd.Hints != nil {
		add("hints", *upd.Hints)
	}
	if upd.Points != nil {
		add("points", *upd.Points)
	}
	if upd.Source != nil {
		add("source", *upd.Source)
	}

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE questions SET %s WHERE id = $1 RETURNING %s`, set, questionCols),
		args...,
	)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return nil, errDuplicateTitle
	}
	if err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return &q, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func listQuery(filter models.QuestionFilter) (string, []interface{}) {
	where := ""
	var args []interface{}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		where = fmt.Sprintf(" WHERE difficulty = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		if where == "" {
			where = fmt.Sprintf(" WHERE type = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND type = $%d", len(args))
		}
	}
	return where, args
}

func (s *Store) List(ctx context.Context, filter models.QuestionFilter, limit, offset int) ([]models.Question, error) {
	where, args := listQuery(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM questions%s ORDER BY id LIMIT $%d OFFSET $%d`,
		questionCols, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) Count(ctx context.Context, filter models.QuestionFilter) (int, error) {
	where, args := listQuery(filter)
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM questions`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}
