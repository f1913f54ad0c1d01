package categories

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/pagination"
)

var errDuplicateTitle = errors.New("duplicate category title")

func normalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Storage is what the service needs from the category store.
type Storage interface {
	BatchGetter
	Insert(ctx context.Context, payloads []models.CategoryPayload) ([]models.Category, []string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter models.CategoryFilter, limit, offset int) ([]models.Category, error)
	Count(ctx context.Context, filter models.CategoryFilter) (int, error)
}

type Service struct {
	store  Storage
	logger *zap.Logger
}

func NewService(store Storage, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// NewVerifier hands out a verifier backed by a fresh loader, scoped to
// one validation cycle so its cache never outlives a request.
func (s *Service) NewVerifier() *Verifier {
	return NewVerifier(NewLoader(s.store))
}

// VerifyCategoriesExist is the one-shot form for callers that do not
// need to share a loader across checks.
func (s *Service) VerifyCategoriesExist(ctx context.Context, ctype models.CategoryType, titles []string) (bool, error) {
	return s.NewVerifier().VerifyCategoriesExist(ctx, ctype, titles)
}

// ── Create ──────────────────────────────────────────────────────────

func validatePayloads(payloads []models.CategoryPayload) []api.FieldIssue {
	var issues []api.FieldIssue
	for i, p := range payloads {
		if strings.TrimSpace(p.Title) == "" {
			issues = append(issues, api.FieldIssue{
				Field:   fmt.Sprintf("[%d].title", i),
				Message: "title is required",
			})
		}
		if !models.ValidCategoryTypes[models.CategoryType(normalizeTitle(string(p.Type)))] {
			issues = append(issues, api.FieldIssue{
				Field:   fmt.Sprintf("[%d].type", i),
				Message: "type must be one of subjects, chapters, topics, tags, others",
			})
		}
	}
	return issues
}

// CreateCategories validates and inserts a batch. Every payload is
// validated before anything is written; titles that already exist are
// reported together as a duplicate-key error after the rest insert.
func (s *Service) CreateCategories(ctx context.Context, payloads []models.CategoryPayload) ([]models.Category, error) {
	if len(payloads) == 0 {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "at least one category is required"}})
	}
	if issues := validatePayloads(payloads); len(issues) > 0 {
		return nil, api.ValidationError(issues)
	}

	normalized := make([]models.CategoryPayload, len(payloads))
	for i, p := range payloads {
		normalized[i] = models.CategoryPayload{
			Title:  normalizeTitle(p.Title),
			Type:   models.CategoryType(normalizeTitle(string(p.Type))),
			Parent: normalizeTitle(p.Parent),
		}
	}

	inserted, duplicates, err := s.store.Insert(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(duplicates) > 0 {
		return nil, api.DuplicateKeyError(duplicates)
	}
	s.logger.Info("categories created", zap.Int("count", len(inserted)))
	return inserted, nil
}

// ParseCSV reads category rows from an uploaded file. Expected header
// columns are title, parent and type; extra columns are ignored.
func (s *Service) ParseCSV(r io.Reader) ([]models.CategoryPayload, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "file", Message: "could not read CSV header"}})
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[normalizeTitle(h)] = i
	}
	titleIdx, ok := col["title"]
	if !ok {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "file", Message: "CSV is missing a title column"}})
	}
	typeIdx, hasType := col["type"]
	parentIdx, hasParent := col["parent"]

	var payloads []models.CategoryPayload
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, api.ValidationError([]api.FieldIssue{{Field: "file", Message: "malformed CSV row"}})
		}
		p := models.CategoryPayload{Title: record[titleIdx]}
		if hasType && typeIdx < len(record) {
			p.Type = models.CategoryType(record[typeIdx])
		}
		if hasParent && parentIdx < len(record) {
			p.Parent = record[parentIdx]
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

// ── Read / update / delete ──────────────────────────────────────────

func parseID(idStr string) (uuid.UUID, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, api.InvalidID(fmt.Sprintf("%q is not a valid ID", idStr))
	}
	return id, nil
}

func (s *Service) GetCategoryByID(ctx context.Context, idStr string) (*models.Category, error) {
	id, err := parseID(idStr)
	if err != nil {
		return nil, err
	}
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, api.NotFound("Category Not Found", "No category exists with the given ID")
	}
	return c, nil
}

func (s *Service) GetAllCategories(ctx context.Context, filter models.CategoryFilter, p pagination.Params) (pagination.Result[models.Category], error) {
	if filter.Type != "" && !models.ValidCategoryTypes[filter.Type] {
		return pagination.Result[models.Category]{}, api.ValidationError([]api.FieldIssue{
			{Field: "type", Message: "type must be one of subjects, chapters, topics, tags, others"},
		})
	}
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return pagination.Result[models.Category]{}, err
	}
	docs, err := s.store.List(ctx, filter, p.Limit, p.Offset())
	if err != nil {
		return pagination.Result[models.Category]{}, err
	}
	return pagination.Compose(docs, total, p), nil
}

func (s *Service) UpdateCategory(ctx context.Context, idStr string, upd models.CategoryUpdate) (*models.Category, error) {
	id, err := parseID(idStr)
	if err != nil {
		return nil, err
	}
	if upd.Title == nil && upd.Type == nil && upd.Parent == nil {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "no fields to update"}})
	}
	if upd.Title != nil {
		t := normalizeTitle(*upd.Title)
		if t == "" {
			return nil, api.ValidationError([]api.FieldIssue{{Field: "title", Message: "title cannot be empty"}})
		}
		upd.Title = &t
	}
	if upd.Type != nil {
		t := models.CategoryType(normalizeTitle(string(*upd.Type)))
		if !models.ValidCategoryTypes[t] {
			return nil, api.ValidationError([]api.FieldIssue{{Field: "type", Message: "type must be one of subjects, chapters, topics, tags, others"}})
		}
		upd.Type = &t
	}
	if upd.Parent != nil {
		p := normalizeTitle(*upd.Parent)
		upd.Parent = &p
	}

	c, err := s.store.Update(ctx, id, upd)
	if err == errDuplicateTitle {
		return nil, api.DuplicateKeyError([]string{*upd.Title})
	}
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, api.NotFound("Category Not Found", "No category exists with the given ID")
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, idStr string) error {
	id, err := parseID(idStr)
	if err != nil {
		return err
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return api.NotFound("Category Not Found", "No category exists with the given ID")
	}
	return nil
}
