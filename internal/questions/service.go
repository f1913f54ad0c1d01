package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/categories"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/pagination"
)

// VerifierProvider hands out a fresh category verifier per validation
// cycle. Satisfied by the categories service.
type VerifierProvider interface {
	NewVerifier() *categories.Verifier
}

// Storage is what the service needs from the question store.
type Storage interface {
	Insert(ctx context.Context, payloads []models.QuestionPayload) ([]models.Question, []string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	Update(ctx context.Context, id uuid.UUID, upd models.QuestionUpdate) (*models.Question, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter models.QuestionFilter, limit, offset int) ([]models.Question, error)
	Count(ctx context.Context, filter models.QuestionFilter) (int, error)
}

type Service struct {
	store      Storage
	categories VerifierProvider
	logger     *zap.Logger
}

func NewService(store Storage, categories VerifierProvider, logger *zap.Logger) *Service {
	return &Service{store: store, categories: categories, logger: logger}
}

func normalizeTitles(titles []string) []string {
	if titles == nil {
		return nil
	}
	out := make([]string, len(titles))
	for i, t := range titles {
		out[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return out
}

func normalizePayload(p models.QuestionPayload) models.QuestionPayload {
	p.Title = strings.TrimSpace(p.Title)
	p.Type = models.QuestionType(strings.ToLower(strings.TrimSpace(string(p.Type))))
	p.Difficulty = models.DifficultyLevel(strings.ToUpper(strings.TrimSpace(string(p.Difficulty))))
	p.Subjects = normalizeTitles(p.Subjects)
	p.Chapters = normalizeTitles(p.Chapters)
	p.Topics = normalizeTitles(p.Topics)
	p.Tags = normalizeTitles(p.Tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

// CreateQuestions runs the full pipeline: structural validation for
// every payload, then referential validation for every payload that is
// structurally sound, then insertion with duplicate tolerance. Any
// validation issue anywhere in the batch rejects the whole batch; all
// referential checks share one verifier so the category lookups for
// the entire batch coalesce.
func (s *Service) CreateQuestions(ctx context.Context, payloads []models.QuestionPayload) ([]models.Question, error) {
	if len(payloads) == 0 {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "body", Message: "at least one question is required"}})
	}

	normalized := make([]models.QuestionPayload, len(payloads))
	var issues []api.FieldIssue
	for i, p := range payloads {
		normalized[i] = normalizePayload(p)
		issues = append(issues, structuralIssues(i, normalized[i])...)
	}
	if len(issues) > 0 {
		return nil, api.ValidationError(issues)
	}

	verifier := s.categories.NewVerifier()
	g, gctx := errgroup.WithContext(ctx)
	perPayload := make([][]api.FieldIssue, len(normalized))
	for i := range normalized {
		i := i
		g.Go(func() error {
			var err error
			perPayload[i], err = referentialIssues(gctx, verifier, i, normalized[i])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verify categories: %w", err)
	}
	for _, pi := range perPayload {
		issues = append(issues, pi...)
	}
	if len(issues) > 0 {
		return nil, api.ValidationError(issues)
	}

	inserted, duplicates, err := s.store.Insert(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(duplicates) > 0 {
		return nil, api.DuplicateKeyError(duplicates)
	}
	s.logger.Info("questions created", zap.Int("count", len(inserted)))
	return inserted, nil
}

func parseID(idStr string) (uuid.UUID, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, api.InvalidID(fmt.Sprintf("%q is not a valid ID", idStr))
	}
	return id, nil
}

func (s *Service) GetQuestionByID(ctx context.Context, idStr string) (*models.Question, error) {
	id, err := parseID(idStr)
	if err != nil {
		return nil, err
	}
	q, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, api.NotFound("Question Not Found", "No question exists with the given ID")
	}
	return q, nil
}

func (s *Service) GetAllQuestions(ctx context.Context, filter models.QuestionFilter, p pagination.Params) (pagination.Result[models.Question], error) {
	if filter.Difficulty != "" && !models.ValidDifficultyLevels[filter.Difficulty] {
		return pagination.Result[models.Question]{}, api.ValidationError([]api.FieldIssue{
			{Field: "difficulty", Message: "difficulty must be one of S, A, B, C, D"},
		})
	}
	if filter.Type != "" && !models.ValidQuestionTypes[filter.Type] {
		return pagination.Result[models.Question]{}, api.ValidationError([]api.FieldIssue{
			{Field: "type", Message: "type must be one of mcq, msq, ntq"},
		})
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return pagination.Result[models.Question]{}, err
	}
	docs, err := s.store.List(ctx, filter, p.Limit, p.Offset())
	if err != nil {
		return pagination.Result[models.Question]{}, err
	}
	return pagination.Compose(docs, total, p), nil
}

// UpdateQuestion applies a partial update. Changed reference lists are
// re-verified; unchanged ones are trusted as already validated.
func (s *Service) UpdateQuestion(ctx context.Context, idStr string, upd models.QuestionUpdate) (*models.Question, error) {
	id, err := parseID(idStr)
	if err != nil {
		return nil, err
	}

	var issues []api.FieldIssue
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		issues = append(issues, api.FieldIssue{Field: "title", Message: "title cannot be empty"})
	}
	if upd.Type != nil {
		t := models.QuestionType(strings.ToLower(strings.TrimSpace(string(*upd.Type))))
		if !models.ValidQuestionTypes[t] {
			issues = append(issues, api.FieldIssue{Field: "type", Message: "type must be one of mcq, msq, ntq"})
		}
		upd.Type = &t
	}
	if upd.Difficulty != nil {
		d := models.DifficultyLevel(strings.ToUpper(strings.TrimSpace(string(*upd.Difficulty))))
		if !models.ValidDifficultyLevels[d] {
			issues = append(issues, api.FieldIssue{Field: "difficulty", Message: "difficulty must be one of S, A, B, C, D"})
		}
		upd.Difficulty = &d
	}
	if upd.Description != nil && strings.TrimSpace(*upd.Description) == "" {
		issues = append(issues, api.FieldIssue{Field: "description", Message: "description cannot be empty"})
	}
	if upd.Options != nil && len(upd.Options) == 0 {
		issues = append(issues, api.FieldIssue{Field: "options", Message: "options cannot be empty"})
	}
	if upd.CorrectOption != nil && len(upd.CorrectOption) == 0 {
		issues = append(issues, api.FieldIssue{Field: "correctOption", Message: "at least one correct option is required"})
	}
	if upd.Subjects != nil && len(upd.Subjects) == 0 {
		issues = append(issues, api.FieldIssue{Field: "subjects", Message: "at least one subject is required"})
	}
	if upd.Chapters != nil && len(upd.Chapters) == 0 {
		issues = append(issues, api.FieldIssue{Field: "chapters", Message: "at least one chapter is required"})
	}
	if upd.Topics != nil && len(upd.Topics) == 0 {
		issues = append(issues, api.FieldIssue{Field: "topics", Message: "at least one topic is required"})
	}
	if upd.Points != nil && *upd.Points < 0 {
		issues = append(issues, api.FieldIssue{Field: "points", Message: "points cannot be negative"})
	}
	if len(issues) > 0 {
		return nil, api.ValidationError(issues)
	}

	verifier := s.categories.NewVerifier()
	refChecks := []struct {
		name   string
		ctype  models.CategoryType
		titles []string
	}{
		{"subjects", models.CategorySubjects, upd.Subjects},
		{"chapters", models.CategoryChapters, upd.Chapters},
		{"topics", models.CategoryTopics, upd.Topics},
		{"tags", models.CategoryTags, upd.Tags},
	}
	g, gctx := errgroup.WithContext(ctx)
	issueCh := make(chan api.FieldIssue, len(refChecks))
	for _, c := range refChecks {
		if c.titles == nil {
			continue
		}
		if c.name == "tags" && len(c.titles) == 0 {
			upd.Tags = []string{}
			continue
		}
		c := c
		c.titles = normalizeTitles(c.titles)
		switch c.name {
		case "subjects":
			upd.Subjects = c.titles
		case "chapters":
			upd.Chapters = c.titles
		case "topics":
			upd.Topics = c.titles
		case "tags":
			upd.Tags = c.titles
		}
		g.Go(func() error {
			ok, err := verifier.VerifyCategoriesExist(gctx, c.ctype, c.titles)
			if err != nil {
				return err
			}
			if !ok {
				issueCh <- api.FieldIssue{
					Field:   c.name,
					Message: fmt.Sprintf("one or more %s do not exist as categories", c.name),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verify categories: %w", err)
	}
	close(issueCh)
	for issue := range issueCh {
		issues = append(issues, issue)
	}
	if len(issues) > 0 {
		return nil, api.ValidationError(issues)
	}

	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		upd.Title = &t
	}

	q, err := s.store.Update(ctx, id, upd)
	if err == errDuplicateTitle {
		return nil, api.DuplicateKeyError([]string{*upd.Title})
	}
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, api.NotFound("Question Not Found", "No question exists with the given ID")
	}
	return q, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, idStr string) error {
	id, err := parseID(idStr)
	if err != nil {
		return err
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return api.NotFound("Question Not Found", "No question exists with the given ID")
	}
	return nil
}
