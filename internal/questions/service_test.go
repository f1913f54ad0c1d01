package questions

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/categories"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

// fakeQuestionStore keeps inserted questions in memory and reports
// already-seen titles as duplicates, like the real insert does.
type fakeQuestionStore struct {
	existing map[string]bool
	inserted []models.Question
}

func newFakeQuestionStore(existingTitles ...string) *fakeQuestionStore {
	f := &fakeQuestionStore{existing: map[string]bool{}}
	for _, t := range existingTitles {
		f.existing[t] = true
	}
	return f
}

func (f *fakeQuestionStore) Insert(ctx context.Context, payloads []models.QuestionPayload) ([]models.Question, []string, error) {
	var out []models.Question
	var dups []string
	for _, p := range payloads {
		if f.existing[p.Title] {
			dups = append(dups, p.Title)
			continue
		}
		f.existing[p.Title] = true
		q := models.Question{ID: uuid.New(), Title: p.Title, Type: p.Type}
		f.inserted = append(f.inserted, q)
		out = append(out, q)
	}
	return out, dups, nil
}

func (f *fakeQuestionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	for i := range f.inserted {
		if f.inserted[i].ID == id {
			return &f.inserted[i], nil
		}
	}
	return nil, nil
}

func (f *fakeQuestionStore) Update(ctx context.Context, id uuid.UUID, upd models.QuestionUpdate) (*models.Question, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeQuestionStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeQuestionStore) List(ctx context.Context, filter models.QuestionFilter, limit, offset int) ([]models.Question, error) {
	return f.inserted, nil
}

func (f *fakeQuestionStore) Count(ctx context.Context, filter models.QuestionFilter) (int, error) {
	return len(f.inserted), nil
}

type fakeVerifierProvider struct {
	store *fakeCategoryStore
}

func (f fakeVerifierProvider) NewVerifier() *categories.Verifier {
	return categories.NewVerifier(categories.NewLoader(f.store))
}

func newTestService(store Storage) *Service {
	provider := fakeVerifierProvider{store: &fakeCategoryStore{cats: storedCategories()}}
	return NewService(store, provider, zap.NewNop())
}

func TestCreateQuestionsDuplicatesDoNotBlockTheRest(t *testing.T) {
	payloads := make([]models.QuestionPayload, 3)
	for i := range payloads {
		payloads[i] = validPayload()
	}
	payloads[0].Title = "first question"
	payloads[1].Title = "second question"
	payloads[2].Title = "third question"

	store := newFakeQuestionStore("second question")
	svc := newTestService(store)

	_, err := svc.CreateQuestions(context.Background(), payloads)
	apiErr, ok := api.AsError(err)
	if !ok {
		t.Fatalf("CreateQuestions error = %v, want duplicate-key error", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Title != "DUPLICATE_KEY_ERROR" {
		t.Fatalf("got %d %s, want 409 DUPLICATE_KEY_ERROR", apiErr.Status, apiErr.Title)
	}
	if !reflect.DeepEqual(apiErr.Errors, []string{"second question"}) {
		t.Errorf("duplicate list = %v, want only the colliding title", apiErr.Errors)
	}

	if len(store.inserted) != 2 {
		t.Fatalf("store holds %d questions, want the 2 non-colliding ones", len(store.inserted))
	}
	got := []string{store.inserted[0].Title, store.inserted[1].Title}
	want := []string{"first question", "third question"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("persisted titles = %v, want %v", got, want)
	}
}

func TestCreateQuestionsAllNewInserts(t *testing.T) {
	p := validPayload()
	store := newFakeQuestionStore()
	svc := newTestService(store)

	out, err := svc.CreateQuestions(context.Background(), []models.QuestionPayload{p})
	if err != nil {
		t.Fatalf("CreateQuestions: %v", err)
	}
	if len(out) != 1 || out[0].Title != p.Title {
		t.Errorf("got %v, want one inserted question titled %q", out, p.Title)
	}
}

func TestUpdateQuestionRejectsEmptiedFields(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	intPtr := func(n int) *int { return &n }

	tests := []struct {
		name      string
		upd       models.QuestionUpdate
		wantField string
	}{
		{"negative points", models.QuestionUpdate{Points: intPtr(-5)}, "points"},
		{"empty options", models.QuestionUpdate{Options: []string{}}, "options"},
		{"empty correct option", models.QuestionUpdate{CorrectOption: []string{}}, "correctOption"},
		{"blank description", models.QuestionUpdate{Description: strPtr("  ")}, "description"},
		{"blank title", models.QuestionUpdate{Title: strPtr("")}, "title"},
		{"empty subjects", models.QuestionUpdate{Subjects: []string{}}, "subjects"},
	}

	// Validation must reject these before any store or category access,
	// so the service deliberately gets no backing dependencies.
	svc := NewService(nil, nil, zap.NewNop())
	id := uuid.New().String()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateQuestion(context.Background(), id, tt.upd)
			apiErr, ok := api.AsError(err)
			if !ok {
				t.Fatalf("UpdateQuestion error = %v, want validation error", err)
			}
			if apiErr.Title != "VALIDATION_ERROR" {
				t.Fatalf("got %s, want VALIDATION_ERROR", apiErr.Title)
			}
			issues, ok := apiErr.Errors.([]api.FieldIssue)
			if !ok || len(issues) != 1 {
				t.Fatalf("issues = %v, want exactly one", apiErr.Errors)
			}
			if issues[0].Field != tt.wantField {
				t.Errorf("issue field = %q, want %q", issues[0].Field, tt.wantField)
			}
		})
	}
}
