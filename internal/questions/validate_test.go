package questions

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/categories"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

func validPayload() models.QuestionPayload {
	return models.QuestionPayload{
		Title:         "What is the derivative of x^2?",
		Description:   "Differentiate with respect to x.",
		Options:       []string{"2x", "x", "x^2", "2"},
		CorrectOption: []string{"2x"},
		Type:          models.QuestionMCQ,
		Difficulty:    models.DifficultyB,
		Subjects:      []string{"mathematics"},
		Chapters:      []string{"calculus"},
		Topics:        []string{"derivatives"},
		Points:        4,
	}
}

func TestStructuralIssues(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.QuestionPayload)
		wantFields []string
	}{
		{"valid payload", func(p *models.QuestionPayload) {}, nil},
		{
			"missing title",
			func(p *models.QuestionPayload) { p.Title = " " },
			[]string{"[0].title"},
		},
		{
			"missing description",
			func(p *models.QuestionPayload) { p.Description = "" },
			[]string{"[0].description"},
		},
		{
			"bad type",
			func(p *models.QuestionPayload) { p.Type = "essay" },
			[]string{"[0].type"},
		},
		{
			"bad difficulty",
			func(p *models.QuestionPayload) { p.Difficulty = "E" },
			[]string{"[0].difficulty"},
		},
		{
			"mcq without options",
			func(p *models.QuestionPayload) { p.Options = nil; p.CorrectOption = []string{"2x"} },
			[]string{"[0].options", "[0].correctOption"},
		},
		{
			"mcq with two correct options",
			func(p *models.QuestionPayload) { p.CorrectOption = []string{"2x", "x"} },
			[]string{"[0].correctOption"},
		},
		{
			"correct option not among options",
			func(p *models.QuestionPayload) { p.CorrectOption = []string{"3x"} },
			[]string{"[0].correctOption"},
		},
		{
			"empty subjects",
			func(p *models.QuestionPayload) { p.Subjects = nil },
			[]string{"[0].subjects"},
		},
		{
			"empty chapters and topics accumulate",
			func(p *models.QuestionPayload) { p.Chapters = nil; p.Topics = []string{} },
			[]string{"[0].chapters", "[0].topics"},
		},
		{
			"negative points",
			func(p *models.QuestionPayload) { p.Points = -1 },
			[]string{"[0].points"},
		},
		{
			"ntq needs no options",
			func(p *models.QuestionPayload) {
				p.Type = models.QuestionNTQ
				p.Options = nil
				p.CorrectOption = []string{"42"}
			},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)
			issues := structuralIssues(0, p)
			if len(issues) != len(tt.wantFields) {
				t.Fatalf("got %d issues %v, want fields %v", len(issues), issues, tt.wantFields)
			}
			for i, f := range tt.wantFields {
				if issues[i].Field != f {
					t.Errorf("issue %d field = %q, want %q", i, issues[i].Field, f)
				}
			}
		})
	}
}

type fakeCategoryStore struct {
	mu    sync.Mutex
	cats  []models.Category
	calls int
}

func (f *fakeCategoryStore) FindByTitlesAndTypes(ctx context.Context, titles []string, types []string) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	inTitles := make(map[string]bool, len(titles))
	for _, t := range titles {
		inTitles[t] = true
	}
	inTypes := make(map[string]bool, len(types))
	for _, t := range types {
		inTypes[t] = true
	}
	var out []models.Category
	for _, c := range f.cats {
		if inTitles[c.Title] && inTypes[string(c.Type)] {
			out = append(out, c)
		}
	}
	return out, nil
}

func storedCategories() []models.Category {
	return []models.Category{
		{Title: "algebra", Type: models.CategorySubjects},
		{Title: "mathematics", Type: models.CategorySubjects},
		{Title: "calculus", Type: models.CategoryChapters},
		{Title: "derivatives", Type: models.CategoryTopics},
		{Title: "easy", Type: models.CategoryTags},
	}
}

func TestReferentialIssuesReportsEveryMissingField(t *testing.T) {
	store := &fakeCategoryStore{cats: storedCategories()}
	verifier := categories.NewVerifier(categories.NewLoader(store, categories.WithWait(10*time.Millisecond)))

	p := validPayload()
	p.Subjects = []string{"algebra"}
	p.Chapters = []string{"nonexistent"}
	p.Topics = []string{"geometry"}

	issues, err := referentialIssues(context.Background(), verifier, 0, p)
	if err != nil {
		t.Fatalf("referentialIssues: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues %v, want 2", len(issues), issues)
	}
	var fields []string
	for _, issue := range issues {
		fields = append(fields, issue.Field)
	}
	joined := strings.Join(fields, ",")
	if !strings.Contains(joined, "[0].chapters") || !strings.Contains(joined, "[0].topics") {
		t.Errorf("issue fields = %v, want chapters and topics", fields)
	}
	if strings.Contains(joined, "subjects") {
		t.Errorf("issue fields = %v, subjects should have passed", fields)
	}
}

func TestReferentialIssuesSkipsAbsentTags(t *testing.T) {
	store := &fakeCategoryStore{cats: storedCategories()}
	verifier := categories.NewVerifier(categories.NewLoader(store))

	p := validPayload()
	p.Tags = nil
	issues, err := referentialIssues(context.Background(), verifier, 0, p)
	if err != nil {
		t.Fatalf("referentialIssues: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("got issues %v, want none when tags are absent", issues)
	}
}

func TestReferentialIssuesChecksPresentTags(t *testing.T) {
	store := &fakeCategoryStore{cats: storedCategories()}
	verifier := categories.NewVerifier(categories.NewLoader(store))

	p := validPayload()
	p.Tags = []string{"no-such-tag"}
	issues, err := referentialIssues(context.Background(), verifier, 0, p)
	if err != nil {
		t.Fatalf("referentialIssues: %v", err)
	}
	if len(issues) != 1 || issues[0].Field != "[0].tags" {
		t.Errorf("got issues %v, want one for tags", issues)
	}
}

func TestReferentialChecksShareOneBatch(t *testing.T) {
	store := &fakeCategoryStore{cats: storedCategories()}
	verifier := categories.NewVerifier(categories.NewLoader(store, categories.WithWait(20*time.Millisecond)))

	p := validPayload()
	p.Tags = []string{"easy"}
	issues, err := referentialIssues(context.Background(), verifier, 0, p)
	if err != nil {
		t.Fatalf("referentialIssues: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("got issues %v, want none", issues)
	}

	store.mu.Lock()
	calls := store.calls
	store.mu.Unlock()
	if calls != 1 {
		t.Errorf("store queried %d times, want 1 coalesced batch for all four fields", calls)
	}
}
