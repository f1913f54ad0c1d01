package categories

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

func TestValidatePayloads(t *testing.T) {
	tests := []struct {
		name       string
		payloads   []models.CategoryPayload
		wantFields []string
	}{
		{
			name: "valid batch",
			payloads: []models.CategoryPayload{
				{Title: "algebra", Type: models.CategorySubjects},
				{Title: "limits", Type: models.CategoryChapters, Parent: "calculus"},
			},
		},
		{
			name: "missing title",
			payloads: []models.CategoryPayload{
				{Title: "  ", Type: models.CategorySubjects},
			},
			wantFields: []string{"[0].title"},
		},
		{
			name: "bad type",
			payloads: []models.CategoryPayload{
				{Title: "algebra", Type: "subject"},
			},
			wantFields: []string{"[0].type"},
		},
		{
			name: "type is case insensitive",
			payloads: []models.CategoryPayload{
				{Title: "algebra", Type: "Subjects"},
			},
		},
		{
			name: "issues accumulate across records",
			payloads: []models.CategoryPayload{
				{Title: "", Type: models.CategorySubjects},
				{Title: "ok", Type: models.CategoryTopics},
				{Title: "also ok", Type: "nope"},
			},
			wantFields: []string{"[0].title", "[2].type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := validatePayloads(tt.payloads)
			if len(issues) != len(tt.wantFields) {
				t.Fatalf("got %d issues %v, want %d", len(issues), issues, len(tt.wantFields))
			}
			for i, f := range tt.wantFields {
				if issues[i].Field != f {
					t.Errorf("issue %d field = %q, want %q", i, issues[i].Field, f)
				}
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	s := &Service{}

	t.Run("parses rows with all columns", func(t *testing.T) {
		in := "title,parent,type\nAlgebra,,subjects\nLimits,Calculus,chapters\n"
		got, err := s.ParseCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ParseCSV: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d payloads, want 2", len(got))
		}
		if got[0].Title != "Algebra" || got[0].Type != "subjects" {
			t.Errorf("row 0 = %+v", got[0])
		}
		if got[1].Parent != "Calculus" {
			t.Errorf("row 1 parent = %q, want Calculus", got[1].Parent)
		}
	})

	t.Run("column order does not matter", func(t *testing.T) {
		in := "type,title\nsubjects,Algebra\n"
		got, err := s.ParseCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ParseCSV: %v", err)
		}
		if got[0].Title != "Algebra" || got[0].Type != "subjects" {
			t.Errorf("row 0 = %+v", got[0])
		}
	})

	t.Run("missing title column is rejected", func(t *testing.T) {
		in := "name,type\nAlgebra,subjects\n"
		if _, err := s.ParseCSV(strings.NewReader(in)); err == nil {
			t.Fatal("expected an error for a CSV without a title column")
		}
	})
}

func TestNormalizeTitle(t *testing.T) {
	if got := normalizeTitle("  Algebra II "); got != "algebra ii" {
		t.Errorf("normalizeTitle = %q, want %q", got, "algebra ii")
	}
}

// fakeCategoryStorage keeps inserted categories in memory and reports
// already-seen titles as duplicates, like the real insert does.
type fakeCategoryStorage struct {
	existing map[string]bool
	inserted []models.Category
}

func (f *fakeCategoryStorage) Insert(ctx context.Context, payloads []models.CategoryPayload) ([]models.Category, []string, error) {
	var out []models.Category
	var dups []string
	for _, p := range payloads {
		if f.existing[p.Title] {
			dups = append(dups, p.Title)
			continue
		}
		f.existing[p.Title] = true
		c := models.Category{ID: uuid.New(), Title: p.Title, Type: p.Type, Parent: p.Parent}
		f.inserted = append(f.inserted, c)
		out = append(out, c)
	}
	return out, dups, nil
}

func (f *fakeCategoryStorage) FindByTitlesAndTypes(ctx context.Context, titles []string, types []string) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.inserted {
		for i, t := range titles {
			if c.Title == t && string(c.Type) == types[i] {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeCategoryStorage) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	for i := range f.inserted {
		if f.inserted[i].ID == id {
			return &f.inserted[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryStorage) Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeCategoryStorage) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeCategoryStorage) List(ctx context.Context, filter models.CategoryFilter, limit, offset int) ([]models.Category, error) {
	return f.inserted, nil
}

func (f *fakeCategoryStorage) Count(ctx context.Context, filter models.CategoryFilter) (int, error) {
	return len(f.inserted), nil
}

func TestCreateCategoriesDuplicatesDoNotBlockTheRest(t *testing.T) {
	store := &fakeCategoryStorage{existing: map[string]bool{"calculus": true}}
	svc := NewService(store, zap.NewNop())

	payloads := []models.CategoryPayload{
		{Title: "Algebra", Type: models.CategorySubjects},
		{Title: " Calculus ", Type: models.CategoryChapters},
		{Title: "Geometry", Type: models.CategorySubjects},
	}
	_, err := svc.CreateCategories(context.Background(), payloads)
	apiErr, ok := api.AsError(err)
	if !ok {
		t.Fatalf("CreateCategories error = %v, want duplicate-key error", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Title != "DUPLICATE_KEY_ERROR" {
		t.Fatalf("got %d %s, want 409 DUPLICATE_KEY_ERROR", apiErr.Status, apiErr.Title)
	}
	if !reflect.DeepEqual(apiErr.Errors, []string{"calculus"}) {
		t.Errorf("duplicate list = %v, want only the colliding title", apiErr.Errors)
	}

	if len(store.inserted) != 2 {
		t.Fatalf("store holds %d categories, want the 2 non-colliding ones", len(store.inserted))
	}
	got := []string{store.inserted[0].Title, store.inserted[1].Title}
	if !reflect.DeepEqual(got, []string{"algebra", "geometry"}) {
		t.Errorf("persisted titles = %v, want normalized non-colliding titles", got)
	}
}
