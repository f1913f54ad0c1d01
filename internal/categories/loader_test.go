package categories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

type fakeBatchStore struct {
	mu    sync.Mutex
	cats  []models.Category
	err   error
	calls [][]string
}

func (f *fakeBatchStore) FindByTitlesAndTypes(ctx context.Context, titles []string, types []string) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, titles)
	if f.err != nil {
		return nil, f.err
	}
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

func (f *fakeBatchStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func cat(title string, ctype models.CategoryType) models.Category {
	return models.Category{Title: title, Type: ctype}
}

func TestLoaderOrderAndMisses(t *testing.T) {
	store := &fakeBatchStore{cats: []models.Category{
		cat("algebra", models.CategorySubjects),
		cat("geometry", models.CategorySubjects),
	}}
	l := NewLoader(store)

	keys := []LookupKey{
		{Title: "geometry", Type: models.CategorySubjects},
		{Title: "calculus", Type: models.CategorySubjects},
		{Title: "algebra", Type: models.CategorySubjects},
		{Title: "geometry", Type: models.CategorySubjects},
	}
	got, err := l.Load(context.Background(), keys)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(keys) {
		t.Fatalf("got %d results, want %d", len(got), len(keys))
	}
	if got[0] == nil || got[0].Title != "geometry" {
		t.Errorf("result 0 = %v, want geometry", got[0])
	}
	if got[1] != nil {
		t.Errorf("result 1 = %v, want nil for missing title", got[1])
	}
	if got[2] == nil || got[2].Title != "algebra" {
		t.Errorf("result 2 = %v, want algebra", got[2])
	}
	if got[3] == nil || got[3].Title != "geometry" {
		t.Errorf("result 3 = %v, want geometry for duplicate key", got[3])
	}
	if store.callCount() != 1 {
		t.Errorf("store queried %d times, want 1", store.callCount())
	}
}

func TestLoaderTypeMustMatch(t *testing.T) {
	store := &fakeBatchStore{cats: []models.Category{
		cat("algebra", models.CategorySubjects),
	}}
	l := NewLoader(store)

	got, err := l.Load(context.Background(), []LookupKey{
		{Title: "algebra", Type: models.CategoryChapters},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got[0] != nil {
		t.Errorf("got %v, want nil when type differs", got[0])
	}
}

func TestLoaderCoalescesConcurrentCallers(t *testing.T) {
	store := &fakeBatchStore{cats: []models.Category{
		cat("algebra", models.CategorySubjects),
		cat("limits", models.CategoryChapters),
	}}
	l := NewLoader(store, WithWait(20*time.Millisecond))

	var wg sync.WaitGroup
	for _, k := range []LookupKey{
		{Title: "algebra", Type: models.CategorySubjects},
		{Title: "limits", Type: models.CategoryChapters},
		{Title: "algebra", Type: models.CategorySubjects},
	} {
		wg.Add(1)
		go func(k LookupKey) {
			defer wg.Done()
			got, err := l.Load(context.Background(), []LookupKey{k})
			if err != nil {
				t.Errorf("Load(%v): %v", k, err)
				return
			}
			if got[0] == nil {
				t.Errorf("Load(%v) = nil, want category", k)
			}
		}(k)
	}
	wg.Wait()

	if store.callCount() != 1 {
		t.Errorf("store queried %d times, want 1 coalesced batch", store.callCount())
	}
}

func TestLoaderCachesAcrossLoads(t *testing.T) {
	store := &fakeBatchStore{cats: []models.Category{
		cat("algebra", models.CategorySubjects),
	}}
	l := NewLoader(store)

	keys := []LookupKey{
		{Title: "algebra", Type: models.CategorySubjects},
		{Title: "calculus", Type: models.CategorySubjects},
	}
	if _, err := l.Load(context.Background(), keys); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	got, err := l.Load(context.Background(), keys)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if got[0] == nil || got[1] != nil {
		t.Errorf("cached results = %v, %v; want algebra, nil", got[0], got[1])
	}
	if store.callCount() != 1 {
		t.Errorf("store queried %d times, want 1; misses must be cached too", store.callCount())
	}
}

func TestLoaderBatchErrorFailsAllKeys(t *testing.T) {
	storeErr := errors.New("connection reset")
	store := &fakeBatchStore{err: storeErr}
	l := NewLoader(store, WithWait(10*time.Millisecond))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.Load(context.Background(), []LookupKey{
				{Title: "algebra", Type: models.CategorySubjects},
				{Title: "limits", Type: models.CategoryChapters},
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, storeErr) {
			t.Errorf("caller %d got %v, want the batch error", i, err)
		}
	}
}

func TestLoaderMaxBatchFlushesEarly(t *testing.T) {
	store := &fakeBatchStore{cats: []models.Category{
		cat("algebra", models.CategorySubjects),
		cat("geometry", models.CategorySubjects),
	}}
	l := NewLoader(store, WithWait(time.Hour), WithMaxBatch(2))

	done := make(chan struct{})
	go func() {
		defer close(done)
		got, err := l.Load(context.Background(), []LookupKey{
			{Title: "algebra", Type: models.CategorySubjects},
			{Title: "geometry", Type: models.CategorySubjects},
		})
		if err != nil {
			t.Errorf("Load: %v", err)
			return
		}
		if got[0] == nil || got[1] == nil {
			t.Errorf("got %v, %v; want both categories", got[0], got[1])
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("full batch did not flush before the wait window")
	}
}

func TestVerifierAllMustExist(t *testing.T) {
	store := &fakeBatchStore{cats: []models.Category{
		cat("algebra", models.CategorySubjects),
		cat("geometry", models.CategorySubjects),
	}}

	tests := []struct {
		name   string
		titles []string
		want   bool
	}{
		{"all exist", []string{"algebra", "geometry"}, true},
		{"one missing", []string{"algebra", "calculus"}, false},
		{"nil titles", nil, false},
		{"empty titles", []string{}, false},
		{"normalizes before lookup", []string{" Algebra ", "GEOMETRY"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerifier(NewLoader(store))
			got, err := v.VerifyCategoriesExist(context.Background(), models.CategorySubjects, tt.titles)
			if err != nil {
				t.Fatalf("VerifyCategoriesExist: %v", err)
			}
			if got != tt.want {
				t.Errorf("VerifyCategoriesExist(%v) = %v, want %v", tt.titles, got, tt.want)
			}
		})
	}
}

func TestVerifierSharedLoaderCoalesces(t *testing.T) {
	store := &fakeBatchStore{cats: []models.Category{
		cat("algebra", models.CategorySubjects),
		cat("limits", models.CategoryChapters),
		cat("derivatives", models.CategoryTopics),
	}}
	v := NewVerifier(NewLoader(store, WithWait(20*time.Millisecond)))

	var wg sync.WaitGroup
	checks := []struct {
		ctype  models.CategoryType
		titles []string
	}{
		{models.CategorySubjects, []string{"algebra"}},
		{models.CategoryChapters, []string{"limits"}},
		{models.CategoryTopics, []string{"derivatives"}},
	}
	for _, c := range checks {
		wg.Add(1)
		go func(ctype models.CategoryType, titles []string) {
			defer wg.Done()
			ok, err := v.VerifyCategoriesExist(context.Background(), ctype, titles)
			if err != nil {
				t.Errorf("VerifyCategoriesExist(%v): %v", titles, err)
				return
			}
			if !ok {
				t.Errorf("VerifyCategoriesExist(%v) = false, want true", titles)
			}
		}(c.ctype, c.titles)
	}
	wg.Wait()

	if store.callCount() != 1 {
		t.Errorf("store queried %d times, want 1 for checks sharing a loader", store.callCount())
	}
}
