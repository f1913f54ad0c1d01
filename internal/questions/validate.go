package questions

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/categories"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
)

// structuralIssues checks field presence and enum conformance for one
// payload. It never touches the store.
func structuralIssues(idx int, p models.QuestionPayload) []api.FieldIssue {
	var issues []api.FieldIssue
	field := func(name string) string { return fmt.Sprintf("[%d].%s", idx, name) }
	add := func(name, msg string) {
		issues = append(issues, api.FieldIssue{Field: field(name), Message: msg})
	}

	if strings.TrimSpace(p.Title) == "" {
		add("title", "title is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		add("description", "description is required")
	}
	if !models.ValidQuestionTypes[p.Type] {
		add("type", "type must be one of mcq, msq, ntq")
	}
	if !models.ValidDifficultyLevels[p.Difficulty] {
		add("difficulty", "difficulty must be one of S, A, B, C, D")
	}

	if p.Type == models.QuestionMCQ || p.Type == models.QuestionMSQ {
		if len(p.Options) == 0 {
			add("options", "options are required for mcq and msq questions")
		}
	}
	if len(p.CorrectOption) == 0 {
		add("correctOption", "at least one correct option is required")
	} else {
		if p.Type == models.QuestionMCQ && len(p.CorrectOption) != 1 {
			add("correctOption", "mcq questions must have exactly one correct option")
		}
		if p.Type == models.QuestionMCQ || p.Type == models.QuestionMSQ {
			opts := make(map[string]bool, len(p.Options))
			for _, o := range p.Options {
				opts[o] = true
			}
			for _, c := range p.CorrectOption {
				if !opts[c] {
					add("correctOption", fmt.Sprintf("%q is not one of the options", c))
				}
			}
		}
	}

	if len(p.Subjects) == 0 {
		add("subjects", "at least one subject is required")
	}
	if len(p.Chapters) == 0 {
		add("chapters", "at least one chapter is required")
	}
	if len(p.Topics) == 0 {
		add("topics", "at least one topic is required")
	}
	if p.Points < 0 {
		add("points", "points cannot be negative")
	}

	return issues
}

// referentialIssues checks that every referenced category exists. The
// four field checks run concurrently and all complete even when one of
// them finds missing titles; they share the caller's verifier so their
// lookups coalesce into the same resolver batch. A store failure aborts
// the whole check instead of being reported as a field issue.
func referentialIssues(ctx context.Context, v *categories.Verifier, idx int, p models.QuestionPayload) ([]api.FieldIssue, error) {
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	var issues []api.FieldIssue

	check := func(name string, ctype models.CategoryType, titles []string, required bool) {
		g.Go(func() error {
			if !required && len(titles) == 0 {
				return nil
			}
			ok, err := v.VerifyCategoriesExist(ctx, ctype, titles)
			if err != nil {
				return err
			}
			if !ok {
				mu.Lock()
				issues = append(issues, api.FieldIssue{
					Field:   fmt.Sprintf("[%d].%s", idx, name),
					Message: fmt.Sprintf("one or more %s do not exist as categories", name),
				})
				mu.Unlock()
			}
			return nil
		})
	}

	check("subjects", models.CategorySubjects, p.Subjects, true)
	check("chapters", models.CategoryChapters, p.Chapters, true)
	check("topics", models.CategoryTopics, p.Topics, true)
	check("tags", models.CategoryTags, p.Tags, false)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return issues, nil
}
