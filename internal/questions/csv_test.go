package questions

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/pagination"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"algebra; geometry", []string{"algebra", "geometry"}},
		{"algebra;geometry;calculus", []string{"algebra", "geometry", "calculus"}},
		{"algebra", []string{"algebra"}},
		{"  ", nil},
		{"algebra; ; geometry", []string{"algebra", "geometry"}},
	}
	for _, tt := range tests {
		got := splitList(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitList(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParseCSVQuestions(t *testing.T) {
	s := &Service{}
	in := strings.Join([]string{
		"title,description,options,subjects,chapters,topics,correctOption,type,difficulty,author,tags,hints,points,source",
		`"What is 2+2?",Basic sum,2; 3; 4; 5,mathematics,arithmetic,addition,4,mcq,D,jane,easy,,1,`,
		`"Pick the primes",Select all primes,2; 3; 4; 9,mathematics,number theory,primes,2; 3,msq,C,,,think small,2,book`,
	}, "\n")

	got, err := s.ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d payloads, want 2", len(got))
	}

	q := got[0]
	if q.Title != "What is 2+2?" || q.Type != models.QuestionMCQ || q.Difficulty != models.DifficultyD {
		t.Errorf("row 0 = %+v", q)
	}
	if len(q.Options) != 4 || q.Options[0] != "2" || q.Options[3] != "5" {
		t.Errorf("row 0 options = %v", q.Options)
	}
	if len(q.CorrectOption) != 1 || q.CorrectOption[0] != "4" {
		t.Errorf("row 0 correctOption = %v", q.CorrectOption)
	}
	if q.Points != 1 {
		t.Errorf("row 0 points = %d, want 1", q.Points)
	}

	q = got[1]
	if len(q.CorrectOption) != 2 || q.CorrectOption[1] != "3" {
		t.Errorf("row 1 correctOption = %v", q.CorrectOption)
	}
	if len(q.Tags) != 0 {
		t.Errorf("row 1 tags = %v, want empty", q.Tags)
	}
	if q.Hints != "think small" || q.Source != "book" {
		t.Errorf("row 1 = %+v", q)
	}
}

func TestExportCSVColumnOrder(t *testing.T) {
	store := newFakeQuestionStore()
	store.inserted = []models.Question{{
		Title:         "What is 2+2?",
		Description:   "Basic sum",
		Options:       []string{"3", "4"},
		CorrectOption: []string{"4"},
		Type:          models.QuestionMCQ,
		Difficulty:    models.DifficultyD,
		Subjects:      []string{"mathematics"},
		Chapters:      []string{"arithmetic"},
		Topics:        []string{"addition"},
		Tags:          []string{"easy"},
		Author:        "jane",
		Points:        1,
	}}
	svc := newTestService(store)

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), models.QuestionFilter{}, pagination.Params{Page: 1, Limit: 10}, &buf)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and one row", len(lines))
	}
	wantHeader := "title,description,options,subjects,chapters,topics,correctOption,type,difficulty,author,tags,hints,points,source"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	wantRow := "What is 2+2?,Basic sum,3; 4,mathematics,arithmetic,addition,4,mcq,D,jane,easy,,1,"
	if lines[1] != wantRow {
		t.Errorf("row = %q, want %q", lines[1], wantRow)
	}
}

func TestCSVRoundTripListFields(t *testing.T) {
	joined := joinList([]string{"algebra", "geometry"})
	if joined != "algebra; geometry" {
		t.Fatalf("joinList = %q", joined)
	}
	back := splitList(joined)
	if len(back) != 2 || back[0] != "algebra" || back[1] != "geometry" {
		t.Errorf("splitList(joinList(...)) = %v", back)
	}
}
