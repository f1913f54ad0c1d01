package questions

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/pagination"
)

// List-valued columns are joined with "; " on export and split on ";"
// on import.
const listSeparator = "; "

var csvHeader = []string{
	"title", "description", "options", "subjects", "chapters", "topics",
	"correctOption", "type", "difficulty", "author", "tags", "hints", "points", "source",
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func joinList(items []string) string {
	return strings.Join(items, listSeparator)
}

// ParseCSV reads question rows from an uploaded file into payloads
// shaped exactly like JSON-submitted ones; the pipeline validates them
// the same way afterwards.
func (s *Service) ParseCSV(r io.Reader) ([]models.QuestionPayload, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "file", Message: "could not read CSV header"}})
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	if _, ok := col["title"]; !ok {
		return nil, api.ValidationError([]api.FieldIssue{{Field: "file", Message: "CSV is missing a title column"}})
	}

	get := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var payloads []models.QuestionPayload
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, api.ValidationError([]api.FieldIssue{{Field: "file", Message: "malformed CSV row"}})
		}
		points, _ := strconv.Atoi(strings.TrimSpace(get(record, "points")))
		payloads = append(payloads, models.QuestionPayload{
			Title:         get(record, "title"),
			Description:   get(record, "description"),
			Options:       splitList(get(record, "options")),
			CorrectOption: splitList(get(record, "correctOption")),
			Type:          models.QuestionType(get(record, "type")),
			Difficulty:    models.DifficultyLevel(get(record, "difficulty")),
			Subjects:      splitList(get(record, "subjects")),
			Chapters:      splitList(get(record, "chapters")),
			Topics:        splitList(get(record, "topics")),
			Tags:          splitList(get(record, "tags")),
			Author:        get(record, "author"),
			Hints:         get(record, "hints"),
			Points:        points,
			Source:        get(record, "source"),
		})
	}
	return payloads, nil
}

// ExportCSV streams one page of questions matching the filter as CSV.
func (s *Service) ExportCSV(ctx context.Context, filter models.QuestionFilter, p pagination.Params, w io.Writer) error {
	questions, err := s.store.List(ctx, filter, p.Limit, p.Offset())
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, q := range questions {
		record := []string{
			q.Title, q.Description, joinList(q.Options),
			joinList(q.Subjects), joinList(q.Chapters), joinList(q.Topics),
			joinList(q.CorrectOption), string(q.Type), string(q.Difficulty),
			q.Author, joinList(q.Tags), q.Hints, strconv.Itoa(q.Points), q.Source,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
