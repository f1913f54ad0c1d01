package models

import (
	"time"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategorySubjects CategoryType = "subjects"
	CategoryChapters CategoryType = "chapters"
	CategoryTopics   CategoryType = "topics"
	CategoryTags     CategoryType = "tags"
	CategoryOthers   CategoryType = "others"
)

var ValidCategoryTypes = map[CategoryType]bool{
	CategorySubjects: true,
	CategoryChapters: true,
	CategoryTopics:   true,
	CategoryTags:     true,
	CategoryOthers:   true,
}

// Category is a taxonomy entry referenced by title from questions.
// Titles are stored trimmed and lowercased, and are unique across the
// whole store regardless of type.
type Category struct {
	ID        uuid.UUID    `json:"id"`
	Title     string       `json:"title"`
	Type      CategoryType `json:"type"`
	Parent    string       `json:"parent,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type CategoryPayload struct {
	Title  string       `json:"title"`
	Type   CategoryType `json:"type"`
	Parent string       `json:"parent,omitempty"`
}

// CategoryUpdate carries a partial update; nil fields are left untouched.
type CategoryUpdate struct {
	Title  *string       `json:"title"`
	Type   *CategoryType `json:"type"`
	Parent *string       `json:"parent"`
}

type CategoryFilter struct {
	Type CategoryType
}
