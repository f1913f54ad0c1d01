package models

import (
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionMCQ QuestionType = "mcq"
	QuestionMSQ QuestionType = "msq"
	QuestionNTQ QuestionType = "ntq"
)

var ValidQuestionTypes = map[QuestionType]bool{
	QuestionMCQ: true,
	QuestionMSQ: true,
	QuestionNTQ: true,
}

type DifficultyLevel string

const (
	DifficultyS DifficultyLevel = "S"
	DifficultyA DifficultyLevel = "A"
	DifficultyB DifficultyLevel = "B"
	DifficultyC DifficultyLevel = "C"
	DifficultyD DifficultyLevel = "D"
)

var ValidDifficultyLevels = map[DifficultyLevel]bool{
	DifficultyS: true,
	DifficultyA: true,
	DifficultyB: true,
	DifficultyC: true,
	DifficultyD: true,
}

// Question is a catalog entry. Subjects, chapters, topics and tags hold
// category titles; their existence is enforced at write time only, there
// is no foreign key to the categories table.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Options       []string        `json:"options"`
	CorrectOption []string        `json:"correctOption"`
	Type          QuestionType    `json:"type"`
	Difficulty    DifficultyLevel `json:"difficulty"`
	Subjects      []string        `json:"subjects"`
	Chapters      []string        `json:"chapters"`
	Topics        []string        `json:"topics"`
	Tags          []string        `json:"tags"`
	Author        string          `json:"author,omitempty"`
	Hints         string          `json:"hints,omitempty"`
	Points        int             `json:"points"`
	Source        string          `json:"source,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type QuestionPayload struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Options       []string        `json:"options"`
	CorrectOption []string        `json:"correctOption"`
	Type          QuestionType    `json:"type"`
	Difficulty    DifficultyLevel `json:"difficulty"`
	Subjects      []string        `json:"subjects"`
	Chapters      []string        `json:"chapters"`
	Topics        []string        `json:"topics"`
	Tags          []string        `json:"tags"`
	Author        string          `json:"author"`
	Hints         string          `json:"hints"`
	Points        int             `json:"points"`
	Source        string          `json:"source"`
}

// QuestionUpdate carries a partial update; nil fields are left untouched.
type QuestionUpdate struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Options       []string         `json:"options"`
	CorrectOption []string         `json:"correctOption"`
	Type          *QuestionType    `json:"type"`
	Difficulty    *DifficultyLevel `json:"difficulty"`
	Subjects      []string         `json:"subjects"`
	Chapters      []string         `json:"chapters"`
	Topics        []string         `json:"topics"`
	Tags          []string         `json:"tags"`
	Author        *string          `json:"author"`
	Hints         *string          `json:"hints"`
	Points        *int             `json:"points"`
	Source        *string          `json:"source"`
}

type QuestionFilter struct {
	Difficulty DifficultyLevel
	Type       QuestionType
}
