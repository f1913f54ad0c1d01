package models

import (
	"time"

	"github.com/google/uuid"
)

type Grade string

const (
	GradeSixth    Grade = "6th"
	GradeSeventh  Grade = "7th"
	GradeEighth   Grade = "8th"
	GradeNinth    Grade = "9th"
	GradeTenth    Grade = "10th"
	GradeEleventh Grade = "11th"
	GradeTwelfth  Grade = "12th"
)

var ValidGrades = map[Grade]bool{
	GradeSixth:    true,
	GradeSeventh:  true,
	GradeEighth:   true,
	GradeNinth:    true,
	GradeTenth:    true,
	GradeEleventh: true,
	GradeTwelfth:  true,
}

type TargetExam string

const (
	ExamJEE  TargetExam = "JEE"
	ExamNEET TargetExam = "NEET"
)

var ValidTargetExams = map[TargetExam]bool{
	ExamJEE:  true,
	ExamNEET: true,
}

type StudentProfile struct {
	UserID     uuid.UUID  `json:"user"`
	Grade      Grade      `json:"grade,omitempty"`
	School     string     `json:"school,omitempty"`
	Bio        string     `json:"bio"`
	Awards     []string   `json:"awards"`
	TargetExam TargetExam `json:"targetExam,omitempty"`
	TargetYear int        `json:"targetYear,omitempty"`
	IsDeleted  bool       `json:"isDeleted"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type MentorProfile struct {
	UserID       uuid.UUID `json:"user"`
	Expertise    []string  `json:"expertise"`
	Bio          string    `json:"bio"`
	Availability string    `json:"availability,omitempty"`
	IsDeleted    bool      `json:"isDeleted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type InstituteProfile struct {
	UserID        uuid.UUID `json:"user"`
	Address       string    `json:"address,omitempty"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	Bio           string    `json:"bio"`
	IsDeleted     bool      `json:"isDeleted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Preferences has the same shape for every role; each role keeps its
// own table so role stores stay symmetrical with profiles.
type Preferences struct {
	UserID    uuid.UUID `json:"user"`
	Language  string    `json:"language"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
