// Package question defines the immutable question data model handed to the
// match engine. Sourcing and normalization happen upstream; by the time a
// pool reaches this package every question is expected to be fully populated.
package question

import (
	"errors"
	"fmt"
)

type AnswerType string

const (
	TypeText           AnswerType = "text"
	TypePerson         AnswerType = "person"
	TypePlace          AnswerType = "place"
	TypeNumber         AnswerType = "number"
	TypeDate           AnswerType = "date"
	TypeTitle          AnswerType = "title"
	TypeScientific     AnswerType = "scientific"
	TypeMultipleChoice AnswerType = "multiple_choice"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Answer is the canonical answer to a question: a primary form, optional
// acceptable alternates, and the type tag that selects the grading strategy.
type Answer struct {
	Primary    string     `json:"primary"`
	Alternates []string   `json:"alternates,omitempty"`
	Type       AnswerType `json:"type"`
}

// AcceptedForms returns the primary answer followed by its alternates.
func (a Answer) AcceptedForms() []string {
	forms := make([]string, 0, 1+len(a.Alternates))
	forms = append(forms, a.Primary)
	forms = append(forms, a.Alternates...)
	return forms
}

type Question struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"prompt"`
	Answer     Answer     `json:"answer"`
	Domain     string     `json:"domain"`
	Difficulty Difficulty `json:"difficulty"`
	// Options is populated for written-round multiple-choice questions only.
	Options []string `json:"options,omitempty"`
}

var ErrEmptyPool = errors.New("question pool is empty")

// ValidatePool checks that every question in the pool is usable by the
// engine. The first defect found is returned.
func ValidatePool(pool []Question) error {
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	for i, q := range pool {
		if q.ID == "" {
			return fmt.Errorf("question %d: missing id", i)
		}
		if q.Prompt == "" {
			return fmt.Errorf("question %q: missing prompt", q.ID)
		}
		if q.Answer.Primary == "" {
			return fmt.Errorf("question %q: missing canonical answer", q.ID)
		}
		if q.Answer.Type == "" {
			return fmt.Errorf("question %q: missing answer type", q.ID)
		}
		if q.Domain == "" {
			return fmt.Errorf("question %q: missing domain", q.ID)
		}
		if q.Difficulty == "" {
			return fmt.Errorf("question %q: missing difficulty", q.ID)
		}
		if q.Answer.Type == TypeMultipleChoice && len(q.Options) < 2 {
			return fmt.Errorf("question %q: multiple choice needs at least 2 options", q.ID)
		}
	}
	return nil
}
