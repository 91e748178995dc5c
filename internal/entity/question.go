package entity

import (
	"fmt"
	"slices"
	"strings"
)

// Question is a single validated exam item. Construct through NewQuestion so
// the option/answer invariants hold for every value in circulation.
type Question struct {
	ID           int      `json:"id"`
	Subject      string   `json:"subject"`
	Context      string   `json:"context,omitempty"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer"`
	Explanation  string   `json:"explanation"`
	PageNumber   int      `json:"page_number"`
}

// NewQuestion validates and builds a Question.
// Invariants: subject and question text non-empty, at least 2 options, and a
// non-empty answer must be verbatim one of the options.
func NewQuestion(id int, subject, context, questionText string, options []string, answer, explanation string, pageNumber int) (Question, error) {
	if strings.TrimSpace(subject) == "" {
		return Question{}, fmt.Errorf("question %d: subject is required", id)
	}
	if strings.TrimSpace(questionText) == "" {
		return Question{}, fmt.Errorf("question %d: question_text is required", id)
	}
	if len(options) < 2 {
		return Question{}, fmt.Errorf("question %d: need at least 2 options, got %d", id, len(options))
	}
	if answer != "" && !slices.Contains(options, answer) {
		return Question{}, fmt.Errorf("question %d: answer %q is not one of the options", id, answer)
	}
	return Question{
		ID:           id,
		Subject:      subject,
		Context:      context,
		QuestionText: questionText,
		Options:      options,
		Answer:       answer,
		Explanation:  explanation,
		PageNumber:   pageNumber,
	}, nil
}

// WithAnswer returns a copy with answer and explanation replaced. The answer
// must already be resolved against Options (empty means unknown); the receiver
// is never mutated.
func (q Question) WithAnswer(answer, explanation string) (Question, error) {
	if answer != "" && !slices.Contains(q.Options, answer) {
		return Question{}, fmt.Errorf("question %d: answer %q is not one of the options", q.ID, answer)
	}
	out := q
	out.Options = slices.Clone(q.Options)
	out.Answer = answer
	if explanation != "" {
		out.Explanation = explanation
	}
	return out, nil
}
