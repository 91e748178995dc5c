package llm

import (
	"context"

	"github.com/tradecbt/exam-parser/internal/entity"
)

// ImagePage is one rendered page attached to a vision request.
type ImagePage struct {
	Number    int
	PNGBase64 string
}

// QuestionRequest asks for every question visible in a section. Either Text
// or Images is set; Images wins when both are present.
type QuestionRequest struct {
	Text        string
	Images      []ImagePage
	SubjectHint string
	// DefaultPage is used for items the model returns without a page number.
	DefaultPage int
}

// AnswerRequest asks for {id, subject, answer, explanation} records from
// answer-key text.
type AnswerRequest struct {
	Text        string
	SubjectHint string
}

// QuestionExtractor is the question-path interface the pipeline depends on.
type QuestionExtractor interface {
	ExtractQuestions(ctx context.Context, req QuestionRequest) ([]entity.Question, error)
}

// AnswerExtractor is the answer-key fallback interface.
type AnswerExtractor interface {
	ExtractAnswers(ctx context.Context, req AnswerRequest) ([]entity.AnswerRecord, error)
}
