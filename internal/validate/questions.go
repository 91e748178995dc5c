// Package validate repairs and validates raw model output, turning it into
// entity values. Item-level failures are logged and dropped; they never fail
// the batch.
package validate

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tradecbt/exam-parser/internal/entity"
	"github.com/tradecbt/exam-parser/internal/llm"
)

var circledGlyphs = []rune("①②③④⑤⑥⑦⑧⑨⑩")

// QuestionsFromJSON parses a model response into validated Questions.
// The boolean is false only when the response does not contain parseable
// JSON at all, the signal for the caller to re-ask the model. A parseable
// response with zero surviving items returns (nil, true).
func QuestionsFromJSON(raw string, defaultPage int, subjectHint string, logger *slog.Logger) ([]entity.Question, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	items, ok := decodeItems(raw, "questions")
	if !ok {
		return nil, false
	}

	var questions []entity.Question
	for idx, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if err := llm.ValidateJSONAgainstSchema(llm.QuestionItemSchema(), mustMarshal(m)); err != nil {
			logger.Warn("validate.question.schema_reject", "index", idx, "error", err)
			continue
		}

		questionText := strings.TrimSpace(asString(m["question_text"]))
		options := asStringSlice(m["options"])
		if questionText == "" || len(options) == 0 {
			continue
		}

		// a single run-on string containing option markers is split into
		// separate options
		if len(options) == 1 {
			if parts := splitRunOnOptions(options[0]); len(parts) >= 2 {
				options = parts
			}
		}

		answer := strings.TrimSpace(asString(m["answer"]))
		if answer != "" && !contains(options, answer) {
			answer = MatchAnswerToOption(answer, options)
		}

		subject := strings.TrimSpace(asString(m["subject"]))
		if subject == "" {
			subject = subjectHint
		}
		if subject == "" {
			subject = string(entity.General)
		}

		page := asInt(m["page_number"])
		if page == 0 {
			page = defaultPage
		}

		q, err := entity.NewQuestion(
			asInt(m["id"]),
			subject,
			asString(m["context"]),
			questionText,
			options,
			answer,
			asString(m["explanation"]),
			page,
		)
		if err != nil {
			logger.Warn("validate.question.rejected", "index", idx, "error", err)
			continue
		}
		questions = append(questions, q)
	}

	return questions, true
}

// AnswersFromJSON parses a model response into AnswerRecords. Same boolean
// contract as QuestionsFromJSON.
func AnswersFromJSON(raw string, subjectHint string, logger *slog.Logger) ([]entity.AnswerRecord, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	items, ok := decodeItems(raw, "answers")
	if !ok {
		return nil, false
	}

	var records []entity.AnswerRecord
	for idx, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if err := llm.ValidateJSONAgainstSchema(llm.AnswerItemSchema(), mustMarshal(m)); err != nil {
			logger.Warn("validate.answer.schema_reject", "index", idx, "error", err)
			continue
		}

		subject := strings.TrimSpace(asString(m["subject"]))
		if subject == "" {
			subject = subjectHint
		}

		records = append(records, entity.AnswerRecord{
			ID:          asInt(m["id"]),
			Subject:     subject,
			Answer:      strings.TrimSpace(asString(m["answer"])),
			Explanation: asString(m["explanation"]),
		})
	}

	return records, true
}

// decodeItems cleans the raw response and returns the item list, accepting
// either a bare list or an object with the named list field (or "items").
func decodeItems(raw, field string) ([]any, bool) {
	cleaned := llm.CleanJSONResponse(raw)
	if cleaned == "" {
		return nil, false
	}

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, false
	}

	switch v := data.(type) {
	case []any:
		return v, true
	case map[string]any:
		if list, ok := v[field].([]any); ok {
			return list, true
		}
		if list, ok := v["items"].([]any); ok {
			return list, true
		}
		return nil, true
	default:
		return nil, false
	}
}

// splitRunOnOptions breaks a string at each circled-digit marker, keeping the
// markers with their option text.
func splitRunOnOptions(s string) []string {
	starts := []int{}
	for i, r := range s {
		for _, g := range circledGlyphs {
			if r == g {
				starts = append(starts, i)
				break
			}
		}
	}
	if len(starts) < 2 {
		return nil
	}

	var parts []string
	for i, start := range starts {
		end := len(s)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if p := strings.TrimSpace(s[start:end]); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func contains(options []string, s string) bool {
	for _, opt := range options {
		if opt == s {
			return true
		}
	}
	return false
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n := 0
		for _, r := range t {
			if r < '0' || r > '9' {
				return 0
			}
			n = n*10 + int(r-'0')
		}
		return n
	default:
		return 0
	}
}

func asStringSlice(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func mustMarshal(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
