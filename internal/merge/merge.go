// Package merge reconciles validated Questions with the loose AnswerRecords
// recovered from an answer key.
package merge

import (
	"log/slog"

	"github.com/tradecbt/exam-parser/internal/entity"
	"github.com/tradecbt/exam-parser/internal/validate"
)

// compositeKey disambiguates same-numbered questions across subjects.
type compositeKey struct {
	subject string
	id      int
}

// Answers merges answer records into questions. Lookup is by (normalized
// subject, id) first, then by id alone. A matched record's raw answer is
// normalized against the question's options; normalization failure leaves the
// answer empty, never a raw token. Output length and order always equal the
// input question sequence. Total function, it never fails.
func Answers(questions []entity.Question, records []entity.AnswerRecord, logger *slog.Logger) []entity.Question {
	if logger == nil {
		logger = slog.Default()
	}

	subjectMap := make(map[compositeKey]entity.AnswerRecord)
	idOnlyMap := make(map[int]entity.AnswerRecord)
	for _, rec := range records {
		if rec.ID == 0 {
			continue
		}
		if subj := entity.NormalizeSubject(rec.Subject); subj != "" {
			subjectMap[compositeKey{subject: subj, id: rec.ID}] = rec
		}
		idOnlyMap[rec.ID] = rec
	}

	merged := make([]entity.Question, 0, len(questions))
	matchedCount := 0

	for _, q := range questions {
		rec, found := subjectMap[compositeKey{subject: entity.NormalizeSubject(q.Subject), id: q.ID}]
		if !found {
			rec, found = idOnlyMap[q.ID]
		}
		if !found {
			merged = append(merged, q)
			continue
		}

		matched := validate.MatchAnswerToOption(rec.Answer, q.Options)
		explanation := rec.Explanation
		if explanation == "" {
			explanation = q.Explanation
		}

		newQ, err := q.WithAnswer(matched, explanation)
		if err != nil {
			logger.Warn("merge.answer_failed", "question_id", q.ID, "error", err)
			merged = append(merged, q)
			continue
		}
		if matched != "" {
			matchedCount++
		}
		merged = append(merged, newQ)
	}

	logger.Info("merge.ok",
		"matched", matchedCount,
		"questions", len(questions),
		"records", len(records),
	)
	return merged
}
