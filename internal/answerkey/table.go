// Package answerkey parses the rigid answer-table layout without any model
// involvement: N subjects × 30 answers, printed as repeating blocks of 5
// question numbers followed by 5 circled-digit answers, subjects interleaved
// row by row.
package answerkey

import (
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/tradecbt/exam-parser/internal/entity"
)

const (
	groupSize = 5             // question numbers per subject block
	blockSize = groupSize * 2 // numbers + answers
)

var circled = map[string]bool{
	"①": true, "②": true, "③": true, "④": true, "⑤": true,
	"⑥": true, "⑦": true, "⑧": true, "⑨": true, "⑩": true,
}

var digitsRe = regexp.MustCompile(`^\d+$`)

// ParseTable deterministically parses an answer table from extracted text.
// It returns nil whenever the text does not look like the rigid layout or the
// recovered table fails validation (all-or-nothing, never a partial table),
// signalling the caller to fall back to the LLM path.
func ParseTable(text string, logger *slog.Logger) []entity.AnswerRecord {
	if logger == nil {
		logger = slog.Default()
	}

	foundSubjects := detectSubjects(text)
	if len(foundSubjects) < 2 {
		return nil
	}
	numSubjects := len(foundSubjects)

	tokens := collectTokens(text)
	if len(tokens) == 0 {
		return nil
	}

	rowBlock := blockSize * numSubjects

	var answers []entity.AnswerRecord
	pos := 0
	for pos+rowBlock <= len(tokens) {
		for subjIdx := 0; subjIdx < numSubjects; subjIdx++ {
			blockStart := pos + subjIdx*blockSize
			answers = append(answers, zipBlock(
				tokens[blockStart:blockStart+groupSize],
				tokens[blockStart+groupSize:blockStart+blockSize],
				foundSubjects[subjIdx],
			)...)
		}
		pos += rowBlock
	}

	// leftover tail too short for a full row: best-effort, one subject
	// block at a time
	remaining := tokens[pos:]
	remPos := 0
	subjIdx := 0
	for remPos+blockSize <= len(remaining) && subjIdx < numSubjects {
		answers = append(answers, zipBlock(
			remaining[remPos:remPos+groupSize],
			remaining[remPos+groupSize:remPos+blockSize],
			foundSubjects[subjIdx],
		)...)
		remPos += blockSize
		subjIdx++
	}

	// sanity floor: at least one full row-block (10 tokens, 5 records)
	// per detected subject
	if len(answers) < numSubjects*groupSize {
		logger.Warn("answerkey.table.too_few",
			"records", len(answers),
			"floor", numSubjects*groupSize,
		)
		return nil
	}

	// within each subject the collected IDs must already be a gapless
	// sorted unique sequence; any mis-tokenization discards everything
	subjectIDs := make(map[string][]int)
	for _, a := range answers {
		subjectIDs[a.Subject] = append(subjectIDs[a.Subject], a.ID)
	}
	for subj, ids := range subjectIDs {
		uniq := slices.Clone(ids)
		slices.Sort(uniq)
		uniq = slices.Compact(uniq)
		if !slices.Equal(ids, uniq) || !gaplessFromOne(ids) {
			logger.Warn("answerkey.table.id_mismatch", "subject", subj)
			return nil
		}
	}

	logger.Info("answerkey.table.ok",
		"records", len(answers),
		"subjects", numSubjects,
	)
	return answers
}

// gaplessFromOne reports whether ids is exactly 1, 2, ..., n.
func gaplessFromOne(ids []int) bool {
	for i, id := range ids {
		if id != i+1 {
			return false
		}
	}
	return true
}

// detectSubjects returns the closed-set subject names present as headers, in
// vocabulary order. Header characters may be separated by whitespace.
func detectSubjects(text string) []string {
	var found []string
	for _, name := range entity.Subjects() {
		runes := []rune(name)
		parts := make([]string, len(runes))
		for i, r := range runes {
			parts[i] = regexp.QuoteMeta(string(r))
		}
		spaced := regexp.MustCompile(strings.Join(parts, `\s*`))
		if spaced.MatchString(text) {
			found = append(found, name)
		}
	}
	return found
}

// collectTokens keeps, in document order, every line that is purely a decimal
// integer or a single circled-digit glyph. Data starts after the last
// occurrence of a column-header label.
func collectTokens(text string) []string {
	lines := strings.Split(text, "\n")

	dataStart := 0
	for idx, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "문제번호" || stripped == "정답" {
			dataStart = idx + 1
		}
	}

	var tokens []string
	for _, line := range lines[dataStart:] {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if digitsRe.MatchString(stripped) || circled[stripped] {
			tokens = append(tokens, stripped)
		}
	}
	return tokens
}

// zipBlock pairs 5 question-number tokens with 5 answer tokens.
func zipBlock(numbers, answerTokens []string, subject string) []entity.AnswerRecord {
	var out []entity.AnswerRecord
	for j := 0; j < groupSize; j++ {
		qnum, err := strconv.Atoi(numbers[j])
		if err != nil {
			continue
		}
		answer := ""
		if j < len(answerTokens) {
			answer = answerTokens[j]
		}
		out = append(out, entity.AnswerRecord{
			ID:      qnum,
			Subject: subject,
			Answer:  answer,
		})
	}
	return out
}
