// Package segment splits a tagged document text into independently
// parseable sections, one per detected subject, and re-chunks oversized
// sections along page boundaries.
package segment

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/tradecbt/exam-parser/internal/common"
	"github.com/tradecbt/exam-parser/internal/entity"
)

// Subject headers are often rendered with letter-spacing, so each character
// of a known subject name may be separated by inline whitespace (never a
// newline). Generic ordinal headers are recognized as well.
var headerRe = buildHeaderRe()

func buildHeaderRe() *regexp.Regexp {
	names := append(entity.Subjects(), "무역물류")
	alts := make([]string, 0, len(names)+2)
	for _, name := range names {
		runes := []rune(name)
		parts := make([]string, len(runes))
		for i, r := range runes {
			parts[i] = regexp.QuoteMeta(string(r))
		}
		alts = append(alts, strings.Join(parts, `[^\S\n]*`))
	}
	alts = append(alts, `제\s?\d\s?과목`, `제\s?\d\s?교시`)
	return regexp.MustCompile(strings.Join(alts, "|"))
}

var (
	pageMarkerRe = regexp.MustCompile(`\[PAGE (\d+)\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

type Segmenter struct {
	cfg    common.SegmentConfig
	logger *slog.Logger
}

func NewSegmenter(cfg common.SegmentConfig, logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxSectionChars <= 0 {
		cfg.MaxSectionChars = 12000
	}
	if cfg.ChunkPages <= 0 {
		cfg.ChunkPages = 5
	}
	return &Segmenter{cfg: cfg, logger: logger}
}

// Split cuts the tagged text at subject headers. Text before the first header
// is prepended to the first section (some layouts render the header after its
// content). No header at all yields a single generic section.
func (s *Segmenter) Split(text string) []entity.Section {
	locs := headerRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return s.chunk([]entity.Section{{
			Subject: string(entity.General),
			Text:    text,
			Pages:   pagesIn(text),
		}})
	}

	preHeader := strings.TrimSpace(text[:locs[0][0]])

	var sections []entity.Section
	for i, loc := range locs {
		subject := whitespaceRe.ReplaceAllString(text[loc[0]:loc[1]], "")

		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := strings.TrimSpace(text[loc[1]:end])

		if preHeader != "" {
			content = preHeader + "\n" + content
			preHeader = ""
		}
		if content == "" {
			continue
		}
		sections = append(sections, entity.Section{
			Subject: subject,
			Text:    content,
			Pages:   pagesIn(content),
		})
	}

	if len(sections) == 0 {
		return s.chunk([]entity.Section{{
			Subject: string(entity.General),
			Text:    text,
			Pages:   pagesIn(text),
		}})
	}

	s.logger.Debug("segment.split", "sections", len(sections))
	return s.chunk(sections)
}

// chunk re-splits any oversized section along page markers into fixed-size
// page chunks so a single LLM call stays within context limits.
func (s *Segmenter) chunk(sections []entity.Section) []entity.Section {
	var out []entity.Section
	for _, sec := range sections {
		if len(sec.Text) <= s.cfg.MaxSectionChars {
			out = append(out, sec)
			continue
		}

		pages := splitByPage(sec.Text)
		if len(pages) <= 1 {
			// no page markers to split on; pass through oversized
			out = append(out, sec)
			continue
		}

		for i := 0; i < len(pages); i += s.cfg.ChunkPages {
			end := min(i+s.cfg.ChunkPages, len(pages))
			var b strings.Builder
			var nums []int
			for _, p := range pages[i:end] {
				fmt.Fprintf(&b, "\n[PAGE %d]\n%s", p.number, p.text)
				nums = append(nums, p.number)
			}
			out = append(out, entity.Section{
				Subject: fmt.Sprintf("%s#%d", sec.Subject, i/s.cfg.ChunkPages+1),
				Text:    strings.TrimSpace(b.String()),
				Pages:   nums,
			})
		}
		s.logger.Debug("segment.chunked",
			"subject", sec.Subject,
			"chars", len(sec.Text),
			"pages", len(pages),
		)
	}
	return out
}

type pageSlice struct {
	number int
	text   string
}

func splitByPage(text string) []pageSlice {
	locs := pageMarkerRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	var out []pageSlice
	for i, loc := range locs {
		num, _ := strconv.Atoi(text[loc[2]:loc[3]])
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out = append(out, pageSlice{number: num, text: strings.TrimSpace(text[loc[1]:end])})
	}
	return out
}

func pagesIn(text string) []int {
	var out []int
	for _, m := range pageMarkerRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out = append(out, n)
		}
	}
	return out
}
