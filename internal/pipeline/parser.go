// Package pipeline wires the document extractor, segmenter, deterministic
// answer parser and LLM client into the two parse entry points consumed by
// the exam-taking layer.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tradecbt/exam-parser/internal/answerkey"
	"github.com/tradecbt/exam-parser/internal/common"
	"github.com/tradecbt/exam-parser/internal/entity"
	"github.com/tradecbt/exam-parser/internal/extract"
	"github.com/tradecbt/exam-parser/internal/llm"
	"github.com/tradecbt/exam-parser/internal/llm/openai"
	"github.com/tradecbt/exam-parser/internal/segment"
)

// Parser is the document-to-structured-data pipeline. Each parse invocation
// is independent and stateless; the only cross-call state is a cached client
// handle, discarded whenever the API key changes.
type Parser struct {
	cfg       *common.Config
	logger    *slog.Logger
	extractor *extract.Extractor
	segmenter *segment.Segmenter

	mu        sync.Mutex
	questions llm.QuestionExtractor
	answers   llm.AnswerExtractor
}

// Option overrides a Parser collaborator, mainly for tests.
type Option func(*Parser)

func WithQuestionExtractor(qe llm.QuestionExtractor) Option {
	return func(p *Parser) { p.questions = qe }
}

func WithAnswerExtractor(ae llm.AnswerExtractor) Option {
	return func(p *Parser) { p.answers = ae }
}

func NewParser(cfg *common.Config, logger *slog.Logger, opts ...Option) *Parser {
	if cfg == nil {
		cfg = common.LoadConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{
		cfg:       cfg,
		logger:    logger,
		extractor: extract.NewExtractor(cfg.Extract, logger),
		segmenter: segment.NewSegmenter(cfg.Segment, logger),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// SetAPIKey rotates the extraction credential. Any cached client handle is
// invalidated; the next call re-authenticates with a fresh one.
func (p *Parser) SetAPIKey(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.LLM.APIKey = key
	p.questions = nil
	p.answers = nil
}

// clients returns the cached extractor handles, constructing them on demand.
func (p *Parser) clients() (llm.QuestionExtractor, llm.AnswerExtractor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.questions == nil || p.answers == nil {
		client := openai.NewClient(openai.Config{
			APIKey:      p.cfg.LLM.APIKey,
			BaseURL:     p.cfg.LLM.BaseURL,
			Model:       p.cfg.LLM.Model,
			Temperature: p.cfg.LLM.Temperature,
			Timeout:     p.cfg.LLM.Timeout,
		}, p.logger)
		if p.questions == nil {
			p.questions = client
		}
		if p.answers == nil {
			p.answers = client
		}
	}
	return p.questions, p.answers
}

// ParseQuestions converts a question-booklet PDF into validated Questions.
// Document-level failures (empty input, page ceiling, no extractable signal)
// are fatal; a single section's failure only reduces the item count.
func (p *Parser) ParseQuestions(ctx context.Context, pdfBytes []byte) ([]entity.Question, error) {
	start := time.Now()

	text, err := p.extractor.ExtractText(pdfBytes)
	if err != nil {
		if errors.Is(err, common.ErrUnextractable) {
			// no text signal at all; the vision path is the only option
			return p.parseQuestionsVision(ctx, pdfBytes, err)
		}
		return nil, err
	}

	if text.LikelyScanned {
		if questions, verr := p.parseQuestionsVision(ctx, pdfBytes, nil); verr == nil {
			return questions, nil
		}
		p.logger.Warn("pipeline.questions.vision_failed_using_text")
	}

	qe, _ := p.clients()
	sections := p.segmenter.Split(text.Tagged())

	questions := gather(ctx, p.cfg.Workers, len(sections), p.logger,
		func(ctx context.Context, idx int) ([]entity.Question, error) {
			sec := sections[idx]
			return qe.ExtractQuestions(ctx, llm.QuestionRequest{
				Text:        sec.Text,
				SubjectHint: baseSubject(sec.Subject),
				DefaultPage: sec.FirstPage(),
			})
		})

	p.logger.Info("pipeline.questions.ok",
		"mode", "text",
		"sections", len(sections),
		"questions", len(questions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return questions, nil
}

// baseSubject drops the "#k" chunk suffix the segmenter appends when it
// re-splits an oversized section.
func baseSubject(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

// parseQuestionsVision renders page groups and extracts per group. textErr is
// the text-mode failure to surface when rendering is impossible too.
func (p *Parser) parseQuestionsVision(ctx context.Context, pdfBytes []byte, textErr error) ([]entity.Question, error) {
	start := time.Now()

	images, err := p.extractor.RenderPages(ctx, pdfBytes)
	if err != nil {
		if textErr != nil {
			return nil, textErr
		}
		return nil, err
	}

	qe, _ := p.clients()
	groups := extract.GroupPages(images, p.cfg.Extract.PagesPerGroup)

	questions := gather(ctx, p.cfg.Workers, len(groups), p.logger,
		func(ctx context.Context, idx int) ([]entity.Question, error) {
			group := groups[idx]
			pages := make([]llm.ImagePage, len(group))
			for i, img := range group {
				pages[i] = llm.ImagePage{Number: img.Number, PNGBase64: img.PNGBase64}
			}
			return qe.ExtractQuestions(ctx, llm.QuestionRequest{
				Images:      pages,
				DefaultPage: group[0].Number,
			})
		})

	p.logger.Info("pipeline.questions.ok",
		"mode", "vision",
		"groups", len(groups),
		"questions", len(questions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return questions, nil
}

// ParseAnswerKey converts an answer-key PDF into AnswerRecords. It never
// fails for malformed content: the deterministic table parser is tried first,
// the LLM fallback second, and total failure yields an empty result.
func (p *Parser) ParseAnswerKey(ctx context.Context, pdfBytes []byte) ([]entity.AnswerRecord, error) {
	start := time.Now()

	if len(pdfBytes) == 0 {
		return nil, nil
	}

	text, err := p.extractor.ExtractText(pdfBytes)
	if err != nil {
		p.logger.Error("pipeline.answers.extract_failed", "error", err)
		return nil, nil
	}

	var plain strings.Builder
	for _, page := range text.Pages {
		plain.WriteString(page.Text)
		plain.WriteString("\n")
	}

	if records := answerkey.ParseTable(plain.String(), p.logger); records != nil {
		p.logger.Info("pipeline.answers.ok",
			"mode", "deterministic",
			"records", len(records),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return records, nil
	}

	p.logger.Info("pipeline.answers.fallback_to_llm")
	_, ae := p.clients()
	sections := p.segmenter.Split(text.Tagged())

	records := gather(ctx, p.cfg.Workers, len(sections), p.logger,
		func(ctx context.Context, idx int) ([]entity.AnswerRecord, error) {
			sec := sections[idx]
			return ae.ExtractAnswers(ctx, llm.AnswerRequest{
				Text:        sec.Text,
				SubjectHint: baseSubject(sec.Subject),
			})
		})

	p.logger.Info("pipeline.answers.ok",
		"mode", "llm",
		"sections", len(sections),
		"records", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return records, nil
}
