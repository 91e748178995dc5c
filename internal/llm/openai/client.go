package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tradecbt/exam-parser/internal/common"
	"github.com/tradecbt/exam-parser/internal/entity"
	"github.com/tradecbt/exam-parser/internal/llm"
	"github.com/tradecbt/exam-parser/internal/validate"
)

// callOutcome tags a single API attempt so the retry loop is driven by
// inspecting the tag, not by exception shapes.
type callOutcome int

const (
	outcomeOK callOutcome = iota
	outcomeRetryable
	outcomeRateLimited
	outcomeFatal
)

// ExtractQuestions implements llm.QuestionExtractor for both text sections
// and vision page groups.
func (c *Client) ExtractQuestions(ctx context.Context, req llm.QuestionRequest) ([]entity.Question, error) {
	rid := uuid.New().String()
	start := time.Now()

	var system string
	var user any
	if len(req.Images) > 0 {
		system = llm.QuestionVisionSystemPrompt()
		user = visionContent(req.Images)
	} else {
		system = llm.QuestionTextSystemPrompt()
		user = llm.QuestionUserText(req.SubjectHint, req.Text)
	}

	c.logger.Info("llm.questions.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"subject_hint", req.SubjectHint,
		"text_len", len(req.Text),
		"images", len(req.Images),
	)

	raw, err := c.callWithRetry(ctx, rid, system, user)
	if err != nil {
		return nil, err
	}

	questions, ok := validate.QuestionsFromJSON(raw, req.DefaultPage, req.SubjectHint, c.logger)
	if !ok {
		// one re-ask demanding pure JSON; a second failure yields no items
		raw, err = c.callWithRetry(ctx, rid, system+llm.JSONOnlyReminder, user)
		if err != nil {
			return nil, err
		}
		questions, ok = validate.QuestionsFromJSON(raw, req.DefaultPage, req.SubjectHint, c.logger)
		if !ok {
			c.logger.Error("llm.questions.unparseable",
				"req_id", rid,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil, nil
		}
	}

	c.logger.Info("llm.questions.ok",
		"req_id", rid,
		"count", len(questions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return questions, nil
}

// ExtractAnswers implements llm.AnswerExtractor.
func (c *Client) ExtractAnswers(ctx context.Context, req llm.AnswerRequest) ([]entity.AnswerRecord, error) {
	rid := uuid.New().String()
	start := time.Now()

	system := llm.AnswerSystemPrompt()
	user := llm.AnswerUserText(req.SubjectHint, req.Text)

	c.logger.Info("llm.answers.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"subject_hint", req.SubjectHint,
		"text_len", len(req.Text),
	)

	raw, err := c.callWithRetry(ctx, rid, system, user)
	if err != nil {
		return nil, err
	}

	records, ok := validate.AnswersFromJSON(raw, req.SubjectHint, c.logger)
	if !ok {
		raw, err = c.callWithRetry(ctx, rid, system+llm.JSONOnlyReminder, user)
		if err != nil {
			return nil, err
		}
		records, ok = validate.AnswersFromJSON(raw, req.SubjectHint, c.logger)
		if !ok {
			c.logger.Error("llm.answers.unparseable",
				"req_id", rid,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil, nil
		}
	}

	c.logger.Info("llm.answers.ok",
		"req_id", rid,
		"count", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return records, nil
}

// callWithRetry drives the retry loop over single attempts. Rate limiting
// switches to the longer backoff base and the higher retry ceiling; fatal
// errors stop immediately; exhaustion maps to ErrServiceUnavailable.
func (c *Client) callWithRetry(ctx context.Context, rid, system string, user any) (string, error) {
	retries := c.cfg.MaxRetries
	backoffBase := c.cfg.BackoffBase

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		content, outcome, err := c.attempt(ctx, system, user)
		switch outcome {
		case outcomeOK:
			return content, nil
		case outcomeFatal:
			c.logger.Error("llm.call.fatal", "req_id", rid, "error", err)
			return "", fmt.Errorf("%w: %w", common.ErrServiceUnavailable, err)
		case outcomeRateLimited:
			retries = c.cfg.RateLimitRetries
			backoffBase = c.cfg.RateLimitBackoffBase
		}
		lastErr = err

		if attempt >= retries {
			break
		}
		wait := backoff(backoffBase, attempt)
		c.logger.Warn("llm.call.retry",
			"req_id", rid,
			"attempt", attempt,
			"max_attempts", retries,
			"wait", wait.String(),
			"rate_limited", outcome == outcomeRateLimited,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", common.ErrServiceUnavailable, ctx.Err())
		case <-time.After(wait):
		}
	}

	c.logger.Error("llm.call.exhausted", "req_id", rid, "error", lastErr)
	return "", fmt.Errorf("%w: %w", common.ErrServiceUnavailable, lastErr)
}

// backoff computes the exponential delay for a 1-based attempt counter.
func backoff(base time.Duration, attempt int) time.Duration {
	return base << (attempt - 1)
}

// attempt issues exactly one chat/completions call and classifies the result.
func (c *Client) attempt(ctx context.Context, system string, user any) (string, callOutcome, error) {
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"max_tokens":      16384,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", outcomeFatal, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", outcomeFatal, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// timeouts and connectivity problems are worth another try
		return "", outcomeRetryable, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", outcomeRateLimited, fmt.Errorf("openai rate limited: %s", truncate(raw, 512))
	case resp.StatusCode >= 500:
		return "", outcomeRetryable, fmt.Errorf("openai status %d: %s", resp.StatusCode, truncate(raw, 512))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", outcomeFatal, fmt.Errorf("openai status %d: %s", resp.StatusCode, truncate(raw, 512))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", outcomeFatal, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", outcomeFatal, fmt.Errorf("no choices in openai response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), outcomeOK, nil
}

// visionContent builds the multi-part user message for a page-image group.
func visionContent(images []llm.ImagePage) []map[string]any {
	nums := make([]int, len(images))
	for i, img := range images {
		nums[i] = img.Number
	}
	content := []map[string]any{
		{"type": "text", "text": llm.QuestionUserVisionText(nums)},
	}
	for _, img := range images {
		content = append(content, map[string]any{
			"type": "image_url",
			"image_url": map[string]any{
				"url":    "data:image/png;base64," + img.PNGBase64,
				"detail": "high",
			},
		})
	}
	return content
}

func truncate(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "...(truncated)"
}
