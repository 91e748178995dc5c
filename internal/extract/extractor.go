package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tradecbt/exam-parser/internal/common"
)

// nearEmptyChars is the per-page non-whitespace floor below which a page
// counts as near-empty for the scanned-document heuristic.
const nearEmptyChars = 20

// PageText is the extracted text of one page, underline markers included.
type PageText struct {
	Number int
	Text   string
}

// TextResult is the output of text-mode extraction.
type TextResult struct {
	Pages []PageText
	// LikelyScanned is set when more than half of the pages carry almost
	// no text. The caller may prefer the vision path in that case.
	LikelyScanned bool
}

// Tagged returns the full document text with [PAGE n] markers, the shape the
// segmenter and the LLM prompts consume.
func (r TextResult) Tagged() string {
	var b strings.Builder
	for _, p := range r.Pages {
		fmt.Fprintf(&b, "\n[PAGE %d]\n%s\n", p.Number, p.Text)
	}
	return b.String()
}

// Extractor turns raw PDF bytes into per-page text or per-page raster images.
type Extractor struct {
	cfg    common.ExtractConfig
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg common.ExtractConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 200
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 100
	}
	if cfg.VisionDPI <= 0 {
		cfg.VisionDPI = 200
	}
	if cfg.PagesPerGroup <= 0 {
		cfg.PagesPerGroup = 3
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// pageCount opens the document through pdfcpu (relaxed validation) purely to
// establish that it is a readable PDF and to get an authoritative page count.
func (e *Extractor) pageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, common.NewAppError("UNOPENABLE", "failed to read PDF", fmt.Errorf("%w: %w", common.ErrUnopenable, err))
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, common.NewAppError("UNOPENABLE", "failed to resolve page count", fmt.Errorf("%w: %w", common.ErrUnopenable, err))
	}
	return ctx.PageCount, nil
}

// checkDocument validates input bytes and enforces the page ceiling before
// any per-page work is done.
func (e *Extractor) checkDocument(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, common.NewAppError("EMPTY_INPUT", "PDF bytes are empty", common.ErrEmptyInput)
	}
	pages, err := e.pageCount(data)
	if err != nil {
		return 0, err
	}
	if pages > e.cfg.MaxPages {
		return 0, common.NewAppError("SIZE_LIMIT",
			fmt.Sprintf("PDF has %d pages, limit is %d", pages, e.cfg.MaxPages),
			common.ErrSizeLimit)
	}
	return pages, nil
}

// ExtractText extracts per-page text with underline markers.
// Fails with an input error when the bytes are empty or unopenable, a size
// limit error above the page ceiling, and an unextractable-content error when
// the document carries no usable text signal.
func (e *Extractor) ExtractText(data []byte) (TextResult, error) {
	start := time.Now()

	pageTotal, err := e.checkDocument(data)
	if err != nil {
		return TextResult{}, err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return TextResult{}, common.NewAppError("UNOPENABLE", "failed to open PDF", fmt.Errorf("%w: %w", common.ErrUnopenable, err))
	}

	result := TextResult{Pages: make([]PageText, 0, pageTotal)}
	totalChars := 0
	nearEmpty := 0

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			nearEmpty++
			result.Pages = append(result.Pages, PageText{Number: pageNum})
			continue
		}

		text := e.pageText(page, pageNum)
		chars := nonWhitespaceLen(text)
		totalChars += chars
		if chars < nearEmptyChars {
			nearEmpty++
		}
		result.Pages = append(result.Pages, PageText{Number: pageNum, Text: text})
	}

	if totalChars < e.cfg.MinTextChars {
		return TextResult{}, common.NewAppError("UNEXTRACTABLE",
			fmt.Sprintf("only %d non-whitespace chars extracted; document is likely scanned", totalChars),
			common.ErrUnextractable)
	}

	if len(result.Pages) > 0 && nearEmpty*2 > len(result.Pages) {
		result.LikelyScanned = true
		e.logger.Warn("extract.text.likely_scanned",
			"near_empty_pages", nearEmpty,
			"pages", len(result.Pages),
		)
	}

	e.logger.Info("extract.text.ok",
		"pages", len(result.Pages),
		"chars", totalChars,
		"likely_scanned", result.LikelyScanned,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// pageText assembles one page's text from positioned rows, wrapping underlined
// spans with [[u]]..[[/u]] markers. Underline detection is best-effort: any
// failure degrades to plain text for the page.
func (e *Extractor) pageText(page pdf.Page, pageNum int) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		// fall back to the library's flat text; no underline markers
		plain, perr := page.GetPlainText(nil)
		if perr != nil {
			e.logger.Warn("extract.text.page_failed", "page", pageNum, "error", err)
			return ""
		}
		return plain
	}

	strokes := underlineStrokes(page.Content())

	var b strings.Builder
	for _, row := range rows {
		spans := groupSpans(row.Content)
		line := renderLine(spans, strokes)
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func nonWhitespaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
