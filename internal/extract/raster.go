package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tradecbt/exam-parser/internal/common"
)

// PageImage is one rendered page for vision-mode extraction.
type PageImage struct {
	Number    int
	PNGBase64 string
}

// RenderPages rasterizes every page to a base64 PNG at the configured DPI.
// Used for scanned documents where text extraction has nothing to work with.
func (e *Extractor) RenderPages(ctx context.Context, data []byte) ([]PageImage, error) {
	start := time.Now()

	if _, err := e.checkDocument(data); err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "exam-render-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			e.logger.Warn("extract.render.cleanup_failed", "dir", path, "error", err)
		}
	}(tmpDir)

	src := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.VisionDPI), "-png", src, prefix)
	if err != nil {
		return nil, common.NewAppError("RENDER_FAILED",
			truncate(string(errb), 1<<10),
			fmt.Errorf("%w: %w", common.ErrUnextractable, err))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, common.NewAppError("RENDER_FAILED", "pdftoppm produced no images", common.ErrUnextractable)
	}

	images := make([]PageImage, 0, len(matches))
	for i, img := range matches {
		b, err := os.ReadFile(img)
		if err != nil {
			e.logger.Warn("extract.render.page_read_failed", "file", img, "error", err)
			continue
		}
		images = append(images, PageImage{
			Number:    pageNumberFromName(img, i+1),
			PNGBase64: base64.StdEncoding.EncodeToString(b),
		})
	}

	e.logger.Info("extract.render.ok",
		"pages", len(images),
		"dpi", e.cfg.VisionDPI,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return images, nil
}

// GroupPages batches consecutive pages so one vision call can follow a
// passage that spans neighboring pages.
func GroupPages(images []PageImage, perGroup int) [][]PageImage {
	if perGroup <= 0 {
		perGroup = 3
	}
	var groups [][]PageImage
	for i := 0; i < len(images); i += perGroup {
		end := min(i+perGroup, len(images))
		groups = append(groups, images[i:end])
	}
	return groups
}

// pageNumberFromName parses the trailing page index pdftoppm appends
// ("page-07.png" -> 7), falling back to the positional index.
func pageNumberFromName(path string, fallback int) int {
	base := strings.TrimSuffix(filepath.Base(path), ".png")
	idx := strings.LastIndex(base, "-")
	if idx < 0 {
		return fallback
	}
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
