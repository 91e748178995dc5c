package extract

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// Underline strokes in these documents are drawn as very flat filled
// rectangles just below the text baseline.
const (
	strokeMaxHeight = 2.5 // pt
	strokeMinWidth  = 5.0 // pt
	underlineBelow  = 6.0 // max distance under the baseline
	underlineAbove  = 1.0 // slack above the baseline
	spanGap         = 2.0 // horizontal gap that splits two spans
)

// stroke is a horizontal line-like primitive.
type stroke struct {
	x0, x1, y float64
}

// span is a contiguous run of characters on one row.
type span struct {
	text       string
	x0, x1, y  float64
	underlined bool
}

// underlineStrokes collects the underline candidates from a page's vector
// rectangles. Pages without primitives simply yield an empty slice.
func underlineStrokes(content pdf.Content) []stroke {
	var out []stroke
	for _, r := range content.Rect {
		h := r.Max.Y - r.Min.Y
		w := r.Max.X - r.Min.X
		if h < 0 {
			h = -h
		}
		if w < 0 {
			r.Min.X, r.Max.X = r.Max.X, r.Min.X
			w = -w
		}
		if h <= strokeMaxHeight && w >= strokeMinWidth {
			out = append(out, stroke{x0: r.Min.X, x1: r.Max.X, y: r.Max.Y})
		}
	}
	return out
}

// groupSpans merges a row's characters into spans, splitting where the
// horizontal gap between neighbors exceeds spanGap.
func groupSpans(texts []pdf.Text) []span {
	var spans []span
	var cur *span
	var prevEnd float64

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if cur != nil && t.X-prevEnd > spanGap {
			spans = append(spans, *cur)
			cur = nil
		}
		if cur == nil {
			cur = &span{x0: t.X, y: t.Y}
		}
		cur.text += t.S
		cur.x1 = t.X + t.W
		prevEnd = t.X + t.W
	}
	if cur != nil {
		spans = append(spans, *cur)
	}
	return spans
}

// markUnderlined flags each span that has a stroke within tolerance below its
// baseline overlapping more than half of its width.
func markUnderlined(spans []span, strokes []stroke) {
	if len(strokes) == 0 {
		return
	}
	for i := range spans {
		s := &spans[i]
		width := s.x1 - s.x0
		if width <= 0 {
			continue
		}
		for _, st := range strokes {
			if st.y > s.y+underlineAbove || st.y < s.y-underlineBelow {
				continue
			}
			overlap := min(s.x1, st.x1) - max(s.x0, st.x0)
			if overlap > width/2 {
				s.underlined = true
				break
			}
		}
	}
}

// renderLine joins a row's spans into a line of text, wrapping underlined
// spans with explicit markers so downstream consumers preserve emphasis.
func renderLine(spans []span, strokes []stroke) string {
	markUnderlined(spans, strokes)

	var b strings.Builder
	for i, s := range spans {
		if i > 0 {
			b.WriteString(" ")
		}
		if s.underlined {
			b.WriteString("[[u]]")
			b.WriteString(s.text)
			b.WriteString("[[/u]]")
		} else {
			b.WriteString(s.text)
		}
	}
	return b.String()
}
