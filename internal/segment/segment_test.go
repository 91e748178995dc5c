package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradecbt/exam-parser/internal/common"
)

func newTestSegmenter(maxChars, chunkPages int) *Segmenter {
	return NewSegmenter(common.SegmentConfig{
		MaxSectionChars: maxChars,
		ChunkPages:      chunkPages,
	}, nil)
}

func TestSplitBySubjectHeaders(t *testing.T) {
	text := "[PAGE 1]\n무역규범\n1. 첫 번째 문제\n무역결제\n2. 두 번째 문제\n"

	sections := newTestSegmenter(0, 0).Split(text)
	require.Len(t, sections, 2)

	assert.Equal(t, "무역규범", sections[0].Subject)
	assert.Contains(t, sections[0].Text, "첫 번째 문제")
	assert.Equal(t, "무역결제", sections[1].Subject)
	assert.Contains(t, sections[1].Text, "두 번째 문제")
}

func TestSplitLetterSpacedHeader(t *testing.T) {
	text := "무 역 규 범\n1. 문제\n무  역  영  어\n2. 문제\n"

	sections := newTestSegmenter(0, 0).Split(text)
	require.Len(t, sections, 2)

	// the normalized subject has inline spacing removed
	assert.Equal(t, "무역규범", sections[0].Subject)
	assert.Equal(t, "무역영어", sections[1].Subject)
}

func TestSplitPrependsPreHeaderText(t *testing.T) {
	text := "[PAGE 1]\n표지 및 안내문\n무역계약\n1. 문제\n"

	sections := newTestSegmenter(0, 0).Split(text)
	require.Len(t, sections, 1)

	assert.Equal(t, "무역계약", sections[0].Subject)
	assert.Contains(t, sections[0].Text, "표지 및 안내문")
	assert.Equal(t, []int{1}, sections[0].Pages)
}

func TestSplitNoHeaderYieldsGenericSection(t *testing.T) {
	text := "[PAGE 1]\n1. 과목 표시가 없는 문제\n[PAGE 2]\n2. 다음 문제\n"

	sections := newTestSegmenter(0, 0).Split(text)
	require.Len(t, sections, 1)

	assert.Equal(t, "일반", sections[0].Subject)
	assert.Equal(t, []int{1, 2}, sections[0].Pages)
}

func TestSplitOrdinalHeaders(t *testing.T) {
	text := "제1과목\n1. 문제\n제 2 과목\n2. 문제\n"

	sections := newTestSegmenter(0, 0).Split(text)
	require.Len(t, sections, 2)
	assert.Equal(t, "제1과목", sections[0].Subject)
	assert.Equal(t, "제2과목", sections[1].Subject)
}

func TestChunkOversizedSectionByPages(t *testing.T) {
	filler := strings.Repeat("문제 본문 ", 40)
	var b strings.Builder
	b.WriteString("무역규범\n")
	for p := 1; p <= 4; p++ {
		fmt.Fprintf(&b, "[PAGE %d]\n%s\n", p, filler)
	}

	sections := newTestSegmenter(200, 2).Split(b.String())
	require.Len(t, sections, 2)

	assert.Equal(t, "무역규범#1", sections[0].Subject)
	assert.Equal(t, []int{1, 2}, sections[0].Pages)
	assert.Equal(t, "무역규범#2", sections[1].Subject)
	assert.Equal(t, []int{3, 4}, sections[1].Pages)
}

func TestChunkUnsplittableSectionPassesThrough(t *testing.T) {
	// oversized but without page markers: nothing to split on
	text := "무역결제\n" + strings.Repeat("본문 ", 200)

	sections := newTestSegmenter(100, 2).Split(text)
	require.Len(t, sections, 1)
	assert.Equal(t, "무역결제", sections[0].Subject)
}
