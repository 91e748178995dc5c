package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradecbt/exam-parser/internal/common"
)

func TestExtractTextEmptyInput(t *testing.T) {
	e := NewExtractor(common.ExtractConfig{}, nil)

	_, err := e.ExtractText(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEmptyInput)
}

func TestExtractTextUnopenableInput(t *testing.T) {
	e := NewExtractor(common.ExtractConfig{}, nil)

	_, err := e.ExtractText([]byte("this is not a pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnopenable)
}

func TestTaggedOutput(t *testing.T) {
	r := TextResult{Pages: []PageText{
		{Number: 1, Text: "첫 페이지"},
		{Number: 2, Text: "둘째 페이지"},
	}}

	tagged := r.Tagged()
	assert.Contains(t, tagged, "[PAGE 1]\n첫 페이지")
	assert.Contains(t, tagged, "[PAGE 2]\n둘째 페이지")
}

func TestNonWhitespaceLen(t *testing.T) {
	assert.Equal(t, 0, nonWhitespaceLen("  \n\t "))
	assert.Equal(t, 4, nonWhitespaceLen(" 무 역 규 범 "))
}
