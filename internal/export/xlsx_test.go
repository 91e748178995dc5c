package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tradecbt/exam-parser/internal/entity"
)

func TestQuestionsXLSX(t *testing.T) {
	q, err := entity.NewQuestion(3, "무역규범", "다음 지문을 읽고", "옳은 것은?",
		[]string{"① 가", "② 나"}, "② 나", "해설 본문", 12)
	require.NoError(t, err)

	data, err := QuestionsXLSX([]entity.Question{q}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Questions")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"Subject", "No.", "Page", "Context", "Question", "Options", "Answer", "Explanation"}, rows[0])
	assert.Equal(t, "무역규범", rows[1][0])
	assert.Equal(t, "3", rows[1][1])
	assert.Equal(t, "12", rows[1][2])
	assert.Equal(t, "② 나", rows[1][6])
}

func TestQuestionsXLSXEmptyBank(t *testing.T) {
	data, err := QuestionsXLSX(nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Questions")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
