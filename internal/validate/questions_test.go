package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionsFromJSONObjectForm(t *testing.T) {
	raw := `{"questions": [
		{"id": 1, "subject": "무역규범", "question_text": "다음 중 옳은 것은?",
		 "options": ["① 가", "② 나", "③ 다", "④ 라"], "answer": "② 나", "page_number": 3}
	]}`

	questions, ok := QuestionsFromJSON(raw, 1, "", nil)
	require.True(t, ok)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, 1, q.ID)
	assert.Equal(t, "무역규범", q.Subject)
	assert.Equal(t, "② 나", q.Answer)
	assert.Equal(t, 3, q.PageNumber)
}

func TestQuestionsFromJSONBareList(t *testing.T) {
	raw := `[{"question_text": "문제?", "options": ["① 가", "② 나"]}]`

	questions, ok := QuestionsFromJSON(raw, 7, "무역영어", nil)
	require.True(t, ok)
	require.Len(t, questions, 1)

	// hint and default page fill in what the model omitted
	assert.Equal(t, "무역영어", questions[0].Subject)
	assert.Equal(t, 7, questions[0].PageNumber)
}

func TestQuestionsFromJSONStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"questions\": [{\"question_text\": \"문제?\", \"options\": [\"① 가\", \"② 나\"]}]}\n```"

	questions, ok := QuestionsFromJSON(raw, 1, "", nil)
	require.True(t, ok)
	assert.Len(t, questions, 1)
}

func TestQuestionsFromJSONDropsInvalidItems(t *testing.T) {
	raw := `{"questions": [
		{"options": ["① 가", "② 나"]},
		{"question_text": "옵션 부족", "options": ["① 가"]},
		{"question_text": "정상 문제?", "options": ["① 가", "② 나"]}
	]}`

	questions, ok := QuestionsFromJSON(raw, 1, "", nil)
	require.True(t, ok)
	require.Len(t, questions, 1)
	assert.Equal(t, "정상 문제?", questions[0].QuestionText)
}

func TestQuestionsFromJSONSplitsRunOnOptions(t *testing.T) {
	raw := `{"questions": [
		{"question_text": "문제?", "options": ["① 가 ② 나 ③ 다 ④ 라"], "answer": "3"}
	]}`

	questions, ok := QuestionsFromJSON(raw, 1, "", nil)
	require.True(t, ok)
	require.Len(t, questions, 1)

	assert.Equal(t, []string{"① 가", "② 나", "③ 다", "④ 라"}, questions[0].Options)
	assert.Equal(t, "③ 다", questions[0].Answer)
}

func TestQuestionsFromJSONUnmatchableAnswerDropped(t *testing.T) {
	raw := `{"questions": [
		{"question_text": "문제?", "options": ["① 가", "② 나"], "answer": "⑨"}
	]}`

	questions, ok := QuestionsFromJSON(raw, 1, "", nil)
	require.True(t, ok)
	require.Len(t, questions, 1)
	assert.Empty(t, questions[0].Answer)
}

func TestQuestionsFromJSONUnparseable(t *testing.T) {
	_, ok := QuestionsFromJSON("죄송하지만 추출할 수 없습니다.", 1, "", nil)
	assert.False(t, ok)

	_, ok = QuestionsFromJSON(`{"questions": [truncated`, 1, "", nil)
	assert.False(t, ok)
}

func TestQuestionsFromJSONEmptyListIsOK(t *testing.T) {
	questions, ok := QuestionsFromJSON(`{"questions": []}`, 1, "", nil)
	assert.True(t, ok)
	assert.Empty(t, questions)
}

func TestAnswersFromJSON(t *testing.T) {
	raw := `{"answers": [
		{"id": 1, "subject": "무역결제", "answer": "③", "explanation": "해설"},
		{"id": "2", "answer": "①"}
	]}`

	records, ok := AnswersFromJSON(raw, "무역규범", nil)
	require.True(t, ok)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, "무역결제", records[0].Subject)
	assert.Equal(t, "③", records[0].Answer)

	// string ids coerce, missing subject takes the hint
	assert.Equal(t, 2, records[1].ID)
	assert.Equal(t, "무역규범", records[1].Subject)
}

func TestAnswersFromJSONDropsIncompleteItems(t *testing.T) {
	raw := `{"answers": [
		{"id": 3},
		{"answer": "②"},
		{"id": 4, "answer": "④"}
	]}`

	records, ok := AnswersFromJSON(raw, "", nil)
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].ID)
}
