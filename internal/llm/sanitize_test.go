package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "plain object untouched",
			response: `{"questions": []}`,
			want:     `{"questions": []}`,
		},
		{
			name:     "json code fence",
			response: "```json\n{\"questions\": []}\n```",
			want:     `{"questions": []}`,
		},
		{
			name:     "bare code fence",
			response: "```\n[1, 2]\n```",
			want:     "[1, 2]",
		},
		{
			name:     "surrounding prose",
			response: "다음은 추출 결과입니다.\n{\"answers\": []}\n이상입니다.",
			want:     `{"answers": []}`,
		},
		{
			name:     "no json at all",
			response: "추출할 수 있는 문제가 없습니다.",
			want:     "",
		},
		{
			name:     "empty response",
			response: "",
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONResponse(tt.response))
		})
	}
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	valid := []byte(`{"question_text": "문제?", "options": ["① 가", "② 나"]}`)
	assert.NoError(t, ValidateJSONAgainstSchema(QuestionItemSchema(), valid))

	missing := []byte(`{"options": ["① 가"]}`)
	assert.Error(t, ValidateJSONAgainstSchema(QuestionItemSchema(), missing))

	badType := []byte(`{"question_text": "문제?", "options": "① 가 ② 나"}`)
	assert.Error(t, ValidateJSONAgainstSchema(QuestionItemSchema(), badType))
}

func TestAnswerItemSchemaAcceptsStringIDs(t *testing.T) {
	assert.NoError(t, ValidateJSONAgainstSchema(AnswerItemSchema(), []byte(`{"id": 3, "answer": "②"}`)))
	assert.NoError(t, ValidateJSONAgainstSchema(AnswerItemSchema(), []byte(`{"id": "3", "answer": "②"}`)))
	assert.Error(t, ValidateJSONAgainstSchema(AnswerItemSchema(), []byte(`{"id": 3}`)))
}
