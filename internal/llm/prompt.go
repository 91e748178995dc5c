package llm

import (
	"fmt"
	"strings"
)

// JSONOnlyReminder is appended when a first response fails to parse.
const JSONOnlyReminder = "\n\n⚠️ 반드시 유효한 JSON 객체만 반환하세요."

const questionFieldSpec = "[각 문제 객체의 필드]\n" +
	"{\n" +
	"  \"id\": (int) 문제 번호,\n" +
	"  \"subject\": (str) 과목명. 반드시 다음 4개 중 하나만 사용: \"무역규범\", \"무역결제\", \"무역계약\", \"무역영어\". " +
	"이 외의 과목명을 만들거나 세분화하지 마라.,\n" +
	"  \"context\": (str|null) 지문. 없으면 null,\n" +
	"  \"question_text\": (str) 문제 본문,\n" +
	"  \"options\": (list[str]) 보기 목록. 원문 그대로,\n" +
	"  \"answer\": (str) 정답. 원문에 정답이 명시되어 있을 때만. 없으면 \"\",\n" +
	"  \"explanation\": (str) 해설. 없으면 \"\",\n" +
	"  \"page_number\": (int) 해당 문제가 있는 페이지 번호\n" +
	"}\n"

const questionRules = "[규칙]\n" +
	"1. 문제가 없으면 {\"questions\": []}을 반환하라.\n" +
	"2. 보기 번호 형식은 원문을 따르라 (①②③④ 등).\n" +
	"3. 하나의 지문에 여러 문제가 딸린 경우, 각 문제마다 context에 동일 지문 전체를 복사해 넣어라. " +
	"절대 지문을 첫 번째 문제에만 넣고 나머지는 null로 하지 마라.\n" +
	"4. options 배열 원소 수는 원문 보기 개수와 정확히 일치해야 한다.\n" +
	"5. question_text에는 보기를 포함하지 마라.\n" +
	"6. answer에는 반드시 options 리스트 안의 전체 텍스트를 넣어라. 정답을 모르면 빈 문자열.\n" +
	"7. id는 과목 내 문제 번호를 사용하라 (과목별 1번부터).\n"

const tableRules = "[★ 표(Table) 처리 — 매우 중요]\n" +
	"표(table)가 있으면 반드시 HTML <table> 형식으로 보존하라.\n" +
	"표를 단순 텍스트로 풀어쓰지 마라. 행/열 구조를 유지해야 한다.\n" +
	"표가 지문(context) 안에 있으면 context에, 문제 본문에 있으면 question_text에 넣어라.\n" +
	"★ 표를 options 안에 넣지 마라. 보기는 항상 순수 텍스트여야 한다.\n"

const contextRules = "[★ 지문(context) 추출 — 매우 중요]\n" +
	"지문이란 문제 앞에 제시되는 참고 텍스트다:\n" +
	"- 영문 지문, 계약서 조항, 사례, 조문, 표, 상황 설명, 보기 전 제시문 등이 해당된다.\n" +
	"- 여러 문제가 하나의 지문을 공유하면, 각 문제의 context에 동일한 지문 전체를 복사해 넣어라.\n" +
	"- 지문이 없는 단독 문제는 context를 null로 하라.\n" +
	"- 이전 페이지에서 시작된 지문이 이어지는 경우, 보이는 부분만 context에 포함하라.\n"

const accuracyRules = "[텍스트 정확성]\n" +
	"- 영어 텍스트(무역영어 지문, 계약서 조항, 약어 등)는 원문 그대로 정확히 옮겨라. " +
	"임의로 띄어쓰기를 변경하거나 단어를 수정하지 마라.\n" +
	"- 약어(L/C, B/L, CIF, FOB, DDP 등)는 원문 그대로 유지하라.\n"

// QuestionVisionSystemPrompt instructs the model to extract every question
// from a group of page images, detecting underlines and preserving tables.
func QuestionVisionSystemPrompt() string {
	return "너는 한국 자격증 시험 PDF 문제지를 이미지에서 파싱하는 전문가다.\n\n" +
		"[임무]\n제공된 시험지 페이지 이미지에서 객관식 문제를 모두 찾아 JSON으로 반환하라.\n\n" +
		"[출력 형식]\n반드시 {\"questions\": [...]} 형태의 JSON 객체로만 응답하라.\n" +
		"마크다운, 설명, 인사말 금지.\n\n" +
		questionFieldSpec + "\n" +
		questionRules + "\n" +
		"[★ 밑줄 처리 — 매우 중요]\n" +
		"이미지에서 밑줄(underline)이 그어진 텍스트를 반드시 감지하라.\n" +
		"밑줄이 있는 텍스트는 [[u]]밑줄 텍스트[[/u]] 형태로 마킹하라.\n" +
		"context, question_text, options 모두에 적용하라.\n" +
		"예: '다음 중 [[u]]옳지 않은 것[[/u]]은?'\n\n" +
		tableRules + "\n" +
		accuracyRules + "\n" +
		contextRules
}

// QuestionTextSystemPrompt is the text-mode variant. Input text carries
// [PAGE n] markers and [[u]]..[[/u]] underline markers from the extractor.
func QuestionTextSystemPrompt() string {
	return "너는 한국 자격증 시험 PDF에서 추출한 텍스트를 파싱하는 전문가다.\n\n" +
		"[임무]\n제공된 시험지 텍스트에서 객관식 문제를 모두 찾아 JSON으로 반환하라.\n\n" +
		"[출력 형식]\n반드시 {\"questions\": [...]} 형태의 JSON 객체로만 응답하라.\n" +
		"마크다운, 설명, 인사말 금지.\n\n" +
		questionFieldSpec + "\n" +
		questionRules + "\n" +
		"[밑줄 마커]\n" +
		"입력 텍스트의 [[u]]...[[/u]] 마커는 원문에서 밑줄이 그어진 부분이다.\n" +
		"마커를 제거하지 말고 context, question_text, options에 그대로 보존하라.\n\n" +
		"[페이지 마커]\n" +
		"[PAGE n] 마커는 원본 페이지 경계다. 각 문제의 page_number에 해당 페이지 번호를 넣어라.\n\n" +
		tableRules + "\n" +
		accuracyRules + "\n" +
		contextRules
}

// AnswerSystemPrompt extracts {id, subject, answer, explanation} records from
// answer-key text.
func AnswerSystemPrompt() string {
	return "너는 한국 자격증 시험 답지(정답표/해설지) 텍스트 파서다.\n\n" +
		"[임무]\n제공된 텍스트에서 각 문제의 과목, 정답, 해설을 추출하여 JSON으로 반환하라.\n\n" +
		"[출력 형식]\n반드시 {\"answers\": [...]} 형태의 JSON 객체로만 응답하라.\n" +
		"마크다운, 설명, 인사말 금지.\n\n" +
		"[각 객체의 필드]\n" +
		"{\n" +
		"  \"id\": (int) 문제 번호 (과목 내 번호, 예: 1~30),\n" +
		"  \"subject\": (str) 과목명 (예: \"무역규범\", \"무역결제\" 등). 반드시 포함,\n" +
		"  \"answer\": (str) 정답 번호/기호. 원문 그대로 (예: \"④\", \"①\"),\n" +
		"  \"explanation\": (str) 해설. 있으면 포함, 없으면 \"\"\n" +
		"}\n\n" +
		"[규칙]\n" +
		"1. 답이 과목별로 나뉘어 있으면 각 답에 해당 과목명(subject)을 반드시 포함하라.\n" +
		"2. 답만 나열된 표라도 모두 추출하라.\n" +
		"3. 해설이 있으면 반드시 포함하라.\n" +
		"4. 문제 번호는 과목 내 번호를 사용하라 (과목별 1번부터)."
}

// QuestionUserText builds the user message for text mode.
func QuestionUserText(subjectHint, text string) string {
	var b strings.Builder
	if subjectHint != "" {
		fmt.Fprintf(&b, "현재 분석 중인 과목 구역: %s\n\n", subjectHint)
	}
	b.WriteString("시험지 텍스트:\n")
	b.WriteString(text)
	return b.String()
}

// QuestionUserVisionText builds the text part of a vision user message.
func QuestionUserVisionText(pageNumbers []int) string {
	nums := make([]string, len(pageNumbers))
	for i, n := range pageNumbers {
		nums[i] = fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("다음은 시험지 페이지 [%s] 이미지입니다. 모든 문제를 추출하세요.", strings.Join(nums, ", "))
}

// AnswerUserText builds the user message for answer-key extraction.
func AnswerUserText(subjectHint, text string) string {
	return fmt.Sprintf("현재 분석 중인 답안 구역: %s\n\n텍스트 내용:\n%s", subjectHint, text)
}
