package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// QuestionItemSchema returns the JSON-Schema (draft 2020-12 subset) for a
// single extracted question item, as a generic map. Checked per item so one
// malformed item never rejects its siblings.
func QuestionItemSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"question_text", "options"},
		"properties": map[string]any{
			"id":            map[string]any{"type": "integer"},
			"subject":       map[string]any{"type": "string"},
			"context":       map[string]any{"type": []any{"string", "null"}},
			"question_text": map[string]any{"type": "string", "minLength": 1},
			"options": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"answer":      map[string]any{"type": "string"},
			"explanation": map[string]any{"type": "string"},
			"page_number": map[string]any{"type": "integer"},
		},
	}
}

// AnswerItemSchema returns the schema for a single answer-key record.
func AnswerItemSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"id", "answer"},
		"properties": map[string]any{
			// models occasionally return ids as strings; coerced downstream
			"id":          map[string]any{"type": []any{"integer", "string"}},
			"subject":     map[string]any{"type": "string"},
			"answer":      map[string]any{"type": "string"},
			"explanation": map[string]any{"type": "string"},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
