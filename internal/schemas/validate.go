// Package schemas provides JSON Schema validation for structured step
// payloads.
package schemas

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// datasetSchemaJSON constrains the schema-step payload: a non-empty map of
// column names to declared types.
const datasetSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"columns": {
			"type": "object",
			"minProperties": 1,
			"additionalProperties": {
				"type": "string",
				"minLength": 1
			}
		}
	},
	"required": ["columns"]
}`

// ValidateDatasetPayload checks a schema-step payload against the embedded
// dataset schema. It returns one message per violation, with the offending
// field path, or nil when the payload is valid. A schema-engine failure is
// returned as an error distinct from document violations.
func ValidateDatasetPayload(payload map[string]any) ([]string, error) {
	doc, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal step payload: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(datasetSchemaJSON),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed during load: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		messages = append(messages, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return messages, nil
}
