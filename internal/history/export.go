package history

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"reckon/internal/engine"
)

// exportSchema describes the shape of an exported history document.
// Imports are validated against it before anything is accepted.
const exportSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "expression", "result", "reasoning", "confidence", "verified", "created_at", "tokens_used"],
		"properties": {
			"id":          {"type": "string", "minLength": 1},
			"expression":  {"type": "string"},
			"result":      {"type": "number"},
			"reasoning":   {"type": "string"},
			"confidence":  {"type": "number", "minimum": 0, "maximum": 1},
			"verified":    {"type": "boolean"},
			"created_at":  {"type": "string"},
			"tokens_used": {"type": "integer", "minimum": 0}
		}
	}
}`

// ExportJSON writes calculation results to a JSON file.
func ExportJSON(path string, results []engine.CalculationResult) error {
	if results == nil {
		results = []engine.CalculationResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	return nil
}

// ImportJSON reads a previously exported history file, validating the
// document against the export schema first.
func ImportJSON(path string) ([]engine.CalculationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(exportSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	validation, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate history file: %w", err)
	}
	if !validation.Valid() {
		var problems []string
		for _, desc := range validation.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("invalid history file: %s", strings.Join(problems, "; "))
	}

	var results []engine.CalculationResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}

	return results, nil
}
