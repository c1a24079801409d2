package explain

import "github.com/Bradwave/parabolawhat/internal/llm"

// ExplanationSchema is the JSON shape requested from the model.
var ExplanationSchema = &llm.Schema{
	Name:        "parabola-explanation",
	Description: "A short explanation, in Italian, of why a student's answer about a parabola is wrong",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "2-4 sentences explaining the mistake, in Italian",
				"minLength":   1,
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One concrete thing to check next time, in Italian",
				"minLength":   1,
			},
			"focus": map[string]any{
				"type":        "string",
				"description": "The coefficient or property the mistake is about",
				"enum":        []any{"a", "b", "c", "shape"},
			},
		},
		"required":             []any{"explanation", "tip", "focus"},
		"additionalProperties": false,
	},
}
