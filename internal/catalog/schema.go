package catalog

// activitySchema is the JSON schema for a catalog document (an array of
// activities). Raw input is validated against it before decoding, so a
// malformed file fails loudly instead of producing half-filled records.
var activitySchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "minLength": 1},
			"type":        map[string]any{"type": "string", "enum": []any{"math", "reading", "vocab", "spelling", "logic", "creativity", "storytelling"}},
			"title":       map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"level":       map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			"skills": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"estimated_min": map[string]any{"type": "integer", "minimum": 1},
			"styles": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "enum": []any{"visual", "auditory", "kinesthetic", "logical"}},
			},
			"prompt": map[string]any{"type": "string"},
			"rubric": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"matcher":       map[string]any{"type": "string", "enum": []any{"exact", "numeric", "keyword"}},
					"answers":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"tolerance":     map[string]any{"type": "number", "minimum": 0},
					"keywords":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"min_sentences": map[string]any{"type": "integer", "minimum": 0},
				},
				"required":             []any{"matcher"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"id", "type", "title", "level", "skills", "estimated_min", "styles", "rubric"},
		"additionalProperties": false,
	},
}
