package profile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/profiles.json
var sampleProfiles []byte

// profileSchema is the JSON schema for a profiles document.
var profileSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":             map[string]any{"type": "string", "minLength": 1},
			"name":           map[string]any{"type": "string", "minLength": 1},
			"reading_level":  map[string]any{"type": "string", "enum": []any{"pre_reader", "emergent", "approaching", "on_grade", "above_grade"}},
			"learning_style": map[string]any{"type": "string", "enum": []any{"visual", "auditory", "kinesthetic", "logical"}},
			"attention_span_min": map[string]any{
				"type":    "integer",
				"minimum": 1,
			},
			"interests": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"skills": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type":    "number",
					"minimum": 0,
					"maximum": 1,
				},
			},
		},
		"required":             []any{"id", "name", "reading_level", "learning_style", "attention_span_min", "skills"},
		"additionalProperties": false,
	},
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://profiles.json", profileSchema); err != nil {
		return nil, fmt.Errorf("add profile schema: %w", err)
	}
	return c.Compile("schema://profiles.json")
})

// Load reads and validates a profiles file.
func Load(path string) ([]Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return Parse(raw)
}

// Parse validates a raw profiles document against the schema and decodes it.
func Parse(raw []byte) ([]Profile, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed profiles JSON: %v", ErrInvalidProfile, err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile profile schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	var profiles []Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("%w: decode profiles: %v", ErrInvalidProfile, err)
	}

	for i := range profiles {
		if err := profiles[i].Validate(); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// Samples returns the embedded demo profiles.
func Samples() ([]Profile, error) {
	return Parse(sampleProfiles)
}
