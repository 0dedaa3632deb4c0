package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/activities.json
var sampleCatalog []byte

// compiledSchema compiles the catalog JSON schema once.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://catalog.json", activitySchema); err != nil {
		return nil, fmt.Errorf("add catalog schema: %w", err)
	}
	return c.Compile("schema://catalog.json")
})

// Load reads and validates a catalog file.
func Load(path string) ([]Activity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse validates a raw catalog document against the schema and decodes it.
// Schema validation runs first so field-level errors name the offending
// record instead of surfacing as zero values later.
func Parse(raw []byte) ([]Activity, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed catalog JSON: %v", ErrInvalidActivity, err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidActivity, err)
	}

	var activities []Activity
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", ErrInvalidActivity, err)
	}

	for i := range activities {
		if err := activities[i].Validate(); err != nil {
			return nil, err
		}
	}
	return activities, nil
}

// Samples returns the embedded demo catalog.
func Samples() ([]Activity, error) {
	return Parse(sampleCatalog)
}
