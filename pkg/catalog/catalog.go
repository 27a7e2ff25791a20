// pkg/catalog/catalog.go
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed default_catalog.json
var defaultCatalog []byte

// Default returns the built-in Mergington High School catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates raw JSON against the document schema, decodes it and
// checks the registry invariants.
func Parse(data []byte) (*Catalog, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Save writes the catalog as indented JSON.
func Save(path string, cat *Catalog) error {
	if err := cat.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Validate checks the invariants a registry relies on: unique non-empty
// names, positive capacity, unique participants and rosters within capacity.
func (c *Catalog) Validate() error {
	var problems []string
	seen := make(map[string]struct{}, len(c.Activities))

	for i, a := range c.Activities {
		if strings.TrimSpace(a.Name) == "" {
			problems = append(problems, fmt.Sprintf("activities[%d]: name is required", i))
			continue
		}
		if _, dup := seen[a.Name]; dup {
			problems = append(problems, fmt.Sprintf("activities[%d]: duplicate activity name %q", i, a.Name))
		}
		seen[a.Name] = struct{}{}

		if a.MaxParticipants <= 0 {
			problems = append(problems, fmt.Sprintf("%s: maxParticipants must be positive", a.Name))
		}
		if len(a.Participants) > a.MaxParticipants {
			problems = append(problems, fmt.Sprintf("%s: %d participants exceed capacity %d", a.Name, len(a.Participants), a.MaxParticipants))
		}

		emails := make(map[string]struct{}, len(a.Participants))
		for _, email := range a.Participants {
			if _, dup := emails[email]; dup {
				problems = append(problems, fmt.Sprintf("%s: duplicate participant %q", a.Name, email))
			}
			emails[email] = struct{}{}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Find returns the activity with the given name.
func (c *Catalog) Find(name string) (*Activity, bool) {
	for i := range c.Activities {
		if c.Activities[i].Name == name {
			return &c.Activities[i], true
		}
	}
	return nil, false
}

// ValidationError lists every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "catalog validation failed: " + strings.Join(e.Problems, "; ")
}

func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("catalog schema validation error: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return &ValidationError{Problems: problems}
	}
	return nil
}
