package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a declarative mutation sequence with final-state
// assertions.
type Scenario struct {
	// Name uniquely identifies the scenario; golden files use it.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description"`

	// Actor is the default principal (a user id or a $ref) for steps
	// that do not set their own.
	Actor string `yaml:"actor"`

	// Steps run in order. A failing step aborts the scenario unless the
	// step expects the failure.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state after all steps ran.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step invokes one mutation. String args beginning with "$" are
// substituted with ids saved by earlier steps.
type Step struct {
	// Op is the mutation name, e.g. "task.create".
	Op string `yaml:"op"`

	// As overrides the scenario actor for this step.
	As string `yaml:"as,omitempty"`

	// Args are the mutation arguments.
	Args map[string]any `yaml:"args,omitempty"`

	// Save stores the id the mutation returns under this name.
	Save string `yaml:"save,omitempty"`

	// ExpectError asserts the step fails with the given class:
	// "invariant", "not_found", "unauthorized" or "validation".
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion checks the final state of one collection.
type Assertion struct {
	// Type is "count" or "exists".
	Type string `yaml:"type"`

	// Collection names the table to inspect.
	Collection string `yaml:"collection"`

	// Where filters documents by field equality (subset match against
	// the JSON document). Values may be $refs.
	Where map[string]any `yaml:"where,omitempty"`

	// Count is the expected number of matches (type "count").
	Count int `yaml:"count"`
}

// Assertion type constants.
const (
	AssertCount  = "count"
	AssertExists = "exists"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected, which catches typos like "assertion:" for "assertions:".
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Actor == "" {
		return fmt.Errorf("actor is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
	}
	for i, a := range s.Assertions {
		if a.Type != AssertCount && a.Type != AssertExists {
			return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
		}
		if a.Collection == "" {
			return fmt.Errorf("assertions[%d]: collection is required", i)
		}
	}
	return nil
}
