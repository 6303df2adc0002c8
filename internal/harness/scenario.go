package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario: a batch request plus the
// expectations about its result.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// OutputKind is the requested artifact encoding. Empty defaults to
	// "bincode"; any other value exercises the no-op policy.
	OutputKind string `yaml:"output_kind,omitempty"`

	// TagNamePrefix is bound to every source before registration.
	TagNamePrefix string `yaml:"tag_name_prefix,omitempty"`

	// Sources maps file names to inline CSS text.
	Sources map[string]string `yaml:"sources"`

	// Expect lists per-file expectations. Files without an entry are
	// still compiled; only listed files are checked.
	Expect []Expectation `yaml:"expect,omitempty"`
}

// Expectation validates one file's result.
type Expectation struct {
	// File is the source name the expectation applies to.
	File string `yaml:"file"`

	// Artifact states whether the file must produce an artifact.
	Artifact bool `yaml:"artifact"`

	// Imports is the exact import list decoded from the artifact.
	Imports []string `yaml:"imports,omitempty"`

	// Diagnostics are substrings; each must appear in some diagnostic
	// of the file, in order.
	Diagnostics []string `yaml:"diagnostics,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently validating nothing.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and that
// expectations refer to declared sources.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Sources) == 0 {
		return fmt.Errorf("sources map is required and must be non-empty")
	}
	for name := range s.Sources {
		if name == "" {
			return fmt.Errorf("sources: empty file name")
		}
	}
	for i, exp := range s.Expect {
		if exp.File == "" {
			return fmt.Errorf("expect[%d]: file is required", i)
		}
		if _, ok := s.Sources[exp.File]; !ok {
			return fmt.Errorf("expect[%d]: file %q is not in sources", i, exp.File)
		}
	}
	return nil
}
