package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Function is a stored function or procedure applied by the engine. Script
// is executed as is and journaled under the function name.
type Function struct {
	Name   string `yaml:"name"`
	Schema string `yaml:"schema"`
	Script string `yaml:"script"`
}

type yamlFile struct {
	Functions []Function `yaml:"functions"`
}

// LoadFunctionsFromYAML reads a functions manifest. A missing schema
// defaults to defaultSchema.
func LoadFunctionsFromYAML(filename, defaultSchema string) ([]Function, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading functions file: %w", err)
	}

	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	seen := map[string]bool{}
	for i := range yf.Functions {
		fn := &yf.Functions[i]
		if fn.Name == "" {
			return nil, fmt.Errorf("function %d: name is required", i+1)
		}
		if fn.Script == "" {
			return nil, fmt.Errorf("function %s: script is required", fn.Name)
		}
		if fn.Schema == "" {
			fn.Schema = defaultSchema
		}
		key := fn.Schema + "." + fn.Name
		if seen[key] {
			return nil, fmt.Errorf("function %s declared twice", key)
		}
		seen[key] = true
	}
	return yf.Functions, nil
}
