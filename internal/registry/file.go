package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSchema is the YAML shape of a model table file:
//
//	default: fast
//	models:
//	  - key: fast
//	    upstream_id: gpt-4o-mini
//	    image_capable: true
type fileSchema struct {
	Default string  `yaml:"default"`
	Models  []Entry `yaml:"models"`
}

// LoadFile builds a registry from a YAML model table. The file is read once
// at startup; the resulting table is frozen like the built-in one.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model table: %w", err)
	}

	var f fileSchema
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse model table %s: %w", path, err)
	}
	if f.Default == "" && len(f.Models) > 0 {
		f.Default = f.Models[0].Key
	}

	r, err := New(f.Default, f.Models)
	if err != nil {
		return nil, fmt.Errorf("model table %s: %w", path, err)
	}
	return r, nil
}
