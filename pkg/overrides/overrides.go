// Package overrides loads the local provider override table. The table is
// read once at process start and is immutable afterwards, so it can be shared
// freely across concurrent resolutions.
package overrides

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table holds locally configured provider assignments grouped by utility.
type Table struct {
	Gas Lookup `yaml:"gas"`
}

// Lookup maps counties and zips to provider names for one utility. County
// matches are case-insensitive; zip matches are exact. County takes
// precedence when both are present.
type Lookup struct {
	County map[string]string `yaml:"county"`
	Zip    map[string]string `yaml:"zip"`
}

// Load reads the override table from a YAML file. A missing file is not an
// error: it yields an empty table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read overrides file: %w", err)
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse overrides file: %w", err)
	}
	return &table, nil
}

// Find returns the override provider for a county or zip, county first.
// An empty string means no override is configured.
func (l Lookup) Find(county, zip string) string {
	if county != "" {
		for key, provider := range l.County {
			if strings.EqualFold(key, county) {
				return provider
			}
		}
	}
	if zip != "" {
		if provider, ok := l.Zip[zip]; ok {
			return provider
		}
	}
	return ""
}
