// Package fields defines the catalog of batch-editable NFO fields. The
// catalog is a closed table mapping each field name to its multiplicity,
// so unsupported fields are rejected by lookup instead of ad-hoc string
// comparison scattered through the mutation code.
package fields

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Multiplicity says whether a field holds one value or a list
type Multiplicity string

const (
	Single Multiplicity = "single"
	Multi  Multiplicity = "multi"
)

// Catalog maps editable field names to their multiplicity
type Catalog map[string]Multiplicity

// Default returns the built-in catalog
func Default() Catalog {
	return Catalog{
		"studio":   Single,
		"genre":    Multi,
		"director": Multi,
	}
}

// Lookup returns the multiplicity of a field, false if not editable
func (c Catalog) Lookup(name string) (Multiplicity, bool) {
	m, ok := c[name]
	return m, ok
}

// Names returns the editable field names, sorted
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads a YAML catalog file and merges it over the defaults. A missing
// file yields the defaults unchanged.
func Load(path string) (Catalog, error) {
	cat := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cat, nil
		}
		return nil, err
	}

	var extra map[string]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parsing fields catalog: %w", err)
	}

	for name, mult := range extra {
		switch Multiplicity(mult) {
		case Single, Multi:
			cat[name] = Multiplicity(mult)
		default:
			return nil, fmt.Errorf("field %q: invalid multiplicity %q", name, mult)
		}
	}

	return cat, nil
}
