package estimate

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table holds reference construction costs per square meter, broken down by
// project kind and finish standard.
type Table struct {
	Currency    string      `yaml:"currency"`
	DefaultRate float64     `yaml:"default_rate"`
	Kinds       []KindRates `yaml:"kinds"`
}

// KindRates maps finish standards to a cost-per-m² rate for one project kind.
type KindRates struct {
	Kind      string             `yaml:"kind"`
	Standards map[string]float64 `yaml:"standards"`
}

// LoadTable reads a YAML cost table file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cost table %s: %w", path, err)
	}

	t, err := LoadTableFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse cost table %s: %w", path, err)
	}
	return t, nil
}

// LoadTableFromBytes parses YAML cost table data from raw bytes.
func LoadTableFromBytes(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse cost table: %w", err)
	}
	if t.DefaultRate <= 0 {
		return nil, fmt.Errorf("cost table: missing default_rate")
	}
	return &t, nil
}

// DefaultTable returns the built-in reference table.
func DefaultTable() *Table {
	t, err := LoadTableFromBytes([]byte(defaultTableYAML))
	if err != nil {
		panic(err)
	}
	return t
}

// Rate returns the cost-per-m² rate for a project kind and finish standard,
// falling back to the table default when either is unknown.
func (t *Table) Rate(kind, standard string) float64 {
	kind = strings.ToLower(strings.TrimSpace(kind))
	standard = strings.ToLower(strings.TrimSpace(standard))

	for _, k := range t.Kinds {
		if k.Kind != kind {
			continue
		}
		if rate, ok := k.Standards[standard]; ok {
			return rate
		}
	}
	return t.DefaultRate
}

// Estimate computes a budget estimate for the given area.
func (t *Table) Estimate(kind, standard string, areaM2 float64) float64 {
	return t.Rate(kind, standard) * areaM2
}

// defaultTableYAML carries the reference rates shipped with the binary. The
// default rate matches the original onboarding estimate of R$ 2.000/m².
const defaultTableYAML = `
currency: BRL
default_rate: 2000
kinds:
  - kind: construcao
    standards:
      basico: 1800
      medio: 2400
      alto: 3500
  - kind: reforma
    standards:
      basico: 900
      medio: 1400
      alto: 2200
`
