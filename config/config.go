// Package config loads the scheduler's adaptive-yield tunables from YAML,
// grounded on the conformance loader pattern of plain os.ReadFile plus
// yaml.Unmarshal (see MongooseMoo-barn/conformance/loader.go in the
// reference corpus): no config framework, just a struct and two functions.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tunables are the adaptive-yield-budget knobs spec.md section 4.5 calls
// out as process configuration rather than hardcoded constants.
type Tunables struct {
	// ResponsivenessMS is the wall-clock duration, in milliseconds, after
	// which an uninterrupted thread run should yield back to the host.
	// Spec default: 1000.
	ResponsivenessMS int64 `yaml:"responsiveness_ms"`

	// InitialMaxMethodResumes seeds the adaptive budget before the first
	// sample is taken. Spec default: 10000.
	InitialMaxMethodResumes int64 `yaml:"initial_max_method_resumes"`
}

// Default returns the literal defaults named in spec.md section 4.5.
func Default() Tunables {
	return Tunables{
		ResponsivenessMS:        1000,
		InitialMaxMethodResumes: 10000,
	}
}

// Load reads and parses a YAML tunables file at path, applying Default for
// any field the file omits.
func Load(path string) (Tunables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tunables{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tunables{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Tunables{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return t, nil
}

// Validate rejects tunables that would make the scheduler's adaptive budget
// meaningless (a non-positive target or seed).
func (t Tunables) Validate() error {
	if t.ResponsivenessMS <= 0 {
		return fmt.Errorf("responsiveness_ms must be positive, got %d", t.ResponsivenessMS)
	}
	if t.InitialMaxMethodResumes <= 0 {
		return fmt.Errorf("initial_max_method_resumes must be positive, got %d", t.InitialMaxMethodResumes)
	}
	return nil
}
