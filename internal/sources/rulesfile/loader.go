// Package rulesfile loads the optional rules.yaml and taxonomy.yaml
// files that extend the built-in classification tables.
package rulesfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads the user rule and taxonomy files. Missing files are
// not an error: both are optional overlays.
type Loader struct {
	rulesPath    string
	taxonomyPath string
}

func NewLoader(rulesPath, taxonomyPath string) *Loader {
	return &Loader{
		rulesPath:    rulesPath,
		taxonomyPath: taxonomyPath,
	}
}

// LoadRules parses rules.yaml. Returns (nil, nil) when no path is
// configured or the file does not exist.
func (l *Loader) LoadRules() (*RulesFile, error) {
	if l.rulesPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(l.rulesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml: %w", err)
	}
	return &rf, nil
}

// LoadTaxonomy parses taxonomy.yaml. Returns (nil, nil) when no path
// is configured or the file does not exist.
func (l *Loader) LoadTaxonomy() (*TaxonomyFile, error) {
	if l.taxonomyPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(l.taxonomyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var tf TaxonomyFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy yaml: %w", err)
	}
	return &tf, nil
}
