package logparse

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasFile is the on-disk shape of a severity alias file:
//
//	aliases:
//	  critical: [sev1, urgent]
//	  info: [notice]
type AliasFile struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// LoadAliases reads extra severity aliases from a YAML file.
func LoadAliases(path string) (map[string]Severity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading alias file: %w", err)
	}
	return ParseAliases(data)
}

// ParseAliases decodes alias YAML. Every target must be a canonical severity.
func ParseAliases(data []byte) (map[string]Severity, error) {
	var file AliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing alias YAML: %w", err)
	}

	out := make(map[string]Severity)
	for target, names := range file.Aliases {
		sev := Severity(foldKey(target))
		if sev.Rank() < 0 {
			return nil, fmt.Errorf("alias target %q is not one of critical, error, warning, info", target)
		}
		for _, name := range names {
			key := foldKey(name)
			if key == "" {
				return nil, fmt.Errorf("empty alias for %q", target)
			}
			if prev, ok := out[key]; ok && prev != sev {
				return nil, fmt.Errorf("alias %q mapped to both %s and %s", name, prev, sev)
			}
			out[key] = sev
		}
	}
	return out, nil
}

// LoadClassifier builds a classifier from an optional alias file.
// An empty path yields Default.
func LoadClassifier(path string) (*Classifier, error) {
	if path == "" {
		return Default, nil
	}
	extra, err := LoadAliases(path)
	if err != nil {
		return nil, err
	}
	return NewClassifier(extra), nil
}
