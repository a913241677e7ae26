// Package yaml provides the YAML-backed configuration repository.
package yaml

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors entities.Config with pointer fields so absent keys
// can be told apart from explicit zero values
type yamlConfig struct {
	CacheTTLHours  *uint64          `yaml:"cache_ttl_hours"`
	DefaultSources []string         `yaml:"default_sources"`
	SkipVulnCheck  *bool            `yaml:"skip_vuln_check"`
	DefaultFormat  *string          `yaml:"default_format"`
	CheckOutdated  *bool            `yaml:"check_outdated"`
	Ignore         *yamlIgnoreRules `yaml:"ignore"`
}

type yamlIgnoreRules struct {
	Packages        []string `yaml:"packages"`
	Vulnerabilities []string `yaml:"vulnerabilities"`
	Outdated        []string `yaml:"outdated"`
}

// ConfigParser parses configuration documents
type ConfigParser struct{}

// NewConfigParser creates a new YAML parser
func NewConfigParser() *ConfigParser {
	return &ConfigParser{}
}

// ParseFile parses a YAML config file
func (p *ConfigParser) ParseFile(filePath string) (*entities.Config, error) {
	//nolint:gosec // G304: filePath is the user's config location
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	config, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	return config, nil
}

// Parse decodes data on top of the defaults. Keys missing from the
// document keep their default values.
func (p *ConfigParser) Parse(data []byte) (*entities.Config, error) {
	config := entities.DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return config, nil
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if raw.CacheTTLHours != nil {
		config.CacheTTLHours = *raw.CacheTTLHours
	}
	if raw.DefaultSources != nil {
		sources := make([]entities.Source, 0, len(raw.DefaultSources))
		for _, name := range raw.DefaultSources {
			source, err := entities.ParseSource(name)
			if err != nil {
				return nil, fmt.Errorf("default_sources: %w", err)
			}
			sources = append(sources, source)
		}
		config.DefaultSources = sources
	}
	if raw.SkipVulnCheck != nil {
		config.SkipVulnCheck = *raw.SkipVulnCheck
	}
	if raw.DefaultFormat != nil {
		config.DefaultFormat = *raw.DefaultFormat
	}
	if raw.CheckOutdated != nil {
		config.CheckOutdated = *raw.CheckOutdated
	}
	if raw.Ignore != nil {
		config.Ignore.Packages = nonNil(raw.Ignore.Packages)
		config.Ignore.Vulnerabilities = nonNil(raw.Ignore.Vulnerabilities)
		config.Ignore.Outdated = nonNil(raw.Ignore.Outdated)
	}

	return config, nil
}

// Marshal renders a config as YAML
func (p *ConfigParser) Marshal(config *entities.Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
