package entities

// Config holds user preferences loaded from the config file
type Config struct {
	CacheTTLHours  uint64       `yaml:"cache_ttl_hours"`
	DefaultSources []Source     `yaml:"default_sources"`
	SkipVulnCheck  bool         `yaml:"skip_vuln_check"`
	DefaultFormat  string       `yaml:"default_format"`
	CheckOutdated  bool         `yaml:"check_outdated"`
	Ignore         IgnoreConfig `yaml:"ignore"`
}

// IgnoreConfig suppresses known packages and advisories
type IgnoreConfig struct {
	// Packages and Outdated accept '*' globs; Vulnerabilities are exact IDs.
	Packages        []string `yaml:"packages"`
	Vulnerabilities []string `yaml:"vulnerabilities"`
	Outdated        []string `yaml:"outdated"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		CacheTTLHours:  24,
		DefaultSources: AllSources(),
		SkipVulnCheck:  false,
		DefaultFormat:  "table",
		CheckOutdated:  true,
		Ignore: IgnoreConfig{
			Packages:        []string{},
			Vulnerabilities: []string{},
			Outdated:        []string{},
		},
	}
}
