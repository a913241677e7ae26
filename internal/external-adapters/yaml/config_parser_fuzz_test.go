package yaml

import (
	"testing"
)

// FuzzConfigParser tests the YAML parser against random/malformed inputs
// to detect crashes, panics, or unexpected behavior.
//
// Run with: go test -fuzz=FuzzConfigParser -fuzztime=30s
func FuzzConfigParser(f *testing.F) {
	f.Add([]byte(`cache_ttl_hours: 24
default_sources: [vscode, chrome, npm]
skip_vuln_check: false
default_format: table
check_outdated: true
`))
	f.Add([]byte(`ignore:
  packages: ["*-nightly"]
  vulnerabilities: [GHSA-1234]
  outdated: ["typescript"]
`))
	f.Add([]byte(""))
	f.Add([]byte("---\n"))
	f.Add([]byte("default_sources: brew"))
	f.Add([]byte("{{{{"))

	parser := NewConfigParser()
	f.Fuzz(func(t *testing.T, data []byte) {
		config, err := parser.Parse(data)
		if err != nil {
			return
		}
		if config == nil {
			t.Fatal("Parse() returned nil config without error")
		}
		if config.Ignore.Packages == nil || config.Ignore.Outdated == nil {
			t.Error("ignore lists must never be nil")
		}
	})
}
