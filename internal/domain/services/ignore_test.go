package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

func TestGlobMatch(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"lodash", "lodash", true},
		{"lodash", "underscore", false},
		{"lodash*", "lodash", true},
		{"lodash*", "lodash.debounce", true},
		{"lodash*", "lodash-es", true},
		{"lodash*", "underscore", false},
		{"*-cli", "typescript-cli", true},
		{"*-cli", "eslint-cli", true},
		{"*-cli", "typescript", false},
		{"*lodash*", "lodash", true},
		{"*lodash*", "my-lodash-plugin", true},
		{"*lodash*", "underscore", false},
		{"@types/*", "@types/node", true},
		{"@types/*", "@babel/core", false},
		{"a*b*c", "axxbyyc", true},
		{"a*b*c", "acb", false},
		{"*", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"~"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, GlobMatch(tt.pattern, tt.text))
		})
	}
}

func TestIgnoreRules(t *testing.T) {
	rules := NewIgnoreRules(entities.IgnoreConfig{
		Packages:        []string{"lodash", "@types/*"},
		Vulnerabilities: []string{"CVE-2021-12345", "GHSA-xxxx"},
		Outdated:        []string{"typescript"},
	})

	assert.True(t, rules.IgnorePackage("lodash"))
	assert.True(t, rules.IgnorePackage("@types/node"))
	assert.False(t, rules.IgnorePackage("underscore"))
	assert.False(t, rules.IgnorePackage("@babel/core"))

	assert.True(t, rules.IgnoreVulnerability("GHSA-xxxx"))
	assert.False(t, rules.IgnoreVulnerability("CVE-2022-99999"))
	assert.False(t, rules.IgnoreVulnerability("CVE-2021-*"))

	assert.True(t, rules.IgnoreOutdated("typescript"))
	assert.False(t, rules.IgnoreOutdated("eslint"))
}

func TestIgnoreRules_Filters(t *testing.T) {
	rules := NewIgnoreRules(entities.IgnoreConfig{
		Packages:        []string{"@types/*"},
		Vulnerabilities: []string{"CVE-1"},
		Outdated:        []string{"pinned*"},
	})

	pkgs := rules.FilterPackages([]entities.Package{{ID: "@types/node"}, {ID: "express"}})
	assert.Equal(t, []entities.Package{{ID: "express"}}, pkgs)

	vulns := rules.FilterVulnerabilities([]entities.Vulnerability{{ID: "CVE-1"}, {ID: "CVE-2"}})
	assert.Equal(t, []entities.Vulnerability{{ID: "CVE-2"}}, vulns)

	candidates := rules.OutdatedCandidates([]entities.Package{{ID: "pinned-lib"}, {ID: "free"}})
	assert.Equal(t, []entities.Package{{ID: "free"}}, candidates)
}
