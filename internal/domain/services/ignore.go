package services

import (
	"strings"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// IgnoreRules applies the user's ignore lists to scan data
type IgnoreRules struct {
	config entities.IgnoreConfig
}

// NewIgnoreRules creates ignore rules from configuration
func NewIgnoreRules(config entities.IgnoreConfig) *IgnoreRules {
	return &IgnoreRules{config: config}
}

// IgnorePackage reports whether a package ID matches the package ignore list
func (r *IgnoreRules) IgnorePackage(packageID string) bool {
	return matchesAny(r.config.Packages, packageID)
}

// IgnoreVulnerability reports whether an advisory ID is ignored
func (r *IgnoreRules) IgnoreVulnerability(vulnID string) bool {
	for _, id := range r.config.Vulnerabilities {
		if id == vulnID {
			return true
		}
	}
	return false
}

// IgnoreOutdated reports whether staleness checks are suppressed for a package
func (r *IgnoreRules) IgnoreOutdated(packageID string) bool {
	return matchesAny(r.config.Outdated, packageID)
}

// FilterPackages drops ignored packages
func (r *IgnoreRules) FilterPackages(packages []entities.Package) []entities.Package {
	kept := make([]entities.Package, 0, len(packages))
	for _, p := range packages {
		if !r.IgnorePackage(p.ID) {
			kept = append(kept, p)
		}
	}
	return kept
}

// FilterVulnerabilities drops ignored advisories
func (r *IgnoreRules) FilterVulnerabilities(vulns []entities.Vulnerability) []entities.Vulnerability {
	kept := make([]entities.Vulnerability, 0, len(vulns))
	for _, v := range vulns {
		if !r.IgnoreVulnerability(v.ID) {
			kept = append(kept, v)
		}
	}
	return kept
}

// OutdatedCandidates returns the packages whose latest version should be looked up
func (r *IgnoreRules) OutdatedCandidates(packages []entities.Package) []entities.Package {
	kept := make([]entities.Package, 0, len(packages))
	for _, p := range packages {
		if !r.IgnoreOutdated(p.ID) {
			kept = append(kept, p)
		}
	}
	return kept
}

func matchesAny(patterns []string, text string) bool {
	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			if GlobMatch(pattern, text) {
				return true
			}
		} else if pattern == text {
			return true
		}
	}
	return false
}

// GlobMatch matches text against a pattern where '*' matches any run of characters.
// The segments before the first and after the last '*' are anchored.
func GlobMatch(pattern, text string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == text
	}

	remaining := text
	first := parts[0]
	if first != "" {
		if !strings.HasPrefix(remaining, first) {
			return false
		}
		remaining = remaining[len(first):]
	}

	last := parts[len(parts)-1]
	if last != "" {
		if !strings.HasSuffix(remaining, last) {
			return false
		}
		remaining = remaining[:len(remaining)-len(last)]
	}

	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(remaining, part)
		if idx < 0 {
			return false
		}
		remaining = remaining[idx+len(part):]
	}

	return true
}
