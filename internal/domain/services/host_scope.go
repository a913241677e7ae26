package services

import (
	"strings"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

const allURLsPattern = "<all_urls>"

var allURLsPatterns = map[string]bool{
	allURLsPattern: true,
	"*://*/*":      true,
	"http://*/*":   true,
	"https://*/*":  true,
}

// AnalyzeHostPermissions grades a list of host match patterns and returns the
// distinct domains they reference in first-seen order.
func AnalyzeHostPermissions(patterns []string) (entities.HostPermissionScope, []string) {
	domains := []string{}
	if len(patterns) == 0 {
		return entities.HostScopeNone, domains
	}

	scope := entities.HostScopeSpecific
	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)

		if allURLsPatterns[pattern] {
			scope = entities.HostScopeAllURLs
		} else {
			host := hostSegment(trimPrefixes(pattern, "*://", "http://", "https://"))
			if (strings.HasPrefix(host, "*.") || host == "*") && scope != entities.HostScopeAllURLs {
				scope = entities.HostScopeBroad
			}
		}

		if domain, ok := extractDomain(pattern); ok {
			domains = appendUnique(domains, domain)
		}
	}

	return scope, domains
}

// extractDomain returns the host part of a match pattern or source expression.
// The catch-all host "*" and <all_urls> name no domain.
func extractDomain(pattern string) (string, bool) {
	if pattern == allURLsPattern {
		return "", false
	}
	domain := hostSegment(trimPrefixes(pattern, "*://", "http://", "https://", "file://"))
	if domain == "*" {
		return "", false
	}
	return domain, true
}

// trimPrefixes strips every repetition of each prefix, in the given order
func trimPrefixes(s string, prefixes ...string) string {
	for _, prefix := range prefixes {
		for strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
		}
	}
	return s
}

func hostSegment(s string) string {
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
