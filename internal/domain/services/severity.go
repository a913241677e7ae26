package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// ClassifySeverity maps a raw CVSS score to a severity tier.
// Numeric scores use the CVSS v3 bands. Vector strings are graded by their
// C/I/A impact letters only, which approximates the base score.
func ClassifySeverity(raw string) entities.Severity {
	if score, ok := parseScore(raw); ok {
		switch {
		case score >= 9.0:
			return entities.SeverityCritical
		case score >= 7.0:
			return entities.SeverityHigh
		case score >= 4.0:
			return entities.SeverityMedium
		case score > 0:
			return entities.SeverityLow
		default:
			return entities.SeverityUnknown
		}
	}

	if strings.Contains(raw, "CVSS:") {
		if containsAny(raw, "/C:H", "/I:H", "/A:H") {
			return entities.SeverityHigh
		}
		if containsAny(raw, "/C:L", "/I:L", "/A:L") {
			return entities.SeverityMedium
		}
		return entities.SeverityLow
	}

	return entities.SeverityUnknown
}

// parseScore parses a decimal score. Hex floats, which strconv accepts, are rejected.
func parseScore(raw string) (float64, bool) {
	digits := strings.TrimLeft(raw, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, false
	}
	score, err := strconv.ParseFloat(raw, 64)
	return score, err == nil
}

// ClassifySeverities returns the first known severity among scores, in order
func ClassifySeverities(scores []string) entities.Severity {
	for _, score := range scores {
		if sev := ClassifySeverity(score); sev != entities.SeverityUnknown {
			return sev
		}
	}
	return entities.SeverityUnknown
}

// SortBySeverity orders vulnerabilities most severe first, keeping input order within a tier
func SortBySeverity(vulns []entities.Vulnerability) []entities.Vulnerability {
	sorted := make([]entities.Vulnerability, len(vulns))
	copy(sorted, vulns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})
	return sorted
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
