package services

import (
	"fmt"
	"strings"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// CSP issue messages
const (
	issueNoCSP        = "No Content Security Policy defined"
	issueUnsafeEval   = "CSP allows unsafe-eval (enables eval())"
	issueUnsafeInline = "CSP allows unsafe-inline scripts"
)

// AnalyzeCSP inspects a Content Security Policy for script-execution weaknesses.
// A nil or empty policy is itself an issue.
func AnalyzeCSP(csp *string) entities.CspAnalysis {
	analysis := entities.CspAnalysis{
		AllowedDomains: []string{},
		Issues:         []string{},
	}

	if csp == nil || *csp == "" {
		analysis.Issues = append(analysis.Issues, issueNoCSP)
		analysis.Score = 30
		return analysis
	}
	analysis.HasCSP = true

	for _, directive := range strings.Split(*csp, ";") {
		parts := strings.Fields(directive)
		if len(parts) == 0 {
			continue
		}

		name, values := parts[0], parts[1:]
		switch name {
		case "script-src", "default-src":
			for _, value := range values {
				if value == "'unsafe-eval'" {
					analysis.AllowsUnsafeEval = true
					analysis.Issues = append(analysis.Issues, issueUnsafeEval)
					analysis.Score += 40
				}
				if value == "'unsafe-inline'" {
					analysis.AllowsUnsafeInline = true
					analysis.Issues = append(analysis.Issues, issueUnsafeInline)
					analysis.Score += 30
				}
				if isRemoteSource(value) {
					analysis.AllowsRemoteScripts = true
					if domain, ok := extractDomain(value); ok {
						analysis.AllowedDomains = appendUnique(analysis.AllowedDomains, domain)
					}
				}
			}
		case "connect-src":
			for _, value := range values {
				if containsAny(value, "http://", "https://", "*") {
					if domain, ok := extractDomain(value); ok {
						analysis.AllowedDomains = appendUnique(analysis.AllowedDomains, domain)
					}
				}
			}
		}
	}

	if analysis.AllowsRemoteScripts {
		n := len(analysis.AllowedDomains)
		analysis.Issues = append(analysis.Issues, fmt.Sprintf("CSP allows loading scripts from %d external domain(s)", n))
		analysis.Score += uint(10 * n)
	}

	return analysis
}

func isRemoteSource(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}
