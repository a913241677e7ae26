package services

import (
	"fmt"
	"strings"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// AnalyzeExtension scores an extension from its declared permissions, host
// patterns and Content Security Policy. Optional permissions count half.
func AnalyzeExtension(required, optional, hosts []string, csp *string) entities.ExtensionRiskReport {
	report := entities.ExtensionRiskReport{
		Permissions:     make([]entities.PermissionRisk, 0, len(required)+len(optional)),
		HostPermissions: append([]string{}, hosts...),
		Issues:          []entities.RiskIssue{},
	}

	for _, name := range required {
		risk := LookupPermission(name)
		report.TotalScore += risk.Level.Score()
		report.Permissions = append(report.Permissions, risk)
	}

	for _, name := range optional {
		risk := LookupPermission(name)
		report.TotalScore += risk.Level.Score() / 2
		risk.Name = fmt.Sprintf("%s (optional)", risk.Name)
		report.Permissions = append(report.Permissions, risk)
	}

	scope, domains := AnalyzeHostPermissions(hosts)
	report.HostPermissionScope = scope
	report.ExternalDomains = domains
	report.TotalScore += scope.Score()

	report.CSP = AnalyzeCSP(csp)
	report.TotalScore += report.CSP.Score

	if scope == entities.HostScopeAllURLs {
		report.Issues = append(report.Issues, entities.RiskIssue{
			Category:    "Permissions",
			Severity:    entities.RiskCritical,
			Title:       "All URLs access",
			Description: "Extension can access all websites",
		})
	}

	criticalCount := 0
	for _, p := range report.Permissions {
		if p.Level == entities.RiskCritical {
			criticalCount++
		}
	}
	if criticalCount > 0 {
		report.Issues = append(report.Issues, entities.RiskIssue{
			Category:    "Permissions",
			Severity:    entities.RiskCritical,
			Title:       fmt.Sprintf("%d critical permission(s)", criticalCount),
			Description: "Extension requests highly dangerous permissions",
		})
	}

	if report.CSP.AllowsUnsafeEval {
		report.Issues = append(report.Issues, entities.RiskIssue{
			Category:    "Security Policy",
			Severity:    entities.RiskHigh,
			Title:       "Allows eval()",
			Description: "Content Security Policy allows code execution via eval()",
		})
	}

	report.RiskLevel = RiskLevelForScore(report.TotalScore)
	return report
}

// RiskLevelForScore buckets a total extension score
func RiskLevelForScore(score uint) string {
	switch {
	case score <= 20:
		return entities.RiskLow.String()
	case score <= 100:
		return entities.RiskMedium.String()
	case score <= 300:
		return entities.RiskHigh.String()
	default:
		return entities.RiskCritical.String()
	}
}

// PartitionPermissions splits a mixed permission list into API permissions and
// host patterns. Entries containing "://" or starting with "<" are hosts.
func PartitionPermissions(perms []string) (api, hosts []string) {
	api, hosts = []string{}, []string{}
	for _, p := range perms {
		if strings.Contains(p, "://") || strings.HasPrefix(p, "<") {
			hosts = append(hosts, p)
		} else {
			api = append(api, p)
		}
	}
	return api, hosts
}

// HighRiskPermissions returns the names of permissions graded high or critical
func HighRiskPermissions(report *entities.ExtensionRiskReport) []string {
	var names []string
	for _, p := range report.Permissions {
		if p.Level >= entities.RiskHigh {
			names = append(names, p.Name)
		}
	}
	return names
}
