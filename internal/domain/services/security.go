// Package services implements domain business logic and use cases.
package services

import (
	"context"
	"fmt"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
	"github.com/ochairo/extenscan/internal/domain/interfaces/gateways"
	"github.com/ochairo/extenscan/internal/domain/interfaces/services"
)

const defaultVulnerabilityTitle = "Unknown vulnerability"

// securityService implements SecurityService with pure business logic
type securityService struct {
	vulnGateway     gateways.VulnerabilityGateway
	registryGateway gateways.RegistryGateway
	logger          interfaces.Logger
}

// NewSecurityService creates a new security service with dependency injection.
// Either gateway may be nil, which disables the corresponding check.
func NewSecurityService(vulnGateway gateways.VulnerabilityGateway, registryGateway gateways.RegistryGateway, logger interfaces.Logger) services.SecurityService {
	return &securityService{
		vulnGateway:     vulnGateway,
		registryGateway: registryGateway,
		logger:          interfaces.OrNoOp(logger),
	}
}

// FindVulnerabilities looks up advisories and normalizes them
func (s *securityService) FindVulnerabilities(ctx context.Context, packages []entities.Package) ([]entities.Vulnerability, error) {
	if s.vulnGateway == nil || len(packages) == 0 {
		return []entities.Vulnerability{}, nil
	}

	advisories, err := s.vulnGateway.QueryAdvisories(ctx, packages)
	if err != nil {
		return nil, fmt.Errorf("vulnerability lookup failed: %w", err)
	}

	vulns := make([]entities.Vulnerability, 0, len(advisories))
	for _, a := range advisories {
		vulns = append(vulns, NormalizeAdvisory(a))
	}

	s.logger.Debug("vulnerability lookup complete",
		interfaces.F("packages", len(packages)),
		interfaces.F("vulnerabilities", len(vulns)))
	return vulns, nil
}

// FindOutdated compares installed versions with registry versions.
// Packages whose registry cannot be reached are treated as current.
func (s *securityService) FindOutdated(ctx context.Context, packages []entities.Package) []entities.OutdatedInfo {
	outdated := []entities.OutdatedInfo{}
	if s.registryGateway == nil {
		return outdated
	}

	for _, pkg := range packages {
		if ctx.Err() != nil {
			break
		}
		latest, ok := s.registryGateway.LatestVersion(ctx, pkg)
		if !ok {
			continue
		}
		if IsNewer(latest, pkg.Version) {
			outdated = append(outdated, entities.OutdatedInfo{
				PackageID:      pkg.ID,
				CurrentVersion: pkg.Version,
				LatestVersion:  latest,
			})
		}
	}

	return outdated
}

// CalculateHealthScore scores a complete scan result
// Pure business logic - no I/O
func (s *securityService) CalculateHealthScore(result *entities.ScanResult) int {
	return CalculateHealthScore(result.Vulnerabilities, result.Outdated, len(result.Packages))
}

// ExitCodeFor returns the process exit code implied by --fail-on
// Pure business logic - no I/O
func (s *securityService) ExitCodeFor(vulnerabilities []entities.Vulnerability, failOn services.FailLevel) int {
	return ExitCodeFor(vulnerabilities, failOn)
}

// ExitCodeFor returns the exit code of the most severe vulnerability at or
// above the fail-on threshold, or success when none qualifies.
func ExitCodeFor(vulnerabilities []entities.Vulnerability, failOn services.FailLevel) int {
	threshold, ok := failThreshold[failOn]
	if !ok {
		return services.ExitSuccess
	}

	counts := make(map[entities.Severity]int)
	for _, v := range vulnerabilities {
		counts[v.Severity]++
	}

	for _, tier := range []struct {
		severity entities.Severity
		code     int
	}{
		{entities.SeverityCritical, services.ExitCriticalVuln},
		{entities.SeverityHigh, services.ExitHighVuln},
		{entities.SeverityMedium, services.ExitMediumVuln},
		{entities.SeverityLow, services.ExitLowVuln},
	} {
		if tier.severity.Rank() > threshold.Rank() {
			break
		}
		if counts[tier.severity] > 0 {
			return tier.code
		}
	}

	return services.ExitSuccess
}

var failThreshold = map[services.FailLevel]entities.Severity{
	services.FailCritical: entities.SeverityCritical,
	services.FailHigh:     entities.SeverityHigh,
	services.FailMedium:   entities.SeverityMedium,
	services.FailLow:      entities.SeverityLow,
}

// ParseFailLevel validates a --fail-on value
func ParseFailLevel(s string) (services.FailLevel, error) {
	if s == "" {
		return services.FailNone, nil
	}
	level := services.FailLevel(s)
	if _, ok := failThreshold[level]; !ok {
		return services.FailNone, fmt.Errorf("invalid fail-on level %q: use critical, high, medium or low", s)
	}
	return level, nil
}

// NormalizeAdvisory converts a raw advisory into a Vulnerability
func NormalizeAdvisory(a entities.Advisory) entities.Vulnerability {
	scores := make([]string, 0, len(a.Severities))
	for _, sev := range a.Severities {
		scores = append(scores, sev.Score)
	}

	title := a.Summary
	if title == "" {
		title = defaultVulnerabilityTitle
	}

	return entities.Vulnerability{
		ID:           a.ID,
		PackageID:    a.PackageID,
		Severity:     ClassifySeverities(scores),
		Title:        title,
		Description:  a.Details,
		FixedVersion: a.FixedVersion,
		ReferenceURL: a.ReferenceURL,
	}
}
