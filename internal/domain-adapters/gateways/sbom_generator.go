package gateways

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// sbomGenerator builds a CycloneDX bill of materials from a scan result
type sbomGenerator struct {
	toolVersion string
	now         func() time.Time
	newSerial   func() string
}

// NewSBOMGenerator creates a new SBOM generator gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewSBOMGenerator(toolVersion string) *sbomGenerator {
	return &sbomGenerator{
		toolVersion: toolVersion,
		now:         func() time.Time { return time.Now().UTC() },
		newSerial:   func() string { return uuid.NewString() },
	}
}

// purlType maps a source to its package-URL type
func purlType(source entities.Source) string {
	if source == entities.SourceHomebrew {
		return "brew"
	}
	return string(source)
}

// GenerateSBOM lists every package as a library component and every
// vulnerability with a reference to the component it affects
func (g *sbomGenerator) GenerateSBOM(_ context.Context, result *entities.ScanResult) (*entities.SBOM, error) {
	if result == nil {
		return nil, fmt.Errorf("scan result cannot be nil")
	}

	components := make([]entities.Component, 0, len(result.Packages))
	for _, pkg := range result.Packages {
		component := entities.Component{
			Type:        "library",
			BOMRef:      pkg.ID,
			Name:        pkg.Name,
			Version:     pkg.Version,
			PURL:        fmt.Sprintf("pkg:%s/%s@%s", purlType(pkg.Source), pkg.ID, pkg.Version),
			Description: pkg.Description,
			Publisher:   pkg.Publisher,
		}
		if pkg.License != "" {
			component.Licenses = []string{pkg.License}
		}
		if pkg.Homepage != "" {
			component.ExternalReferences = append(component.ExternalReferences,
				entities.ExternalReference{Type: "website", URL: pkg.Homepage})
		}
		if pkg.Repository != "" {
			component.ExternalReferences = append(component.ExternalReferences,
				entities.ExternalReference{Type: "vcs", URL: pkg.Repository})
		}
		components = append(components, component)
	}

	vulnerabilities := make([]entities.SBOMVulnerability, 0, len(result.Vulnerabilities))
	for _, vuln := range result.Vulnerabilities {
		entry := entities.SBOMVulnerability{
			BOMRef:      "vuln-" + vuln.ID,
			ID:          vuln.ID,
			Description: vuln.Description,
			Severity:    vuln.Severity,
			Affects:     []string{vuln.PackageID},
		}
		if entry.Description == "" {
			entry.Description = vuln.Title
		}
		if vuln.FixedVersion != "" {
			entry.Recommendation = "Upgrade to version " + vuln.FixedVersion
		}
		vulnerabilities = append(vulnerabilities, entry)
	}

	return &entities.SBOM{
		BOMFormat:    "CycloneDX",
		SpecVersion:  "1.5",
		Version:      1,
		SerialNumber: "urn:uuid:" + g.newSerial(),
		Metadata: entities.Metadata{
			Timestamp: g.now(),
			Tools: []entities.Tool{
				{Vendor: "extenscan", Name: "extenscan", Version: g.toolVersion},
			},
		},
		Components:      components,
		Vulnerabilities: vulnerabilities,
	}, nil
}
