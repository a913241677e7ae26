package output

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// cdxBOM is the CycloneDX 1.5 JSON document
type cdxBOM struct {
	BOMFormat       string             `json:"bomFormat"`
	SpecVersion     string             `json:"specVersion"`
	Version         int                `json:"version"`
	SerialNumber    string             `json:"serialNumber"`
	Metadata        cdxMetadata        `json:"metadata"`
	Components      []cdxComponent     `json:"components"`
	Vulnerabilities []cdxVulnerability `json:"vulnerabilities,omitempty"`
}

type cdxMetadata struct {
	Timestamp string    `json:"timestamp"`
	Tools     []cdxTool `json:"tools"`
}

type cdxTool struct {
	Vendor  string `json:"vendor"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type cdxComponent struct {
	Type               string           `json:"type"`
	BOMRef             string           `json:"bom-ref"`
	Name               string           `json:"name"`
	Version            string           `json:"version"`
	PURL               string           `json:"purl,omitempty"`
	Description        string           `json:"description,omitempty"`
	Publisher          string           `json:"publisher,omitempty"`
	Licenses           []cdxLicense     `json:"licenses,omitempty"`
	ExternalReferences []cdxExternalRef `json:"externalReferences,omitempty"`
}

type cdxLicense struct {
	License cdxLicenseID `json:"license"`
}

type cdxLicenseID struct {
	ID string `json:"id"`
}

type cdxExternalRef struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type cdxVulnerability struct {
	BOMRef         string       `json:"bom-ref"`
	ID             string       `json:"id"`
	Description    string       `json:"description,omitempty"`
	Recommendation string       `json:"recommendation,omitempty"`
	Ratings        []cdxRating  `json:"ratings,omitempty"`
	Affects        []cdxAffects `json:"affects"`
}

type cdxRating struct {
	Severity string `json:"severity"`
	Method   string `json:"method"`
}

type cdxAffects struct {
	Ref string `json:"ref"`
}

// buildCycloneDX maps the domain SBOM onto the CycloneDX JSON schema
func (w *Writer) buildCycloneDX(ctx context.Context, result *entities.ScanResult) (*cdxBOM, error) {
	if w.sbom == nil {
		return nil, errors.New("no SBOM generator configured")
	}

	sbom, err := w.sbom.GenerateSBOM(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate SBOM: %w", err)
	}

	bom := &cdxBOM{
		BOMFormat:    sbom.BOMFormat,
		SpecVersion:  sbom.SpecVersion,
		Version:      sbom.Version,
		SerialNumber: sbom.SerialNumber,
		Metadata: cdxMetadata{
			Timestamp: sbom.Metadata.Timestamp.Format(time.RFC3339),
		},
		Components: make([]cdxComponent, 0, len(sbom.Components)),
	}

	for _, tool := range sbom.Metadata.Tools {
		bom.Metadata.Tools = append(bom.Metadata.Tools, cdxTool(tool))
	}

	for _, c := range sbom.Components {
		component := cdxComponent{
			Type:        c.Type,
			BOMRef:      c.BOMRef,
			Name:        c.Name,
			Version:     c.Version,
			PURL:        c.PURL,
			Description: c.Description,
			Publisher:   c.Publisher,
		}
		for _, id := range c.Licenses {
			component.Licenses = append(component.Licenses, cdxLicense{License: cdxLicenseID{ID: id}})
		}
		for _, ref := range c.ExternalReferences {
			component.ExternalReferences = append(component.ExternalReferences, cdxExternalRef(ref))
		}
		bom.Components = append(bom.Components, component)
	}

	for _, v := range sbom.Vulnerabilities {
		entry := cdxVulnerability{
			BOMRef:         v.BOMRef,
			ID:             v.ID,
			Description:    v.Description,
			Recommendation: v.Recommendation,
			Ratings:        []cdxRating{{Severity: string(v.Severity), Method: "other"}},
		}
		for _, ref := range v.Affects {
			entry.Affects = append(entry.Affects, cdxAffects{Ref: ref})
		}
		bom.Vulnerabilities = append(bom.Vulnerabilities, entry)
	}

	return bom, nil
}
