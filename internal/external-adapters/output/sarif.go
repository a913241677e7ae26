package output

import (
	"fmt"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	toolName     = "extenscan"
	toolInfoURI  = "https://github.com/ochairo/extenscan"
)

// SARIFLog is the SARIF 2.1.0 document root
type SARIFLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun is one tool invocation
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool wraps the driver
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the scanner and its rules
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes one vulnerability
type SARIFRule struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	ShortDescription     SARIFMessage       `json:"shortDescription"`
	FullDescription      *SARIFMessage      `json:"fullDescription,omitempty"`
	HelpURI              string             `json:"helpUri,omitempty"`
	DefaultConfiguration SARIFConfiguration `json:"defaultConfiguration"`
}

// SARIFConfiguration holds a rule's default level
type SARIFConfiguration struct {
	Level string `json:"level"`
}

// SARIFResult is one finding
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage is plain text
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation points at the affected package
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation wraps an artifact location
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
}

// SARIFArtifactLocation is the package install path or id
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

func sarifLevel(sev entities.Severity) string {
	switch sev {
	case entities.SeverityCritical, entities.SeverityHigh:
		return "error"
	case entities.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func (w *Writer) buildSARIF(result *entities.ScanResult) SARIFLog {
	rules := make([]SARIFRule, 0, len(result.Vulnerabilities))
	results := make([]SARIFResult, 0, len(result.Vulnerabilities))

	for _, vuln := range result.Vulnerabilities {
		level := sarifLevel(vuln.Severity)

		location := vuln.PackageID
		if pkg, ok := result.FindPackage(vuln.PackageID); ok && pkg.InstallPath != "" {
			location = pkg.InstallPath
		}

		rule := SARIFRule{
			ID:                   vuln.ID,
			Name:                 vuln.Title,
			ShortDescription:     SARIFMessage{Text: vuln.Title},
			HelpURI:              vuln.ReferenceURL,
			DefaultConfiguration: SARIFConfiguration{Level: level},
		}
		if vuln.Description != "" {
			rule.FullDescription = &SARIFMessage{Text: vuln.Description}
		}
		rules = append(rules, rule)

		text := fmt.Sprintf("%s vulnerability in %s: %s", vuln.Severity, vuln.PackageID, vuln.Title)
		if vuln.FixedVersion != "" {
			text += fmt.Sprintf(" (fixed in %s)", vuln.FixedVersion)
		}

		results = append(results, SARIFResult{
			RuleID:  vuln.ID,
			Level:   level,
			Message: SARIFMessage{Text: text},
			Locations: []SARIFLocation{{
				PhysicalLocation: SARIFPhysicalLocation{
					ArtifactLocation: SARIFArtifactLocation{URI: location},
				},
			}},
		})
	}

	return SARIFLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{Driver: SARIFDriver{
				Name:           toolName,
				Version:        w.toolVersion,
				InformationURI: toolInfoURI,
				Rules:          rules,
			}},
			Results: results,
		}},
	}
}
