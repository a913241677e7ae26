package entities

import "time"

// SBOM represents a CycloneDX Software Bill of Materials for a scan
type SBOM struct {
	BOMFormat       string // "CycloneDX"
	SpecVersion     string // "1.5"
	Version         int
	SerialNumber    string // urn:uuid:...
	Metadata        Metadata
	Components      []Component
	Vulnerabilities []SBOMVulnerability
}

// Component represents one installed package in the SBOM
type Component struct {
	Type               string // "library"
	BOMRef             string
	Name               string
	Version            string
	PURL               string
	Description        string
	Publisher          string
	Licenses           []string
	ExternalReferences []ExternalReference
}

// ExternalReference links a component to a website or VCS location
type ExternalReference struct {
	Type string // "website", "vcs"
	URL  string
}

// SBOMVulnerability is a vulnerability entry referencing affected components
type SBOMVulnerability struct {
	BOMRef         string
	ID             string
	Description    string
	Recommendation string
	Severity       Severity
	Affects        []string
}

// Metadata contains SBOM generation metadata
type Metadata struct {
	Timestamp time.Time
	Tools     []Tool
}

// Tool represents a tool used to generate the SBOM
type Tool struct {
	Vendor  string
	Name    string
	Version string
}
