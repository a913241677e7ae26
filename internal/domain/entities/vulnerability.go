package entities

// Severity is a vulnerability tier
type Severity string

// Severity tiers, most severe first
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityUnknown  Severity = "unknown"
)

// Rank orders severities for display: Critical sorts first, Unknown last
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Label returns the upper-case label used in reports
func (s Severity) Label() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// Vulnerability is a normalized advisory affecting one scanned package
type Vulnerability struct {
	ID           string   `json:"id"`
	PackageID    string   `json:"package_id"`
	Severity     Severity `json:"severity"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	FixedVersion string   `json:"fixed_version,omitempty"`
	ReferenceURL string   `json:"reference_url,omitempty"`
}

// SeverityScore is one raw (type, score) pair attached to an advisory
type SeverityScore struct {
	Type  string
	Score string
}

// Advisory is a raw record returned by a vulnerability database
type Advisory struct {
	PackageID    string
	ID           string
	Summary      string
	Details      string
	Severities   []SeverityScore
	FixedVersion string
	ReferenceURL string
}

// OutdatedInfo records a package whose registry has a newer version
type OutdatedInfo struct {
	PackageID      string `json:"package_id"`
	CurrentVersion string `json:"current_version"`
	LatestVersion  string `json:"latest_version"`
}
