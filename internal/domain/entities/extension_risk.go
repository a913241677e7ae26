package entities

import (
	"encoding/json"
	"fmt"
)

// RiskLevel grades a single extension permission or finding
type RiskLevel int

// Risk levels in ascending order
const (
	RiskNone RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

// Score returns the weight a level contributes to an extension's total score
func (l RiskLevel) Score() uint {
	switch l {
	case RiskLow:
		return 5
	case RiskMedium:
		return 20
	case RiskHigh:
		return 50
	case RiskCritical:
		return 100
	default:
		return 0
	}
}

func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "none"
	}
}

// MarshalJSON encodes the level by name
func (l RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level written by MarshalJSON
func (l *RiskLevel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for level := RiskNone; level <= RiskCritical; level++ {
		if level.String() == name {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("unknown risk level: %q", name)
}

// PermissionRisk describes one declared permission
type PermissionRisk struct {
	Name        string    `json:"name"`
	Level       RiskLevel `json:"level"`
	Description string    `json:"description"`
	Warning     *string   `json:"warning,omitempty"`
}

// HostPermissionScope classifies how much of the web an extension can reach
type HostPermissionScope int

// Host scopes in ascending breadth
const (
	HostScopeNone HostPermissionScope = iota
	HostScopeSpecific
	HostScopeBroad
	HostScopeAllURLs
)

// Score returns the weight a scope contributes to an extension's total score
func (s HostPermissionScope) Score() uint {
	switch s {
	case HostScopeSpecific:
		return 5
	case HostScopeBroad:
		return 30
	case HostScopeAllURLs:
		return 80
	default:
		return 0
	}
}

func (s HostPermissionScope) String() string {
	switch s {
	case HostScopeSpecific:
		return "Specific"
	case HostScopeBroad:
		return "Broad"
	case HostScopeAllURLs:
		return "AllUrls"
	default:
		return "None"
	}
}

// MarshalJSON encodes the scope by name
func (s HostPermissionScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a scope written by MarshalJSON
func (s *HostPermissionScope) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for scope := HostScopeNone; scope <= HostScopeAllURLs; scope++ {
		if scope.String() == name {
			*s = scope
			return nil
		}
	}
	return fmt.Errorf("unknown host permission scope: %q", name)
}

// CspAnalysis is the result of inspecting a Content Security Policy
type CspAnalysis struct {
	HasCSP              bool     `json:"has_csp"`
	AllowsUnsafeEval    bool     `json:"allows_unsafe_eval"`
	AllowsUnsafeInline  bool     `json:"allows_unsafe_inline"`
	AllowsRemoteScripts bool     `json:"allows_remote_scripts"`
	AllowedDomains      []string `json:"allowed_domains"`
	Issues              []string `json:"issues"`
	Score               uint     `json:"score"`
}

// RiskIssue is a derived finding about an extension
type RiskIssue struct {
	Category    string    `json:"category"`
	Severity    RiskLevel `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// ExtensionRiskReport is the full risk assessment for one extension
type ExtensionRiskReport struct {
	TotalScore          uint                `json:"total_score"`
	RiskLevel           string              `json:"risk_level"`
	Permissions         []PermissionRisk    `json:"permissions"`
	HostPermissions     []string            `json:"host_permissions"`
	HostPermissionScope HostPermissionScope `json:"host_permission_scope"`
	CSP                 CspAnalysis         `json:"csp"`
	ExternalDomains     []string            `json:"external_domains"`
	Issues              []RiskIssue         `json:"issues"`
}
