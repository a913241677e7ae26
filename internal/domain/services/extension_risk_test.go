package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

func TestAnalyzeExtension_EndToEnd(t *testing.T) {
	report := AnalyzeExtension(
		[]string{"tabs", "storage"},
		nil,
		[]string{"https://example.com/*"},
		strPtr("script-src 'self'"),
	)

	require.Len(t, report.Permissions, 2)
	assert.Equal(t, uint(60), report.TotalScore) // 50 + 5 + 5 + 0
	assert.Equal(t, "medium", report.RiskLevel)
	assert.Equal(t, entities.HostScopeSpecific, report.HostPermissionScope)
	assert.Equal(t, []string{"example.com"}, report.ExternalDomains)
	assert.Empty(t, report.Issues)
}

func TestAnalyzeExtension_RequiredOnlySumsCatalogScores(t *testing.T) {
	lists := [][]string{
		{},
		{"storage"},
		{"debugger", "tabs", "activeTab", "storage", "mystery"},
		{"cookies", "cookies"},
	}

	for _, perms := range lists {
		var want uint
		for _, p := range perms {
			want += LookupPermission(p).Level.Score()
		}

		report := AnalyzeExtension(perms, nil, nil, nil)
		// A missing CSP always contributes 30.
		assert.Equal(t, want+30, report.TotalScore, "%v", perms)
	}
}

func TestAnalyzeExtension_RequiredOnlyWithCleanCSP(t *testing.T) {
	perms := []string{"debugger", "history", "scripting"}
	report := AnalyzeExtension(perms, nil, nil, strPtr("script-src 'self'"))
	assert.Equal(t, uint(100+50+20), report.TotalScore)
}

func TestAnalyzeExtension_OptionalHalfWeight(t *testing.T) {
	report := AnalyzeExtension(nil, []string{"tabs", "storage", "debugger"}, nil, strPtr("default-src 'self'"))

	assert.Equal(t, uint(25+2+50), report.TotalScore)
	require.Len(t, report.Permissions, 3)
	assert.Equal(t, "tabs (optional)", report.Permissions[0].Name)
	assert.Equal(t, "storage (optional)", report.Permissions[1].Name)
	assert.Equal(t, entities.RiskCritical, report.Permissions[2].Level)

	// Optional critical permissions still count toward the critical issue.
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "1 critical permission(s)", report.Issues[0].Title)
}

func TestAnalyzeExtension_IssueOrder(t *testing.T) {
	report := AnalyzeExtension(
		[]string{"debugger", "proxy"},
		nil,
		[]string{"<all_urls>"},
		strPtr("script-src 'unsafe-eval'"),
	)

	require.Len(t, report.Issues, 3)
	assert.Equal(t, entities.RiskIssue{
		Category:    "Permissions",
		Severity:    entities.RiskCritical,
		Title:       "All URLs access",
		Description: "Extension can access all websites",
	}, report.Issues[0])
	assert.Equal(t, "2 critical permission(s)", report.Issues[1].Title)
	assert.Equal(t, "Extension requests highly dangerous permissions", report.Issues[1].Description)
	assert.Equal(t, entities.RiskIssue{
		Category:    "Security Policy",
		Severity:    entities.RiskHigh,
		Title:       "Allows eval()",
		Description: "Content Security Policy allows code execution via eval()",
	}, report.Issues[2])

	assert.Equal(t, uint(100+100+80+40), report.TotalScore)
	assert.Equal(t, "critical", report.RiskLevel)
	assert.Equal(t, []string{"<all_urls>"}, report.HostPermissions)
}

func TestAnalyzeExtension_KeepsRawHostInput(t *testing.T) {
	hosts := []string{" https://a.com/* ", "https://a.com/*"}
	report := AnalyzeExtension(nil, nil, hosts, nil)

	assert.Equal(t, hosts, report.HostPermissions)
	assert.Equal(t, []string{"a.com"}, report.ExternalDomains)
}

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		score uint
		want  string
	}{
		{0, "low"}, {20, "low"}, {21, "medium"}, {100, "medium"},
		{101, "high"}, {300, "high"}, {301, "critical"}, {5000, "critical"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestPartitionPermissions(t *testing.T) {
	api, hosts := PartitionPermissions([]string{
		"tabs", "<all_urls>", "https://example.com/*", "storage", "*://*.mozilla.org/*",
	})

	assert.Equal(t, []string{"tabs", "storage"}, api)
	assert.Equal(t, []string{"<all_urls>", "https://example.com/*", "*://*.mozilla.org/*"}, hosts)
}

func TestHighRiskPermissions(t *testing.T) {
	report := AnalyzeExtension([]string{"storage", "tabs", "debugger", "activeTab"}, nil, nil, nil)
	assert.Equal(t, []string{"tabs", "debugger"}, HighRiskPermissions(&report))
}
