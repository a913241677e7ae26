package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

type stubSBOM struct {
	err error
}

func (s stubSBOM) GenerateSBOM(_ context.Context, result *entities.ScanResult) (*entities.SBOM, error) {
	if s.err != nil {
		return nil, s.err
	}
	sbom := &entities.SBOM{
		BOMFormat:    "CycloneDX",
		SpecVersion:  "1.5",
		Version:      1,
		SerialNumber: "urn:uuid:00000000-0000-4000-8000-000000000000",
		Metadata: entities.Metadata{
			Timestamp: result.ScanTime,
			Tools:     []entities.Tool{{Vendor: "extenscan", Name: "extenscan", Version: "test"}},
		},
	}
	for _, p := range result.Packages {
		sbom.Components = append(sbom.Components, entities.Component{
			Type: "library", BOMRef: p.ID, Name: p.Name, Version: p.Version,
			PURL:               "pkg:" + string(p.Source) + "/" + p.ID + "@" + p.Version,
			Licenses:           []string{"MIT"},
			ExternalReferences: []entities.ExternalReference{{Type: "website", URL: "https://example.com"}},
		})
	}
	for _, v := range result.Vulnerabilities {
		sbom.Vulnerabilities = append(sbom.Vulnerabilities, entities.SBOMVulnerability{
			BOMRef: "vuln-" + v.ID, ID: v.ID, Description: v.Title, Severity: v.Severity,
			Affects: []string{v.PackageID},
		})
	}
	return sbom, nil
}

func sampleResult() *entities.ScanResult {
	result := entities.NewScanResult([]entities.Package{
		{ID: "lodash", Name: "lodash", Version: "4.17.20", Source: entities.SourceNpm, InstallPath: "/usr/lib/node_modules/lodash"},
		{ID: "typescript", Name: "typescript", Version: "4.9.5", Source: entities.SourceNpm},
		{ID: "wget", Name: "wget", Version: "1.21", Source: entities.SourceHomebrew},
		{ID: "abc", Name: "Tab Manager", Version: entities.UnknownVersion, Source: entities.SourceFirefox,
			ExtensionRisk: &entities.ExtensionRiskReport{
				TotalScore: 165,
				RiskLevel:  "high",
				Permissions: []entities.PermissionRisk{
					{Name: "tabs", Level: entities.RiskHigh},
					{Name: "storage", Level: entities.RiskLow},
				},
				Issues: []entities.RiskIssue{{Title: "Access to all websites"}},
			}},
		{ID: "calm", Name: "Calm Ext", Version: "1.0", Source: entities.SourceChrome,
			ExtensionRisk: &entities.ExtensionRiskReport{TotalScore: 5, RiskLevel: "low"}},
	})
	result.ScanTime = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	result.Vulnerabilities = []entities.Vulnerability{
		{ID: "GHSA-low", PackageID: "wget", Severity: entities.SeverityLow, Title: "Minor issue"},
		{ID: "GHSA-crit", PackageID: "lodash", Severity: entities.SeverityCritical, Title: "Prototype <pollution>",
			Description: "Details", FixedVersion: "4.17.21", ReferenceURL: "https://osv.dev/GHSA-crit"},
	}
	result.Outdated = []entities.OutdatedInfo{
		{PackageID: "typescript", CurrentVersion: "4.9.5", LatestVersion: "5.4.2"},
		{PackageID: "wget", CurrentVersion: "1.21", LatestVersion: "1.24.5"},
	}
	return result
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"sarif", FormatSARIF, false},
		{"cyclonedx", FormatCycloneDX, false},
		{"cdx", FormatCycloneDX, false},
		{"SBOM", FormatCycloneDX, false},
		{"html", FormatHTML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "Unknown format: xml. Use 'table', 'json', 'sarif', 'cyclonedx', or 'html'", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(stubSBOM{}, "test").Write(context.Background(), &buf, sampleResult(), FormatTable))
	out := buf.String()

	assert.Contains(t, out, "Scan completed at: 2026-03-04 05:06:07 UTC")
	assert.Contains(t, out, "Found 5 packages:")
	assert.Contains(t, out, "Found 2 vulnerabilities:")
	assert.Less(t, strings.Index(out, "GHSA-crit"), strings.Index(out, "GHSA-low"), "critical sorts first")
	assert.Contains(t, out, "Found 2 outdated packages:")
	assert.Contains(t, out, "MAJOR")
	assert.Contains(t, out, "Upgrade commands:")
	assert.Contains(t, out, "  npm update -g typescript\n")
	assert.Contains(t, out, "  brew upgrade wget\n")
	assert.Contains(t, out, "Extension Risk Analysis (1 with elevated risk):")
	assert.Contains(t, out, "  Total packages: 5 (1 with unknown version)")
	assert.Contains(t, out, "  By source: 1 Chrome, 1 Firefox, 2 NPM, 1 Homebrew")
	assert.Contains(t, out, "  Vulnerabilities: 1 critical, 0 high, 0 medium, 1 low")
	assert.Contains(t, out, "  Outdated packages: 2 (1 major updates)")
	// 100 - 25 - 3 - 5 - 2
	assert.Contains(t, out, "Health Score: 65/100 [Fair]")
	assert.NotContains(t, out, "\x1b[", "no colour without a terminal")
}

func TestWrite_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(nil, "test").Write(context.Background(), &buf, entities.NewScanResult(nil), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "No packages found.")
	assert.Contains(t, out, "Health Score: 100/100 [Excellent]")
	assert.NotContains(t, out, "By source")
}

func TestUpgradeCommands_Collapse(t *testing.T) {
	var pkgs []entities.Package
	var outdated []entities.OutdatedInfo
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		pkgs = append(pkgs, entities.Package{ID: id, Name: id, Version: "1.0.0", Source: entities.SourceNpm})
		outdated = append(outdated, entities.OutdatedInfo{PackageID: id, CurrentVersion: "1.0.0", LatestVersion: "1.0.1"})
	}
	result := entities.NewScanResult(pkgs)
	result.Outdated = outdated

	var buf bytes.Buffer
	require.NoError(t, NewWriter(nil, "test").Write(context.Background(), &buf, result, FormatTable))
	assert.Contains(t, buf.String(), "  npm update -g  # 6 packages\n")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(nil, "test").Write(context.Background(), &buf, sampleResult(), FormatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded["packages"], 5)
	assert.Len(t, decoded["vulnerabilities"], 2)

	first := decoded["packages"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "/usr/lib/node_modules/lodash", first["install_path"])
	assert.NotContains(t, first, "description")
}

func TestWrite_SARIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(nil, "1.2.3").Write(context.Background(), &buf, sampleResult(), FormatSARIF))

	var log SARIFLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	require.Len(t, run.Results, 2)
	require.Len(t, run.Tool.Driver.Rules, 2)

	low, crit := run.Results[0], run.Results[1]
	assert.Equal(t, "note", low.Level)
	assert.Equal(t, "wget", low.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, "error", crit.Level)
	assert.Equal(t, "critical vulnerability in lodash: Prototype <pollution> (fixed in 4.17.21)", crit.Message.Text)
	assert.Equal(t, "/usr/lib/node_modules/lodash", crit.Locations[0].PhysicalLocation.ArtifactLocation.URI)

	assert.Nil(t, run.Tool.Driver.Rules[0].FullDescription)
	assert.Equal(t, "https://osv.dev/GHSA-crit", run.Tool.Driver.Rules[1].HelpURI)
}

func TestSarifLevel(t *testing.T) {
	assert.Equal(t, "error", sarifLevel(entities.SeverityHigh))
	assert.Equal(t, "warning", sarifLevel(entities.SeverityMedium))
	assert.Equal(t, "note", sarifLevel(entities.SeverityUnknown))
}

func TestWrite_CycloneDX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(stubSBOM{}, "test").Write(context.Background(), &buf, sampleResult(), FormatCycloneDX))

	var bom map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &bom))
	assert.Equal(t, "CycloneDX", bom["bomFormat"])
	assert.Equal(t, "1.5", bom["specVersion"])
	assert.Equal(t, "urn:uuid:00000000-0000-4000-8000-000000000000", bom["serialNumber"])

	components := bom["components"].([]interface{})
	require.Len(t, components, 5)
	first := components[0].(map[string]interface{})
	assert.Equal(t, "lodash", first["bom-ref"])
	assert.Equal(t, "pkg:npm/lodash@4.17.20", first["purl"])

	vulns := bom["vulnerabilities"].([]interface{})
	require.Len(t, vulns, 2)
	rating := vulns[0].(map[string]interface{})["ratings"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "other", rating["method"])
	assert.Equal(t, "low", rating["severity"])
}

func TestWrite_CycloneDXErrors(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(nil, "test").Write(context.Background(), &buf, sampleResult(), FormatCycloneDX)
	require.Error(t, err)

	err = NewWriter(stubSBOM{err: errors.New("boom")}, "test").Write(context.Background(), &buf, sampleResult(), FormatCycloneDX)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate SBOM")
}

func TestWrite_HTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(nil, "test").Write(context.Background(), &buf, sampleResult(), FormatHTML))
	out := buf.String()

	assert.Contains(t, out, "<title>extenscan Report - 2026-03-04</title>")
	assert.Contains(t, out, `<div class="stat-value health-fair">65%</div>`)
	assert.Contains(t, out, "Prototype &lt;pollution&gt;")
	assert.NotContains(t, out, "Prototype <pollution>")
	assert.Contains(t, out, `<td class="update-major">MAJOR</td>`)
	assert.Contains(t, out, `<span class="severity severity-critical">CRITICAL</span>`)
	assert.Contains(t, out, "Scanned 5 packages across 4 sources.")
	assert.Contains(t, out, "Found 2 vulnerabilities (1 critical, 0 high, 0 medium, 1 low).")
}

func TestWrite_HTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(nil, "test").Write(context.Background(), &buf, entities.NewScanResult(nil), FormatHTML))
	out := buf.String()

	assert.Contains(t, out, "No vulnerabilities found")
	assert.Contains(t, out, "All packages are up to date")
	assert.Contains(t, out, "No packages found")
	assert.Contains(t, out, "health-excellent")
}

func TestWriteFile_TableBecomesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(nil, "test").WriteFile(context.Background(), &buf, sampleResult(), FormatTable))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
