package test_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/extenscan/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/extenscan/internal/domain-orchestrators"
	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/services"
	"github.com/ochairo/extenscan/internal/external-adapters/output"
	"github.com/ochairo/extenscan/internal/external-adapters/sqlite"
)

// offlineRunner answers npm and brew as if nothing were installed
type offlineRunner struct{}

func (offlineRunner) Run(_ context.Context, name string, args ...string) (*gateways.CommandResult, error) {
	switch {
	case len(args) > 0 && args[0] == "config":
		return &gateways.CommandResult{ExitCode: 1}, nil
	case name == "npm" || name == "npm.cmd":
		return &gateways.CommandResult{Stdout: []byte(`{"dependencies":{}}`)}, nil
	default:
		return &gateways.CommandResult{Stdout: []byte(`{"formulae":[]}`)}, nil
	}
}

// TestEndToEnd_ScanFixtureHome scans a fabricated Linux home with a VSCode
// extension and a Chrome extension, then renders every report format
func TestEndToEnd_ScanFixtureHome(t *testing.T) {
	home := t.TempDir()
	writeVSCodeExtension(t, home, "acme", "linter", "1.2.3")
	writeChromeExtension(t, home, "abcdefghijklmnop", `{
		"name": "Tab Spy",
		"version": "2.0.0",
		"manifest_version": 3,
		"permissions": ["tabs", "cookies", "webRequest"],
		"host_permissions": ["<all_urls>"]
	}`)

	paths := gateways.NewPathResolverAt(entities.PlatformLinux, home)
	registry := gateways.NewScannerRegistry(offlineRunner{}, paths, nil)

	cache, err := sqlite.Open(sqlite.InMemory, 24)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	security := services.NewSecurityService(gateways.NewOSVGateway(nil), gateways.NewVersionFetcher(cache, nil), nil)
	orchestrator := orchestrators.NewScanOrchestrator(registry, security, nil)

	result, err := orchestrator.Scan(context.Background(), orchestrators.ScanOptions{
		Sources:  []entities.Source{entities.SourceVSCode, entities.SourceChrome, entities.SourceNpm},
		Parallel: true,
	})
	require.NoError(t, err)
	require.Len(t, result.Packages, 2)

	vscode, ok := result.FindPackage("acme.linter")
	require.True(t, ok)
	assert.Equal(t, entities.SourceVSCode, vscode.Source)
	assert.Nil(t, vscode.ExtensionRisk)

	chrome, ok := result.FindPackage("abcdefghijklmnop")
	require.True(t, ok)
	require.NotNil(t, chrome.ExtensionRisk)
	assert.Equal(t, entities.HostScopeAllURLs, chrome.ExtensionRisk.HostPermissionScope)
	assert.Equal(t, uint(260), chrome.ExtensionRisk.TotalScore)
	assert.Equal(t, "high", chrome.ExtensionRisk.RiskLevel)
	assert.Equal(t, 100, orchestrator.HealthScore(result))

	writer := output.NewWriter(gateways.NewSBOMGenerator("test"), "test")
	expected := map[output.Format]string{
		output.FormatTable:     "Tab Spy",
		output.FormatJSON:      `"id": "acme.linter"`,
		output.FormatSARIF:     `"version": "2.1.0"`,
		output.FormatCycloneDX: "Tab Spy",
		output.FormatHTML:      "<td>Tab Spy</td>",
	}
	for format, want := range expected {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writer.Write(context.Background(), &buf, result, format))
			assert.Contains(t, buf.String(), want)

			if format != output.FormatTable && format != output.FormatHTML {
				var doc map[string]interface{}
				assert.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
			}
		})
	}
}

func writeChromeExtension(t *testing.T, home, id, manifest string) {
	t.Helper()

	dir := filepath.Join(home, ".config", "google-chrome", "Default", "Extensions", id, "2.0.0_0")
	require.NoError(t, os.MkdirAll(dir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(manifest), 0600))
}
