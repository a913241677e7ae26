package gateways

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

func sampleScanResult() *entities.ScanResult {
	result := entities.NewScanResult([]entities.Package{
		{
			ID: "lodash", Name: "lodash", Version: "4.17.20", Source: entities.SourceNpm,
			PackageMetadata: entities.PackageMetadata{
				License:    "MIT",
				Homepage:   "https://lodash.com/",
				Repository: "https://github.com/lodash/lodash",
			},
		},
		{ID: "wget", Name: "wget", Version: "1.21", Source: entities.SourceHomebrew},
		{ID: "abcdef", Name: "Ext", Version: "1.0", Source: entities.SourceChrome},
	})
	result.Vulnerabilities = []entities.Vulnerability{
		{ID: "GHSA-1", PackageID: "lodash", Severity: entities.SeverityHigh, Title: "Prototype pollution", FixedVersion: "4.17.21"},
		{ID: "GHSA-2", PackageID: "lodash", Severity: entities.SeverityLow, Title: "ReDoS", Description: "Slow regex"},
	}
	return result
}

func TestGenerateSBOM(t *testing.T) {
	generator := NewSBOMGenerator("0.3.0")

	sbom, err := generator.GenerateSBOM(context.Background(), sampleScanResult())
	if err != nil {
		t.Fatalf("GenerateSBOM() error = %v", err)
	}

	if sbom.BOMFormat != "CycloneDX" || sbom.SpecVersion != "1.5" || sbom.Version != 1 {
		t.Errorf("unexpected header: %s %s %d", sbom.BOMFormat, sbom.SpecVersion, sbom.Version)
	}

	if !strings.HasPrefix(sbom.SerialNumber, "urn:uuid:") {
		t.Fatalf("SerialNumber = %s, want urn:uuid: prefix", sbom.SerialNumber)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(sbom.SerialNumber, "urn:uuid:")); err != nil {
		t.Errorf("SerialNumber is not a UUID: %v", err)
	}

	if len(sbom.Metadata.Tools) != 1 || sbom.Metadata.Tools[0].Version != "0.3.0" {
		t.Errorf("Tools = %+v", sbom.Metadata.Tools)
	}

	if len(sbom.Components) != 3 {
		t.Fatalf("Components = %d, want 3", len(sbom.Components))
	}

	wantPURLs := []string{"pkg:npm/lodash@4.17.20", "pkg:brew/wget@1.21", "pkg:chrome/abcdef@1.0"}
	for i, want := range wantPURLs {
		if sbom.Components[i].PURL != want {
			t.Errorf("Components[%d].PURL = %s, want %s", i, sbom.Components[i].PURL, want)
		}
	}

	lodash := sbom.Components[0]
	if len(lodash.Licenses) != 1 || lodash.Licenses[0] != "MIT" {
		t.Errorf("Licenses = %v", lodash.Licenses)
	}
	if len(lodash.ExternalReferences) != 2 ||
		lodash.ExternalReferences[0].Type != "website" ||
		lodash.ExternalReferences[1].Type != "vcs" {
		t.Errorf("ExternalReferences = %+v", lodash.ExternalReferences)
	}
	if len(sbom.Components[1].ExternalReferences) != 0 {
		t.Errorf("wget should have no external references")
	}

	if len(sbom.Vulnerabilities) != 2 {
		t.Fatalf("Vulnerabilities = %d, want 2", len(sbom.Vulnerabilities))
	}
	first := sbom.Vulnerabilities[0]
	if first.BOMRef != "vuln-GHSA-1" {
		t.Errorf("BOMRef = %s", first.BOMRef)
	}
	if first.Description != "Prototype pollution" {
		t.Errorf("Description should fall back to title, got %q", first.Description)
	}
	if first.Recommendation != "Upgrade to version 4.17.21" {
		t.Errorf("Recommendation = %q", first.Recommendation)
	}
	if len(first.Affects) != 1 || first.Affects[0] != "lodash" {
		t.Errorf("Affects = %v", first.Affects)
	}

	second := sbom.Vulnerabilities[1]
	if second.Description != "Slow regex" || second.Recommendation != "" {
		t.Errorf("second vulnerability = %+v", second)
	}
}

func TestGenerateSBOM_NilResult(t *testing.T) {
	generator := NewSBOMGenerator("dev")

	_, err := generator.GenerateSBOM(context.Background(), nil)
	if err == nil {
		t.Error("GenerateSBOM() should fail with nil result")
	}
}

func TestGenerateSBOM_UniqueSerials(t *testing.T) {
	generator := NewSBOMGenerator("dev")
	result := entities.NewScanResult(nil)

	a, _ := generator.GenerateSBOM(context.Background(), result)
	b, _ := generator.GenerateSBOM(context.Background(), result)
	if a.SerialNumber == b.SerialNumber {
		t.Errorf("serial numbers should differ, both %s", a.SerialNumber)
	}
}
