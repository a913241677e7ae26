package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces/repositories"
)

var _ repositories.ConfigRepository = (*ConfigRepository)(nil)

func TestConfigRepository_Load_Missing(t *testing.T) {
	repo := NewConfigRepository(filepath.Join(t.TempDir(), "config.yaml"))

	config, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if config.CacheTTLHours != 24 {
		t.Errorf("CacheTTLHours = %d, want 24", config.CacheTTLHours)
	}
	if len(config.DefaultSources) != len(entities.AllSources()) {
		t.Errorf("DefaultSources = %v, want all sources", config.DefaultSources)
	}
	if repo.Exists() {
		t.Error("Exists() = true for missing file")
	}
}

func TestConfigRepository_Load_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`cache_ttl_hours: 6
check_outdated: false
ignore:
  packages:
    - "ms-python.*"
`)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	config, err := NewConfigRepository(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.CacheTTLHours != 6 {
		t.Errorf("CacheTTLHours = %d, want 6", config.CacheTTLHours)
	}
	if config.CheckOutdated {
		t.Error("CheckOutdated = true, want false")
	}
	if config.DefaultFormat != "table" {
		t.Errorf("DefaultFormat = %q, want table", config.DefaultFormat)
	}
	if len(config.Ignore.Packages) != 1 || config.Ignore.Packages[0] != "ms-python.*" {
		t.Errorf("Ignore.Packages = %v", config.Ignore.Packages)
	}
	if config.Ignore.Vulnerabilities == nil {
		t.Error("Ignore.Vulnerabilities should be empty, not nil")
	}
}

func TestConfigRepository_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "cache_ttl_hours: [unclosed"},
		{name: "unknown source", content: "default_sources: [netscape]"},
		{name: "wrong type", content: "skip_vuln_check: sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := NewConfigRepository(path).Load(context.Background()); err == nil {
				t.Error("Load() should return error")
			}
		})
	}
}

func TestConfigRepository_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	repo := NewConfigRepository(path)

	config := entities.DefaultConfig()
	config.DefaultSources = []entities.Source{entities.SourceNpm, entities.SourceHomebrew}
	config.DefaultFormat = "sarif"
	config.Ignore.Vulnerabilities = []string{"GHSA-xxxx-yyyy-zzzz"}

	if err := repo.Save(context.Background(), config); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !repo.Exists() {
		t.Fatal("Exists() = false after Save()")
	}

	loaded, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultFormat != "sarif" {
		t.Errorf("DefaultFormat = %q, want sarif", loaded.DefaultFormat)
	}
	if len(loaded.DefaultSources) != 2 || loaded.DefaultSources[1] != entities.SourceHomebrew {
		t.Errorf("DefaultSources = %v", loaded.DefaultSources)
	}
	if len(loaded.Ignore.Vulnerabilities) != 1 {
		t.Errorf("Ignore.Vulnerabilities = %v", loaded.Ignore.Vulnerabilities)
	}
}

func TestConfigRepository_DefaultContent(t *testing.T) {
	content, err := NewConfigRepository("unused").DefaultContent()
	if err != nil {
		t.Fatalf("DefaultContent() error = %v", err)
	}

	config, err := NewConfigParser().Parse([]byte(content))
	if err != nil {
		t.Fatalf("default content does not parse: %v", err)
	}
	if config.CacheTTLHours != 24 || !config.CheckOutdated {
		t.Errorf("default content parsed to %+v", config)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv(ConfigEnvVar, "/tmp/from-env.yaml")

	got, err := DefaultConfigPath("/explicit.yaml")
	if err != nil || got != "/explicit.yaml" {
		t.Errorf("DefaultConfigPath(explicit) = %q, %v", got, err)
	}

	got, err = DefaultConfigPath("")
	if err != nil || got != "/tmp/from-env.yaml" {
		t.Errorf("DefaultConfigPath(env) = %q, %v", got, err)
	}
}
