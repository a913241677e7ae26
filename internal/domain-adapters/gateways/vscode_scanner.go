package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
)

// VSCodeScanner reads extensions from ~/.vscode/extensions
type VSCodeScanner struct {
	paths  *PathResolver
	logger interfaces.Logger
}

// NewVSCodeScanner creates a new VS Code extension scanner
func NewVSCodeScanner(paths *PathResolver, logger interfaces.Logger) *VSCodeScanner {
	return &VSCodeScanner{paths: paths, logger: interfaces.OrNoOp(logger)}
}

// Name returns "VSCode Extensions"
func (s *VSCodeScanner) Name() string { return "VSCode Extensions" }

// Source returns entities.SourceVSCode
func (s *VSCodeScanner) Source() entities.Source { return entities.SourceVSCode }

// SupportedPlatforms returns every platform
func (s *VSCodeScanner) SupportedPlatforms() []entities.Platform { return allPlatforms }

// vscodePackageJSON is the subset of an extension's package.json we read
type vscodePackageJSON struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"displayName"`
	Version     string          `json:"version"`
	Publisher   string          `json:"publisher"`
	Description string          `json:"description"`
	Homepage    string          `json:"homepage"`
	Repository  json.RawMessage `json:"repository"`
	License     string          `json:"license"`
}

// Scan lists every extension directory that has a readable package.json
func (s *VSCodeScanner) Scan(ctx context.Context) ([]entities.Package, error) {
	dir := s.paths.VSCodeExtensionsDir()
	if !dirExists(dir) {
		return []entities.Package{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read VSCode extensions directory %s: %w", dir, err)
	}

	packages := make([]entities.Package, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return packages, err
		}
		if !entry.IsDir() {
			continue
		}

		extPath := filepath.Join(dir, entry.Name())
		//nolint:gosec // G304: path is built from the extensions directory
		data, err := os.ReadFile(filepath.Join(extPath, "package.json"))
		if err != nil {
			continue
		}

		var manifest vscodePackageJSON
		if err := json.Unmarshal(data, &manifest); err != nil {
			s.logger.Debug("skipping extension", interfaces.F("dir", entry.Name()), interfaces.F("error", err.Error()))
			continue
		}

		packages = append(packages, manifest.toPackage(entry.Name(), extPath))
	}

	return packages, nil
}

func (m vscodePackageJSON) toPackage(dirName, extPath string) entities.Package {
	name := m.DisplayName
	if name == "" {
		name = m.Name
	}
	if name == "" {
		name = "Unknown"
	}

	version := m.Version
	if version == "" {
		version = defaultExtensionVersion
	}

	id := dirName
	if m.Publisher != "" && m.Name != "" {
		id = m.Publisher + "." + m.Name
	}

	return entities.Package{
		ID:          id,
		Name:        name,
		Version:     version,
		Source:      entities.SourceVSCode,
		InstallPath: extPath,
		PackageMetadata: entities.PackageMetadata{
			Description: m.Description,
			Publisher:   m.Publisher,
			Homepage:    m.Homepage,
			Repository:  repositoryURL(m.Repository),
			License:     m.License,
		},
	}
}

// repositoryURL accepts "url" or {"url": "..."}
func repositoryURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.URL
	}
	return ""
}
