package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
	"github.com/ochairo/extenscan/internal/domain/services"
)

// FirefoxScanner reads add-ons from every Firefox profile
type FirefoxScanner struct {
	paths  *PathResolver
	logger interfaces.Logger
}

// NewFirefoxScanner creates a new Firefox add-on scanner
func NewFirefoxScanner(paths *PathResolver, logger interfaces.Logger) *FirefoxScanner {
	return &FirefoxScanner{paths: paths, logger: interfaces.OrNoOp(logger)}
}

// Name returns "Firefox Add-ons"
func (s *FirefoxScanner) Name() string { return "Firefox Add-ons" }

// Source returns entities.SourceFirefox
func (s *FirefoxScanner) Source() entities.Source { return entities.SourceFirefox }

// SupportedPlatforms returns every platform
func (s *FirefoxScanner) SupportedPlatforms() []entities.Platform { return allPlatforms }

// Scan merges add-ons from all profiles, keeping the first occurrence of each id
func (s *FirefoxScanner) Scan(ctx context.Context) ([]entities.Package, error) {
	profilesDir := s.paths.FirefoxProfilesDir()
	if !dirExists(profilesDir) {
		return []entities.Package{}, nil
	}

	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read Firefox profiles: %w", err)
	}

	packages := make([]entities.Package, 0)
	seen := make(map[string]bool)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return packages, err
		}
		if !entry.IsDir() {
			continue
		}

		for _, pkg := range s.scanProfile(filepath.Join(profilesDir, entry.Name())) {
			if seen[pkg.ID] {
				continue
			}
			seen[pkg.ID] = true
			packages = append(packages, pkg)
		}
	}

	return packages, nil
}

// firefoxAddon is one entry of extensions.json
type firefoxAddon struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Version             string          `json:"version"`
	Description         string          `json:"description"`
	Creator             json.RawMessage `json:"creator"`
	HomepageURL         string          `json:"homepageURL"`
	Permissions         []string        `json:"permissions"`
	OptionalPermissions []string        `json:"optionalPermissions"`
	UserPermissions     *struct {
		Permissions []string `json:"permissions"`
		Origins     []string `json:"origins"`
	} `json:"userPermissions"`
}

func (s *FirefoxScanner) scanProfile(profilePath string) []entities.Package {
	packages := make([]entities.Package, 0)
	seen := make(map[string]bool)

	//nolint:gosec // G304: path is built from the Firefox profiles directory
	if data, err := os.ReadFile(filepath.Join(profilePath, "extensions.json")); err == nil {
		var doc struct {
			Addons []firefoxAddon `json:"addons"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			s.logger.Debug("failed to parse extensions.json",
				interfaces.F("profile", profilePath), interfaces.F("error", err.Error()))
		}
		for _, addon := range doc.Addons {
			if pkg, ok := addon.toPackage(); ok {
				seen[pkg.ID] = true
				packages = append(packages, pkg)
			}
		}
	}

	entries, err := os.ReadDir(filepath.Join(profilePath, "extensions"))
	if err != nil {
		return packages
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".xpi") {
			continue
		}
		id := strings.TrimSuffix(name, ".xpi")
		if seen[id] {
			continue
		}
		seen[id] = true
		packages = append(packages, entities.Package{
			ID:          id,
			Name:        id,
			Version:     entities.UnknownVersion,
			Source:      entities.SourceFirefox,
			InstallPath: filepath.Join(profilePath, "extensions", name),
		})
	}

	return packages
}

// toPackage converts an add-on record, skipping built-in Mozilla add-ons
func (a firefoxAddon) toPackage() (entities.Package, bool) {
	if a.ID == "" || strings.HasSuffix(a.ID, "@mozilla.org") || strings.HasSuffix(a.ID, "@shield.mozilla.org") {
		return entities.Package{}, false
	}

	name := a.Name
	if name == "" {
		name = a.ID
	}
	version := a.Version
	if version == "" {
		version = entities.UnknownVersion
	}

	declared := append([]string{}, a.Permissions...)
	var hosts []string
	if a.UserPermissions != nil {
		declared = append(declared, a.UserPermissions.Permissions...)
		hosts = append(hosts, a.UserPermissions.Origins...)
	}
	api, declaredHosts := services.PartitionPermissions(declared)
	hosts = append(hosts, declaredHosts...)

	// extensions.json carries no CSP
	report := services.AnalyzeExtension(api, a.OptionalPermissions, hosts, nil)

	return entities.Package{
		ID:      a.ID,
		Name:    name,
		Version: version,
		Source:  entities.SourceFirefox,
		PackageMetadata: entities.PackageMetadata{
			Description: a.Description,
			Publisher:   authorString(a.Creator),
			Homepage:    a.HomepageURL,
		},
		ExtensionRisk: &report,
	}, true
}
