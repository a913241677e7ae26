package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
)

// NpmScanner lists globally installed npm packages
type NpmScanner struct {
	runner CommandRunner
	paths  *PathResolver
	logger interfaces.Logger
}

// NewNpmScanner creates a new npm global package scanner
func NewNpmScanner(runner CommandRunner, paths *PathResolver, logger interfaces.Logger) *NpmScanner {
	return &NpmScanner{runner: runner, paths: paths, logger: interfaces.OrNoOp(logger)}
}

// Name returns "NPM Global Packages"
func (s *NpmScanner) Name() string { return "NPM Global Packages" }

// Source returns entities.SourceNpm
func (s *NpmScanner) Source() entities.Source { return entities.SourceNpm }

// SupportedPlatforms returns every platform
func (s *NpmScanner) SupportedPlatforms() []entities.Platform { return allPlatforms }

func (s *NpmScanner) npmCommand() string {
	if s.paths.Platform == entities.PlatformWindows {
		return "npm.cmd"
	}
	return "npm"
}

// npmListOutput is the shape of `npm list -g --json --depth=0`
type npmListOutput struct {
	Dependencies map[string]struct {
		Version  string `json:"version"`
		Resolved string `json:"resolved"`
	} `json:"dependencies"`
}

// npmPackageJSON is the subset of an installed package.json we read
type npmPackageJSON struct {
	Description string          `json:"description"`
	Author      json.RawMessage `json:"author"`
	License     string          `json:"license"`
	Repository  json.RawMessage `json:"repository"`
	Homepage    string          `json:"homepage"`
}

// Scan runs npm and reads each package's package.json for metadata
func (s *NpmScanner) Scan(ctx context.Context) ([]entities.Package, error) {
	npm := s.npmCommand()
	prefix := s.globalPrefix(ctx, npm)

	result, err := s.runner.Run(ctx, npm, "list", "-g", "--json", "--depth=0")
	if err != nil {
		return nil, fmt.Errorf("failed to execute npm. Is npm installed?: %w", err)
	}
	// npm exits non-zero on peer-dependency problems but still prints the tree
	if !result.Success() && len(result.Stdout) == 0 {
		return []entities.Package{}, nil
	}

	var list npmListOutput
	if err := json.Unmarshal(result.Stdout, &list); err != nil {
		return nil, fmt.Errorf("failed to parse npm list output: %w", err)
	}

	names := make([]string, 0, len(list.Dependencies))
	for name := range list.Dependencies {
		if name != "npm" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	packages := make([]entities.Package, 0, len(names))
	for _, name := range names {
		dep := list.Dependencies[name]

		version := dep.Version
		if version == "" {
			version = entities.UnknownVersion
		}

		pkg := entities.Package{
			ID:      name,
			Name:    name,
			Version: version,
			Source:  entities.SourceNpm,
			PackageMetadata: entities.PackageMetadata{
				Homepage:   "https://www.npmjs.com/package/" + name,
				Repository: dep.Resolved,
			},
		}

		if prefix != "" {
			pkg.InstallPath = filepath.Join(prefix, "lib", "node_modules", name)
			if manifest, ok := readNpmPackageJSON(pkg.InstallPath); ok {
				pkg.Description = manifest.Description
				pkg.Publisher = authorString(manifest.Author)
				pkg.License = manifest.License
				if manifest.Homepage != "" {
					pkg.Homepage = manifest.Homepage
				}
				if repo := repositoryURL(manifest.Repository); repo != "" {
					pkg.Repository = repo
				}
			}
		}

		packages = append(packages, pkg)
	}

	return packages, nil
}

// globalPrefix returns `npm config get prefix`, or "" when unavailable
func (s *NpmScanner) globalPrefix(ctx context.Context, npm string) string {
	result, err := s.runner.Run(ctx, npm, "config", "get", "prefix")
	if err != nil || !result.Success() {
		s.logger.Debug("npm prefix unavailable")
		return ""
	}
	return strings.TrimSpace(string(result.Stdout))
}

func readNpmPackageJSON(installPath string) (*npmPackageJSON, bool) {
	//nolint:gosec // G304: path is built from the npm prefix
	data, err := os.ReadFile(filepath.Join(installPath, "package.json"))
	if err != nil {
		return nil, false
	}
	var manifest npmPackageJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, false
	}
	return &manifest, true
}
