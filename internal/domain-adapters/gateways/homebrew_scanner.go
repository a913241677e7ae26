package gateways

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
)

// HomebrewScanner lists installed Homebrew formulae and, on macOS, casks
type HomebrewScanner struct {
	runner CommandRunner
	paths  *PathResolver
	logger interfaces.Logger
}

// NewHomebrewScanner creates a new Homebrew scanner
func NewHomebrewScanner(runner CommandRunner, paths *PathResolver, logger interfaces.Logger) *HomebrewScanner {
	return &HomebrewScanner{runner: runner, paths: paths, logger: interfaces.OrNoOp(logger)}
}

// Name returns "Homebrew Packages"
func (s *HomebrewScanner) Name() string { return "Homebrew Packages" }

// Source returns entities.SourceHomebrew
func (s *HomebrewScanner) Source() entities.Source { return entities.SourceHomebrew }

// SupportedPlatforms returns Linux and macOS
func (s *HomebrewScanner) SupportedPlatforms() []entities.Platform {
	return []entities.Platform{entities.PlatformLinux, entities.PlatformMacOS}
}

type brewFormulaInfo struct {
	Name      string  `json:"name"`
	FullName  string  `json:"full_name"`
	Version   *string `json:"version"`
	Desc      string  `json:"desc"`
	Homepage  string  `json:"homepage"`
	License   string  `json:"license"`
	Installed []struct {
		Version string `json:"version"`
	} `json:"installed"`
}

type brewCaskInfo struct {
	Token    string   `json:"token"`
	Name     []string `json:"name"`
	Version  string   `json:"version"`
	Desc     string   `json:"desc"`
	Homepage string   `json:"homepage"`
}

// Scan collects formulae and casks. Either half failing only drops that half.
func (s *HomebrewScanner) Scan(ctx context.Context) ([]entities.Package, error) {
	packages := make([]entities.Package, 0)

	formulae, err := s.scanFormulae(ctx)
	if err != nil {
		s.logger.Warn("Homebrew formulae scan failed", interfaces.F("error", err.Error()))
	}
	packages = append(packages, formulae...)

	if s.paths.Platform == entities.PlatformMacOS {
		casks, err := s.scanCasks(ctx)
		if err != nil {
			s.logger.Warn("Homebrew cask scan failed", interfaces.F("error", err.Error()))
		}
		packages = append(packages, casks...)
	}

	return packages, nil
}

func (s *HomebrewScanner) scanFormulae(ctx context.Context) ([]entities.Package, error) {
	result, err := s.runner.Run(ctx, "brew", "info", "--json=v2", "--installed")
	if err != nil {
		return nil, fmt.Errorf("failed to execute brew. Is Homebrew installed?: %w", err)
	}
	if !result.Success() {
		return nil, nil
	}

	var info struct {
		Formulae []brewFormulaInfo `json:"formulae"`
	}
	if err := json.Unmarshal(result.Stdout, &info); err != nil {
		return nil, fmt.Errorf("failed to parse brew info output: %w", err)
	}

	packages := make([]entities.Package, 0, len(info.Formulae))
	for _, f := range info.Formulae {
		version := entities.UnknownVersion
		if len(f.Installed) > 0 && f.Installed[0].Version != "" {
			version = f.Installed[0].Version
		} else if f.Version != nil && *f.Version != "" {
			version = *f.Version
		}

		id := f.FullName
		if id == "" {
			id = f.Name
		}

		packages = append(packages, entities.Package{
			ID:      id,
			Name:    f.Name,
			Version: version,
			Source:  entities.SourceHomebrew,
			PackageMetadata: entities.PackageMetadata{
				Description: f.Desc,
				Homepage:    f.Homepage,
				License:     f.License,
			},
		})
	}
	return packages, nil
}

func (s *HomebrewScanner) scanCasks(ctx context.Context) ([]entities.Package, error) {
	result, err := s.runner.Run(ctx, "brew", "info", "--json=v2", "--cask", "--installed")
	if err != nil {
		return nil, fmt.Errorf("failed to execute brew cask info: %w", err)
	}
	if !result.Success() {
		return nil, nil
	}

	var info struct {
		Casks []brewCaskInfo `json:"casks"`
	}
	if err := json.Unmarshal(result.Stdout, &info); err != nil {
		return nil, fmt.Errorf("failed to parse brew cask info output: %w", err)
	}

	packages := make([]entities.Package, 0, len(info.Casks))
	for _, c := range info.Casks {
		name := c.Token
		if len(c.Name) > 0 {
			name = c.Name[0]
		}
		version := c.Version
		if version == "" {
			version = entities.UnknownVersion
		}

		packages = append(packages, entities.Package{
			ID:      c.Token,
			Name:    name,
			Version: version,
			Source:  entities.SourceHomebrew,
			PackageMetadata: entities.PackageMetadata{
				Description: c.Desc,
				Homepage:    c.Homepage,
			},
		})
	}
	return packages, nil
}
