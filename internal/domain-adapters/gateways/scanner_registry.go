package gateways

import (
	"fmt"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
	"github.com/ochairo/extenscan/internal/domain/interfaces/gateways"
)

// ScannerRegistry builds scanners that share a command runner and path resolver
type ScannerRegistry struct {
	runner CommandRunner
	paths  *PathResolver
	logger interfaces.Logger
}

// NewScannerRegistry creates a registry; tests pass a fake runner and a resolver rooted in a temp dir
func NewScannerRegistry(runner CommandRunner, paths *PathResolver, logger interfaces.Logger) *ScannerRegistry {
	return &ScannerRegistry{runner: runner, paths: paths, logger: interfaces.OrNoOp(logger)}
}

// Paths returns the resolver the scanners read from
func (r *ScannerRegistry) Paths() *PathResolver {
	return r.paths
}

// ScannerFor returns the scanner for source
func (r *ScannerRegistry) ScannerFor(source entities.Source) (gateways.Scanner, error) {
	logger := r.logger.With(interfaces.F("source", string(source)))

	switch source {
	case entities.SourceVSCode:
		return NewVSCodeScanner(r.paths, logger), nil
	case entities.SourceFirefox:
		return NewFirefoxScanner(r.paths, logger), nil
	case entities.SourceNpm:
		return NewNpmScanner(r.runner, r.paths, logger), nil
	case entities.SourceHomebrew:
		return NewHomebrewScanner(r.runner, r.paths, logger), nil
	case entities.SourceChrome, entities.SourceEdge, entities.SourceBrave, entities.SourceArc,
		entities.SourceOpera, entities.SourceVivaldi, entities.SourceChromium:
		return NewChromiumScanner(source, r.paths, logger), nil
	default:
		return nil, fmt.Errorf("no scanner for source: %s", source)
	}
}

// AllScanners returns one scanner per source in scan order
func (r *ScannerRegistry) AllScanners() []gateways.Scanner {
	scanners := make([]gateways.Scanner, 0, len(entities.AllSources()))
	for _, source := range entities.AllSources() {
		if s, err := r.ScannerFor(source); err == nil {
			scanners = append(scanners, s)
		}
	}
	return scanners
}

// ScannersFor returns scanners for the given sources, or all of them when sources is empty
func (r *ScannerRegistry) ScannersFor(sources []entities.Source) ([]gateways.Scanner, error) {
	if len(sources) == 0 {
		return r.AllScanners(), nil
	}

	scanners := make([]gateways.Scanner, 0, len(sources))
	for _, source := range sources {
		s, err := r.ScannerFor(source)
		if err != nil {
			return nil, err
		}
		scanners = append(scanners, s)
	}
	return scanners, nil
}
