// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"strings"
	"sync"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
	"github.com/ochairo/extenscan/internal/domain/interfaces/gateways"
	"github.com/ochairo/extenscan/internal/domain/interfaces/services"
	domainservices "github.com/ochairo/extenscan/internal/domain/services"
)

// ScannerProvider resolves scanners for a set of sources
type ScannerProvider interface {
	ScannersFor(sources []entities.Source) ([]gateways.Scanner, error)
}

// ScanOptions controls one scan
type ScanOptions struct {
	// Sources limits the scan; empty means every source
	Sources              []entities.Source
	CheckVulnerabilities bool
	CheckOutdated        bool
	Parallel             bool
	Ignore               entities.IgnoreConfig
}

// ScanOrchestrator coordinates the complete scan workflow
// Following Clean Architecture: orchestrators coordinate services for complex use cases
type ScanOrchestrator struct {
	scanners        ScannerProvider
	securityService services.SecurityService
	logger          interfaces.Logger
}

// NewScanOrchestrator creates a new scan orchestrator
func NewScanOrchestrator(scanners ScannerProvider, securityService services.SecurityService, logger interfaces.Logger) *ScanOrchestrator {
	return &ScanOrchestrator{
		scanners:        scanners,
		securityService: securityService,
		logger:          interfaces.OrNoOp(logger),
	}
}

// Scan collects packages from the selected sources, then enriches them with
// vulnerability and staleness data. Collaborator failures degrade to missing
// data; only an invalid source selection is an error.
func (o *ScanOrchestrator) Scan(ctx context.Context, opts ScanOptions) (*entities.ScanResult, error) {
	scanners, err := o.scanners.ScannersFor(opts.Sources)
	if err != nil {
		return nil, err
	}

	packages := o.CollectPackages(ctx, scanners, opts.Parallel)
	ignore := domainservices.NewIgnoreRules(opts.Ignore)
	result := entities.NewScanResult(ignore.FilterPackages(packages))

	o.enrich(ctx, result, opts, ignore)
	return result, nil
}

// CollectPackages runs every supported scanner and concatenates their
// packages in scanner order. A failing scanner contributes nothing.
func (o *ScanOrchestrator) CollectPackages(ctx context.Context, scanners []gateways.Scanner, parallel bool) []entities.Package {
	perScanner := make([][]entities.Package, len(scanners))

	if parallel && len(scanners) > 1 {
		var wg sync.WaitGroup
		for i, scanner := range scanners {
			wg.Add(1)
			go func(i int, scanner gateways.Scanner) {
				defer wg.Done()
				perScanner[i] = o.runScanner(ctx, scanner)
			}(i, scanner)
		}
		wg.Wait()
	} else {
		for i, scanner := range scanners {
			if ctx.Err() != nil {
				break
			}
			perScanner[i] = o.runScanner(ctx, scanner)
		}
	}

	all := make([]entities.Package, 0)
	for _, packages := range perScanner {
		all = append(all, packages...)
	}
	return all
}

func (o *ScanOrchestrator) runScanner(ctx context.Context, scanner gateways.Scanner) []entities.Package {
	if !gateways.IsSupported(scanner) {
		o.logger.Debug("skipping unsupported scanner", interfaces.F("scanner", scanner.Name()))
		return nil
	}

	packages, err := scanner.Scan(ctx)
	if err != nil {
		o.logger.Warn("scanner failed",
			interfaces.F("scanner", scanner.Name()),
			interfaces.F("error", err.Error()))
		return nil
	}

	o.logger.Debug("scanner finished",
		interfaces.F("scanner", scanner.Name()),
		interfaces.F("packages", len(packages)))
	return packages
}

func (o *ScanOrchestrator) enrich(ctx context.Context, result *entities.ScanResult, opts ScanOptions, ignore *domainservices.IgnoreRules) {
	if len(result.Packages) == 0 {
		return
	}

	if opts.CheckVulnerabilities {
		vulns, err := o.securityService.FindVulnerabilities(ctx, result.Packages)
		if err != nil {
			o.logger.Warn("vulnerability check failed", interfaces.F("error", err.Error()))
		} else {
			result.Vulnerabilities = ignore.FilterVulnerabilities(vulns)
		}
	}

	if opts.CheckOutdated {
		result.Outdated = o.securityService.FindOutdated(ctx, ignore.OutdatedCandidates(result.Packages))
	}
}

// HealthScore scores a completed scan
func (o *ScanOrchestrator) HealthScore(result *entities.ScanResult) int {
	return o.securityService.CalculateHealthScore(result)
}

// ExitCode maps a scan's vulnerabilities to the --fail-on exit code
func (o *ScanOrchestrator) ExitCode(result *entities.ScanResult, failOn services.FailLevel) int {
	return o.securityService.ExitCodeFor(result.Vulnerabilities, failOn)
}

// PackageDetails is everything known about one installed package
type PackageDetails struct {
	Package         entities.Package
	Vulnerabilities []entities.Vulnerability
	// Update is nil when the package is current or its version is unknown
	Update *entities.OutdatedInfo
}

// FindPackages searches every supported scanner for packages whose id or
// name contains query, case-insensitively, and looks each one up
func (o *ScanOrchestrator) FindPackages(ctx context.Context, query string) ([]PackageDetails, error) {
	scanners, err := o.scanners.ScannersFor(nil)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	details := make([]PackageDetails, 0)
	for _, pkg := range o.CollectPackages(ctx, scanners, false) {
		if !strings.Contains(strings.ToLower(pkg.ID), needle) && !strings.Contains(strings.ToLower(pkg.Name), needle) {
			continue
		}

		entry := PackageDetails{Package: pkg}
		vulns, err := o.securityService.FindVulnerabilities(ctx, []entities.Package{pkg})
		if err != nil {
			o.logger.Debug("vulnerability check failed", interfaces.F("package", pkg.ID), interfaces.F("error", err.Error()))
		} else {
			entry.Vulnerabilities = vulns
		}

		if !pkg.HasUnknownVersion() {
			if outdated := o.securityService.FindOutdated(ctx, []entities.Package{pkg}); len(outdated) > 0 {
				entry.Update = &outdated[0]
			}
		}
		details = append(details, entry)
	}

	return details, nil
}
