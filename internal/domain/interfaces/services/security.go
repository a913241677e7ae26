// Package services defines interfaces for domain service contracts.
package services

import (
	"context"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// SecurityService enriches scanned packages with vulnerability and staleness data
type SecurityService interface {
	// High-level security operations
	FindVulnerabilities(ctx context.Context, packages []entities.Package) ([]entities.Vulnerability, error)
	FindOutdated(ctx context.Context, packages []entities.Package) []entities.OutdatedInfo

	// Business logic
	CalculateHealthScore(result *entities.ScanResult) int
	ExitCodeFor(vulnerabilities []entities.Vulnerability, failOn FailLevel) int
}

// FailLevel is the --fail-on threshold
type FailLevel string

// Fail-on thresholds
const (
	FailNone     FailLevel = ""
	FailCritical FailLevel = "critical"
	FailHigh     FailLevel = "high"
	FailMedium   FailLevel = "medium"
	FailLow      FailLevel = "low"
)

// Process exit codes
const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitCriticalVuln = 2
	ExitHighVuln     = 3
	ExitMediumVuln   = 4
	ExitLowVuln      = 5
)
