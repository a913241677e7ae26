// Package gateways defines contracts for collaborators that reach outside the process.
package gateways

import (
	"context"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// Scanner discovers installed packages from one source
type Scanner interface {
	// Name returns a human-readable scanner name, e.g. "Chrome Extensions"
	Name() string

	// Source returns the source this scanner handles
	Source() entities.Source

	// SupportedPlatforms lists the platforms the scanner can run on
	SupportedPlatforms() []entities.Platform

	// Scan returns the installed packages. A missing install location is not an error.
	Scan(ctx context.Context) ([]entities.Package, error)
}

// IsSupported reports whether s can run on the current platform
func IsSupported(s Scanner) bool {
	current := entities.CurrentPlatform()
	for _, p := range s.SupportedPlatforms() {
		if p == current {
			return true
		}
	}
	return false
}
