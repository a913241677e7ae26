// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// ConfigRepository loads and stores the user configuration
type ConfigRepository interface {
	// Load returns the stored configuration, or defaults when none exists
	Load(ctx context.Context) (*entities.Config, error)

	// Save writes the configuration, creating parent directories as needed
	Save(ctx context.Context, config *entities.Config) error

	// Exists reports whether a configuration file is present
	Exists() bool

	// Path returns the location of the configuration file
	Path() string

	// DefaultContent renders the default configuration
	DefaultContent() (string, error)
}
