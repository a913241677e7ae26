package yaml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// ConfigEnvVar overrides the config file location
const ConfigEnvVar = "EXTENSCAN_CONFIG"

// ConfigRepository implements repositories.ConfigRepository using a YAML file
type ConfigRepository struct {
	path   string
	parser *ConfigParser
}

// NewConfigRepository creates a repository for the file at path
func NewConfigRepository(path string) *ConfigRepository {
	return &ConfigRepository{
		path:   path,
		parser: NewConfigParser(),
	}
}

// DefaultConfigPath resolves the config location: an explicit path wins,
// then $EXTENSCAN_CONFIG, then <user config dir>/extenscan/config.yaml
func DefaultConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "extenscan", "config.yaml"), nil
}

// Load reads the config file, returning defaults when it does not exist
func (r *ConfigRepository) Load(_ context.Context) (*entities.Config, error) {
	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		return entities.DefaultConfig(), nil
	}
	return r.parser.ParseFile(r.path)
}

// Save writes config to disk, creating parent directories
func (r *ConfigRepository) Save(_ context.Context, config *entities.Config) error {
	data, err := r.parser.Marshal(config)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Exists reports whether the config file is present
func (r *ConfigRepository) Exists() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// Path returns the config file location
func (r *ConfigRepository) Path() string {
	return r.path
}

// DefaultContent renders the default configuration as YAML
func (r *ConfigRepository) DefaultContent() (string, error) {
	data, err := r.parser.Marshal(entities.DefaultConfig())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
