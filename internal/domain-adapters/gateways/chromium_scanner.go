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

const (
	defaultExtensionVersion = "0.0.0"
	localizedPrefix         = "__MSG_"
)

var allPlatforms = []entities.Platform{entities.PlatformLinux, entities.PlatformMacOS, entities.PlatformWindows}

// ChromiumScanner reads extensions from a Chromium-family browser profile
type ChromiumScanner struct {
	source    entities.Source
	platforms []entities.Platform
	paths     *PathResolver
	logger    interfaces.Logger
}

// NewChromiumScanner creates a scanner for one Chromium-family browser
func NewChromiumScanner(source entities.Source, paths *PathResolver, logger interfaces.Logger) *ChromiumScanner {
	platforms := allPlatforms
	if source == entities.SourceArc {
		platforms = []entities.Platform{entities.PlatformMacOS}
	}
	return &ChromiumScanner{
		source:    source,
		platforms: platforms,
		paths:     paths,
		logger:    interfaces.OrNoOp(logger),
	}
}

// Name returns e.g. "Chrome Extensions"
func (s *ChromiumScanner) Name() string {
	return s.source.DisplayName() + " Extensions"
}

// Source returns the browser this scanner reads
func (s *ChromiumScanner) Source() entities.Source {
	return s.source
}

// SupportedPlatforms lists where the browser exists
func (s *ChromiumScanner) SupportedPlatforms() []entities.Platform {
	return s.platforms
}

// Scan lists installed extensions. A missing profile yields no packages.
func (s *ChromiumScanner) Scan(ctx context.Context) ([]entities.Package, error) {
	dir := s.paths.ChromiumExtensionsDir(s.source)
	if !dirExists(dir) {
		return []entities.Package{}, nil
	}
	return scanChromiumExtensions(ctx, dir, s.source, s.logger)
}

// chromiumManifest is the subset of manifest.json we read
type chromiumManifest struct {
	Name                  string          `json:"name"`
	Version               string          `json:"version"`
	Description           string          `json:"description"`
	Author                json.RawMessage `json:"author"`
	HomepageURL           string          `json:"homepage_url"`
	Permissions           json.RawMessage `json:"permissions"`
	OptionalPermissions   json.RawMessage `json:"optional_permissions"`
	HostPermissions       json.RawMessage `json:"host_permissions"`
	ContentSecurityPolicy json.RawMessage `json:"content_security_policy"`
}

// scanChromiumExtensions walks <dir>/<id>/<version>/manifest.json, taking the
// highest version directory by name for each extension id
func scanChromiumExtensions(ctx context.Context, dir string, source entities.Source, logger interfaces.Logger) ([]entities.Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read extensions directory %s: %w", dir, err)
	}

	packages := make([]entities.Package, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return packages, err
		}
		if !entry.IsDir() {
			continue
		}

		extensionID := entry.Name()
		versionPath, ok := latestVersionDir(filepath.Join(dir, extensionID))
		if !ok {
			continue
		}

		manifest, err := readChromiumManifest(filepath.Join(versionPath, "manifest.json"))
		if err != nil {
			logger.Debug("skipping extension", interfaces.F("id", extensionID), interfaces.F("error", err.Error()))
			continue
		}

		packages = append(packages, manifest.toPackage(extensionID, versionPath, source))
	}

	return packages, nil
}

// latestVersionDir returns the lexically greatest subdirectory of extPath
func latestVersionDir(extPath string) (string, bool) {
	entries, err := os.ReadDir(extPath)
	if err != nil {
		return "", false
	}

	latest := ""
	for _, e := range entries {
		if e.IsDir() && e.Name() > latest {
			latest = e.Name()
		}
	}
	if latest == "" {
		return "", false
	}
	return filepath.Join(extPath, latest), true
}

func readChromiumManifest(path string) (*chromiumManifest, error) {
	//nolint:gosec // G304: path is built from the browser profile directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest chromiumManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &manifest, nil
}

func (m *chromiumManifest) toPackage(extensionID, versionPath string, source entities.Source) entities.Package {
	name := m.Name
	if name == "" {
		name = extensionID
	}
	if strings.HasPrefix(name, localizedPrefix) {
		if localized, ok := localizedMessage(versionPath, name); ok {
			name = localized
		} else {
			name = extensionID
		}
	}

	version := m.Version
	if version == "" {
		version = defaultExtensionVersion
	}

	description := m.Description
	if strings.HasPrefix(description, localizedPrefix) {
		description = ""
	}

	api, hosts := services.PartitionPermissions(stringList(m.Permissions))
	// Optional host patterns are not granted at install and do not widen the scope
	optional, _ := services.PartitionPermissions(stringList(m.OptionalPermissions))
	hosts = append(hosts, stringList(m.HostPermissions)...)
	report := services.AnalyzeExtension(api, optional, hosts, m.csp())

	return entities.Package{
		ID:          extensionID,
		Name:        name,
		Version:     version,
		Source:      source,
		InstallPath: versionPath,
		PackageMetadata: entities.PackageMetadata{
			Description: description,
			Publisher:   authorString(m.Author),
			Homepage:    m.HomepageURL,
		},
		ExtensionRisk: &report,
	}
}

// csp returns the extension-page policy from either the MV2 string form or
// the MV3 object form
func (m *chromiumManifest) csp() *string {
	if len(m.ContentSecurityPolicy) == 0 {
		return nil
	}

	var policy string
	if err := json.Unmarshal(m.ContentSecurityPolicy, &policy); err == nil {
		return &policy
	}

	var mv3 struct {
		ExtensionPages *string `json:"extension_pages"`
	}
	if err := json.Unmarshal(m.ContentSecurityPolicy, &mv3); err == nil {
		return mv3.ExtensionPages
	}
	return nil
}

// localizedMessage resolves a __MSG_key__ placeholder from the English locales
func localizedMessage(versionPath, placeholder string) (string, bool) {
	key := strings.TrimSuffix(strings.TrimPrefix(placeholder, localizedPrefix), "__")

	for _, locale := range []string{"en", "en_US", "en_GB"} {
		//nolint:gosec // G304: path is built from the browser profile directory
		data, err := os.ReadFile(filepath.Join(versionPath, "_locales", locale, "messages.json"))
		if err != nil {
			continue
		}

		var messages map[string]struct {
			Message *string `json:"message"`
		}
		if err := json.Unmarshal(data, &messages); err != nil {
			continue
		}

		msg, ok := messages[key]
		if !ok {
			msg, ok = messages[strings.ToLower(key)]
		}
		if ok && msg.Message != nil {
			return *msg.Message, true
		}
	}

	return "", false
}

// stringList decodes a JSON array, keeping only its string elements
func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// authorString accepts "name", {"name": ..., "email": ...} or nothing
func authorString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}

	switch {
	case obj.Name != "" && obj.Email != "":
		return fmt.Sprintf("%s <%s>", obj.Name, obj.Email)
	case obj.Name != "":
		return obj.Name
	default:
		return obj.Email
	}
}
