// Package entities defines core domain models and data structures.
package entities

import (
	"fmt"
	"runtime"
	"strings"
)

// Source identifies where a package was discovered
type Source string

// Supported sources, in scan order
const (
	SourceVSCode   Source = "vscode"
	SourceChrome   Source = "chrome"
	SourceEdge     Source = "edge"
	SourceFirefox  Source = "firefox"
	SourceBrave    Source = "brave"
	SourceArc      Source = "arc"
	SourceOpera    Source = "opera"
	SourceVivaldi  Source = "vivaldi"
	SourceChromium Source = "chromium"
	SourceNpm      Source = "npm"
	SourceHomebrew Source = "homebrew"
)

// AllSources returns every known source in scan order
func AllSources() []Source {
	return []Source{
		SourceVSCode, SourceChrome, SourceEdge, SourceFirefox, SourceBrave, SourceArc,
		SourceOpera, SourceVivaldi, SourceChromium, SourceNpm, SourceHomebrew,
	}
}

// DisplayName returns the human-readable source name
func (s Source) DisplayName() string {
	switch s {
	case SourceVSCode:
		return "VSCode"
	case SourceChrome:
		return "Chrome"
	case SourceEdge:
		return "Edge"
	case SourceFirefox:
		return "Firefox"
	case SourceBrave:
		return "Brave"
	case SourceArc:
		return "Arc"
	case SourceOpera:
		return "Opera"
	case SourceVivaldi:
		return "Vivaldi"
	case SourceChromium:
		return "Chromium"
	case SourceNpm:
		return "NPM"
	case SourceHomebrew:
		return "Homebrew"
	default:
		return string(s)
	}
}

// IsBrowserExtension reports whether packages from this source are browser or editor extensions
func (s Source) IsBrowserExtension() bool {
	return s != SourceNpm && s != SourceHomebrew
}

// ParseSource converts a user-supplied name into a Source
func ParseSource(name string) (Source, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "brew" {
		return SourceHomebrew, nil
	}
	for _, s := range AllSources() {
		if string(s) == lower {
			return s, nil
		}
	}

	names := make([]string, 0, len(AllSources()))
	for _, s := range AllSources() {
		names = append(names, string(s))
	}
	return "", fmt.Errorf("unknown source: %s. Use: %s", name, strings.Join(names, ", "))
}

// Platform is an operating system family
type Platform string

// Supported platforms
const (
	PlatformLinux   Platform = "linux"
	PlatformMacOS   Platform = "macos"
	PlatformWindows Platform = "windows"
)

// CurrentPlatform returns the platform the binary is running on
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "darwin":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	default:
		return PlatformLinux
	}
}

// PackageMetadata holds optional descriptive fields for a package
type PackageMetadata struct {
	Description string `json:"description,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	Homepage    string `json:"homepage,omitempty"`
	Repository  string `json:"repository,omitempty"`
	License     string `json:"license,omitempty"`
}

// Package is an installed extension or package found by a scanner
type Package struct {
	// ID is unique within the source: publisher.name for VSCode, the
	// extension hash for Chromium browsers, the package name for npm.
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Source      Source `json:"source"`
	InstallPath string `json:"install_path,omitempty"`
	PackageMetadata
	ExtensionRisk *ExtensionRiskReport `json:"extension_risk,omitempty"`
}

// HasUnknownVersion reports whether the scanner could not determine the installed version
func (p Package) HasUnknownVersion() bool {
	return p.Version == UnknownVersion
}

// UnknownVersion marks a package whose installed version could not be read
const UnknownVersion = "unknown"
