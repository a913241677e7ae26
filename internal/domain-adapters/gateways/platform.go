package gateways

import (
	"os"
	"path/filepath"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// PathResolver computes per-platform install locations for each source.
// All roots are injectable so scanners can be pointed at test fixtures.
type PathResolver struct {
	Platform     entities.Platform
	Home         string
	ConfigDir    string // XDG config dir on Linux
	LocalAppData string // %LOCALAPPDATA% on Windows
	RoamingData  string // %APPDATA% on Windows
}

// NewPathResolver creates a resolver for the current user and platform
func NewPathResolver() *PathResolver {
	home, _ := os.UserHomeDir()

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = filepath.Join(home, ".config")
	}

	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		localAppData = filepath.Join(home, "AppData", "Local")
	}

	roaming := os.Getenv("APPDATA")
	if roaming == "" {
		roaming = filepath.Join(home, "AppData", "Roaming")
	}

	return &PathResolver{
		Platform:     entities.CurrentPlatform(),
		Home:         home,
		ConfigDir:    configDir,
		LocalAppData: localAppData,
		RoamingData:  roaming,
	}
}

// NewPathResolverAt roots every location under home, as a fresh account would have it
func NewPathResolverAt(platform entities.Platform, home string) *PathResolver {
	return &PathResolver{
		Platform:     platform,
		Home:         home,
		ConfigDir:    filepath.Join(home, ".config"),
		LocalAppData: filepath.Join(home, "AppData", "Local"),
		RoamingData:  filepath.Join(home, "AppData", "Roaming"),
	}
}

// chromiumLayout describes where a Chromium-family browser keeps its Default profile
type chromiumLayout struct {
	linux   []string // under ConfigDir
	macos   []string // under ~/Library/Application Support
	windows []string // under LocalAppData, or RoamingData when windowsRoaming
	// windowsRoaming marks browsers that keep their profile in %APPDATA%
	windowsRoaming bool
}

var chromiumLayouts = map[entities.Source]chromiumLayout{
	entities.SourceChrome: {
		linux:   []string{"google-chrome", "Default", "Extensions"},
		macos:   []string{"Google", "Chrome", "Default", "Extensions"},
		windows: []string{"Google", "Chrome", "User Data", "Default", "Extensions"},
	},
	entities.SourceEdge: {
		linux:   []string{"microsoft-edge", "Default", "Extensions"},
		macos:   []string{"Microsoft Edge", "Default", "Extensions"},
		windows: []string{"Microsoft", "Edge", "User Data", "Default", "Extensions"},
	},
	entities.SourceBrave: {
		linux:   []string{"BraveSoftware", "Brave-Browser", "Default", "Extensions"},
		macos:   []string{"BraveSoftware", "Brave-Browser", "Default", "Extensions"},
		windows: []string{"BraveSoftware", "Brave-Browser", "User Data", "Default", "Extensions"},
	},
	entities.SourceArc: {
		macos: []string{"Arc", "User Data", "Default", "Extensions"},
	},
	entities.SourceOpera: {
		linux:          []string{"opera", "Extensions"},
		macos:          []string{"com.operasoftware.Opera", "Extensions"},
		windows:        []string{"Opera Software", "Opera Stable", "Extensions"},
		windowsRoaming: true,
	},
	entities.SourceVivaldi: {
		linux:   []string{"vivaldi", "Default", "Extensions"},
		macos:   []string{"Vivaldi", "Default", "Extensions"},
		windows: []string{"Vivaldi", "User Data", "Default", "Extensions"},
	},
	entities.SourceChromium: {
		linux:   []string{"chromium", "Default", "Extensions"},
		macos:   []string{"Chromium", "Default", "Extensions"},
		windows: []string{"Chromium", "User Data", "Default", "Extensions"},
	},
}

// VSCodeExtensionsDir returns ~/.vscode/extensions on every platform
func (p *PathResolver) VSCodeExtensionsDir() string {
	return filepath.Join(p.Home, ".vscode", "extensions")
}

// ChromiumExtensionsDir returns the Default profile's Extensions directory,
// or "" when the browser does not exist on this platform
func (p *PathResolver) ChromiumExtensionsDir(source entities.Source) string {
	layout, ok := chromiumLayouts[source]
	if !ok {
		return ""
	}

	var base string
	var parts []string
	switch p.Platform {
	case entities.PlatformMacOS:
		base, parts = p.applicationSupport(), layout.macos
	case entities.PlatformWindows:
		base, parts = p.LocalAppData, layout.windows
		if layout.windowsRoaming {
			base = p.RoamingData
		}
	default:
		base, parts = p.ConfigDir, layout.linux
	}

	if len(parts) == 0 {
		return ""
	}
	return filepath.Join(append([]string{base}, parts...)...)
}

// FirefoxProfilesDir returns the directory holding Firefox profiles
func (p *PathResolver) FirefoxProfilesDir() string {
	switch p.Platform {
	case entities.PlatformMacOS:
		return filepath.Join(p.applicationSupport(), "Firefox", "Profiles")
	case entities.PlatformWindows:
		return filepath.Join(p.RoamingData, "Mozilla", "Firefox", "Profiles")
	default:
		return filepath.Join(p.Home, ".mozilla", "firefox")
	}
}

// Location describes where a source's packages are read from, for display
func (p *PathResolver) Location(source entities.Source) string {
	switch source {
	case entities.SourceVSCode:
		return p.VSCodeExtensionsDir()
	case entities.SourceFirefox:
		return p.FirefoxProfilesDir()
	case entities.SourceNpm:
		return "npm list -g"
	case entities.SourceHomebrew:
		return "brew info --installed"
	default:
		if dir := p.ChromiumExtensionsDir(source); dir != "" {
			return dir
		}
		return "Browser profile directory"
	}
}

func (p *PathResolver) applicationSupport() string {
	return filepath.Join(p.Home, "Library", "Application Support")
}

// dirExists reports whether path is an existing directory
func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
