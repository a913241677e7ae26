package services

import (
	"fmt"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

type permissionInfo struct {
	description string
	warning     string
}

var criticalPermissions = map[string]permissionInfo{
	"debugger":               {"Access browser debugger", "Can read and modify all data on all websites"},
	"proxy":                  {"Control browser proxy settings", "Can intercept all network traffic"},
	"vpnProvider":            {"VPN provider access", "Can route all network traffic"},
	"webAuthenticationProxy": {"Web authentication proxy", "Can intercept authentication flows"},
}

var highPermissions = map[string]permissionInfo{
	"tabs":                                {"Read browser tabs", "Can see URLs and titles of all open tabs"},
	"webNavigation":                       {"Monitor navigation", "Can read your browsing history"},
	"history":                             {"Access browsing history", "Can read and modify browsing history"},
	"bookmarks":                           {"Access bookmarks", "Can read and modify your bookmarks"},
	"topSites":                            {"Access top sites", "Can see your most visited websites"},
	"sessions":                            {"Access session data", "Can access recently closed tabs and windows"},
	"cookies":                             {"Access cookies", "Can read and modify cookies for any website"},
	"webRequest":                          {"Intercept web requests", "Can observe and analyze traffic"},
	"webRequestBlocking":                  {"Block web requests", "Can block or modify network requests"},
	"declarativeNetRequest":               {"Modify network requests", "Can redirect or modify requests"},
	"declarativeNetRequestWithHostAccess": {"Modify requests with host access", "Can modify requests to allowed hosts"},
	"pageCapture":                         {"Capture pages", "Can capture full page content as MHTML"},
	"tabCapture":                          {"Capture tabs", "Can capture video/audio from tabs"},
	"desktopCapture":                      {"Capture screen", "Can capture your entire screen"},
	"nativeMessaging":                     {"Native messaging", "Can communicate with programs on your computer"},
	"management":                          {"Manage extensions", "Can manage other installed extensions"},
	"privacy":                             {"Change privacy settings", "Can modify browser privacy settings"},
	"browsingData":                        {"Clear browsing data", "Can delete browsing history and data"},
	"contentSettings":                     {"Modify content settings", "Can change website permissions"},
	"downloads":                           {"Access downloads", "Can manage downloaded files"},
	"downloads.open":                      {"Open downloads", "Can open downloaded files"},
	"clipboardRead":                       {"Read clipboard", "Can read data you copy"},
}

var mediumPermissions = map[string]permissionInfo{
	"activeTab":              {"Access active tab", "Can access current tab when you click the extension"},
	"scripting":              {"Inject scripts", "Can inject JavaScript into web pages"},
	"geolocation":            {"Access location", "Can detect your physical location"},
	"notifications":          {"Show notifications", "Can display desktop notifications"},
	"clipboardWrite":         {"Write clipboard", "Can modify your clipboard"},
	"identity":               {"Access identity", "Can access your browser identity"},
	"identity.email":         {"Access email", "Can see your email address"},
	"tts":                    {"Text to speech", "Can use text-to-speech"},
	"ttsEngine":              {"TTS engine", "Can provide text-to-speech engine"},
	"webRequestAuthProvider": {"Auth provider", "Can provide authentication"},
	"userScripts":            {"User scripts", "Can execute user scripts"},
	"offscreen":              {"Offscreen documents", "Can create offscreen documents"},
}

var lowPermissions = map[string]permissionInfo{
	"storage":          {"Store data", "Can store extension data locally"},
	"unlimitedStorage": {"Unlimited storage", "Can store large amounts of data"},
	"alarms":           {"Set alarms", "Can schedule periodic tasks"},
	"contextMenus":     {"Context menus", "Can add items to right-click menu"},
	"idle":             {"Detect idle", "Can detect when you're idle"},
	"power":            {"Power management", "Can affect power saving"},
	"system.cpu":       {"CPU info", "Can read CPU information"},
	"system.memory":    {"Memory info", "Can read memory usage"},
	"system.display":   {"Display info", "Can read display information"},
	"system.storage":   {"Storage info", "Can read storage information"},
	"fontSettings":     {"Font settings", "Can modify font settings"},
	"runtime":          {"Runtime API", "Basic extension runtime access"},
	"gcm":              {"Cloud messaging", "Can receive push messages"},
	"sidePanel":        {"Side panel", "Can show side panel"},
	"favicon":          {"Favicon access", "Can access website favicons"},
	"readingList":      {"Reading list", "Can access reading list"},
	"tabGroups":        {"Tab groups", "Can organize tabs into groups"},
}

// permissionTables is consulted in order; the first match wins
var permissionTables = []struct {
	level entities.RiskLevel
	table map[string]permissionInfo
}{
	{entities.RiskCritical, criticalPermissions},
	{entities.RiskHigh, highPermissions},
	{entities.RiskMedium, mediumPermissions},
	{entities.RiskLow, lowPermissions},
}

// LookupPermission returns the risk entry for a browser extension permission.
// Unrecognized permissions are graded low.
func LookupPermission(name string) entities.PermissionRisk {
	for _, t := range permissionTables {
		if info, ok := t.table[name]; ok {
			warning := info.warning
			return entities.PermissionRisk{
				Name:        name,
				Level:       t.level,
				Description: info.description,
				Warning:     &warning,
			}
		}
	}

	return entities.PermissionRisk{
		Name:        name,
		Level:       entities.RiskLow,
		Description: fmt.Sprintf("Unknown permission: %s", name),
	}
}
