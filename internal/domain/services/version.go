package services

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// Update classifications returned by ClassifyUpdate
const (
	UpdateMajor = "MAJOR"
	UpdateMinor = "minor"
	UpdatePatch = "patch"
)

// IsNewer reports whether latest should be offered as an update over current.
// Strict semver ordering applies when both strings parse. Otherwise any
// textual difference counts as newer, except that an unknown installed
// version never produces an update.
func IsNewer(latest, current string) bool {
	latestVer, errLatest := semver.StrictNewVersion(stripVersionPrefix(latest))
	currentVer, errCurrent := semver.StrictNewVersion(stripVersionPrefix(current))
	if errLatest == nil && errCurrent == nil {
		return latestVer.GreaterThan(currentVer)
	}

	if current == entities.UnknownVersion {
		return false
	}
	return latest != current
}

// IsMajorUpdate reports whether latest bumps the leading numeric component of current
func IsMajorUpdate(current, latest string) bool {
	currentMajor, okCurrent := versionSegment(current, 0)
	latestMajor, okLatest := versionSegment(latest, 0)
	return okCurrent && okLatest && latestMajor > currentMajor
}

// ClassifyUpdate labels an outdated version pair as MAJOR, minor or patch
func ClassifyUpdate(current, latest string) string {
	if IsMajorUpdate(current, latest) {
		return UpdateMajor
	}

	currentParts := splitVersion(current)
	latestParts := splitVersion(latest)
	if len(currentParts) >= 2 && len(latestParts) >= 2 {
		currentMinor, okCurrent := parseSegment(currentParts[1])
		latestMinor, okLatest := parseSegment(latestParts[1])
		if okCurrent && okLatest && sameMajor(currentParts[0], latestParts[0]) && latestMinor > currentMinor {
			return UpdateMinor
		}
	}

	return UpdatePatch
}

// stripVersionPrefix removes a single leading v or V
func stripVersionPrefix(v string) string {
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		return v[1:]
	}
	return v
}

func splitVersion(v string) []string {
	return strings.Split(strings.TrimLeft(v, "v"), ".")
}

func versionSegment(v string, idx int) (uint64, bool) {
	parts := splitVersion(v)
	if idx >= len(parts) {
		return 0, false
	}
	return parseSegment(parts[idx])
}

func parseSegment(s string) (uint64, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}

// sameMajor compares majors as optional values: two unparsable majors are equal
func sameMajor(a, b string) bool {
	ma, okA := parseSegment(a)
	mb, okB := parseSegment(b)
	if okA != okB {
		return false
	}
	return !okA || ma == mb
}
