package services

import "github.com/ochairo/extenscan/internal/domain/entities"

// Health indicator bands
const (
	HealthExcellent = "Excellent"
	HealthGood      = "Good"
	HealthFair      = "Fair"
	HealthPoor      = "Poor"
	HealthCritical  = "Critical"
)

// vulnerabilityPenalty is the health deduction per vulnerability severity
var vulnerabilityPenalty = map[entities.Severity]int{
	entities.SeverityCritical: 25,
	entities.SeverityHigh:     15,
	entities.SeverityMedium:   8,
	entities.SeverityLow:      3,
	entities.SeverityUnknown:  5,
}

// CalculateHealthScore reduces a scan to a 0-100 score.
// A scan with no packages scores 100.
func CalculateHealthScore(vulns []entities.Vulnerability, outdated []entities.OutdatedInfo, packageCount int) int {
	if packageCount == 0 {
		return 100
	}

	score := 100
	for _, v := range vulns {
		penalty, ok := vulnerabilityPenalty[v.Severity]
		if !ok {
			penalty = vulnerabilityPenalty[entities.SeverityUnknown]
		}
		score -= penalty
	}

	for _, o := range outdated {
		if IsMajorUpdate(o.CurrentVersion, o.LatestVersion) {
			score -= 5
		} else {
			score -= 2
		}
	}

	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// HealthIndicator names the band a health score falls into
func HealthIndicator(score int) string {
	switch {
	case score >= 90:
		return HealthExcellent
	case score >= 70:
		return HealthGood
	case score >= 50:
		return HealthFair
	case score >= 25:
		return HealthPoor
	default:
		return HealthCritical
	}
}

// CountMajorUpdates counts outdated records that bump the major version
func CountMajorUpdates(outdated []entities.OutdatedInfo) int {
	n := 0
	for _, o := range outdated {
		if IsMajorUpdate(o.CurrentVersion, o.LatestVersion) {
			n++
		}
	}
	return n
}
