package entities

import "time"

// ScanResult is the aggregate produced by one scan
type ScanResult struct {
	Packages        []Package       `json:"packages"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Outdated        []OutdatedInfo  `json:"outdated"`
	ScanTime        time.Time       `json:"scan_time"`
}

// NewScanResult creates a result for the given packages stamped with the current time
func NewScanResult(packages []Package) *ScanResult {
	if packages == nil {
		packages = []Package{}
	}
	return &ScanResult{
		Packages:        packages,
		Vulnerabilities: []Vulnerability{},
		Outdated:        []OutdatedInfo{},
		ScanTime:        time.Now().UTC(),
	}
}

// FindPackage returns the package with the given ID
func (r *ScanResult) FindPackage(id string) (Package, bool) {
	for _, p := range r.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// CountBySeverity returns how many vulnerabilities fall into each tier
func (r *ScanResult) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, v := range r.Vulnerabilities {
		counts[v.Severity]++
	}
	return counts
}
