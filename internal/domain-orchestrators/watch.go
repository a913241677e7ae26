package orchestrators

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// Snapshot is the identity of a scan for change detection
type Snapshot struct {
	packages        map[string]struct{}
	vulnerabilities map[string]struct{}
}

// NewSnapshot keys packages by id@version and vulnerabilities by package/advisory
func NewSnapshot(result *entities.ScanResult) Snapshot {
	s := Snapshot{
		packages:        make(map[string]struct{}, len(result.Packages)),
		vulnerabilities: make(map[string]struct{}, len(result.Vulnerabilities)),
	}
	for _, p := range result.Packages {
		s.packages[fmt.Sprintf("%s@%s", p.ID, p.Version)] = struct{}{}
	}
	for _, v := range result.Vulnerabilities {
		s.vulnerabilities[fmt.Sprintf("%s/%s", v.PackageID, v.ID)] = struct{}{}
	}
	return s
}

// Diff lists what changed between two snapshots; each list is sorted
type Diff struct {
	NewPackages             []string
	RemovedPackages         []string
	NewVulnerabilities      []string
	ResolvedVulnerabilities []string
}

// IsEmpty reports whether nothing changed
func (d Diff) IsEmpty() bool {
	return len(d.NewPackages) == 0 && len(d.RemovedPackages) == 0 &&
		len(d.NewVulnerabilities) == 0 && len(d.ResolvedVulnerabilities) == 0
}

// Compare returns the changes from prev to s
func (s Snapshot) Compare(prev Snapshot) Diff {
	return Diff{
		NewPackages:             difference(s.packages, prev.packages),
		RemovedPackages:         difference(prev.packages, s.packages),
		NewVulnerabilities:      difference(s.vulnerabilities, prev.vulnerabilities),
		ResolvedVulnerabilities: difference(prev.vulnerabilities, s.vulnerabilities),
	}
}

func difference(a, b map[string]struct{}) []string {
	out := make([]string, 0)
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// WatchEvent is emitted after every scan in watch mode
type WatchEvent struct {
	Time   time.Time
	Result *entities.ScanResult
	// First is true for the initial scan, which has no Diff
	First bool
	Diff  Diff
}

// Watch rescans every interval until ctx is cancelled, reporting each scan.
// Scans run in parallel regardless of opts.Parallel.
func (o *ScanOrchestrator) Watch(ctx context.Context, opts ScanOptions, interval time.Duration, report func(WatchEvent)) error {
	opts.Parallel = true

	var prev Snapshot
	first := true
	for {
		event := WatchEvent{Time: time.Now().UTC(), First: first}

		result, err := o.Scan(ctx, opts)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		event.Result = result

		curr := NewSnapshot(result)
		if !first {
			event.Diff = curr.Compare(prev)
		}
		report(event)

		prev = curr
		first = false

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
