package orchestrators

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces/gateways"
)

func TestSnapshot_Compare(t *testing.T) {
	prev := entities.NewScanResult([]entities.Package{npmPkg("lodash", "4.17.20"), npmPkg("left-pad", "1.3.0")})
	prev.Vulnerabilities = []entities.Vulnerability{{ID: "GHSA-1", PackageID: "lodash"}}

	curr := entities.NewScanResult([]entities.Package{npmPkg("lodash", "4.17.21"), npmPkg("left-pad", "1.3.0")})
	curr.Vulnerabilities = []entities.Vulnerability{{ID: "GHSA-2", PackageID: "left-pad"}}

	diff := NewSnapshot(curr).Compare(NewSnapshot(prev))
	assert.Equal(t, []string{"lodash@4.17.21"}, diff.NewPackages)
	assert.Equal(t, []string{"lodash@4.17.20"}, diff.RemovedPackages)
	assert.Equal(t, []string{"left-pad/GHSA-2"}, diff.NewVulnerabilities)
	assert.Equal(t, []string{"lodash/GHSA-1"}, diff.ResolvedVulnerabilities)
	assert.False(t, diff.IsEmpty())

	same := NewSnapshot(curr).Compare(NewSnapshot(curr))
	assert.True(t, same.IsEmpty())
}

func TestScanOrchestrator_Watch(t *testing.T) {
	npm := &mockScanner{source: entities.SourceNpm, platforms: everywhere, packages: []entities.Package{npmPkg("lodash", "4.17.20")}}
	o := newTestOrchestrator([]gateways.Scanner{npm}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events []WatchEvent
	done := make(chan error, 1)
	go func() {
		done <- o.Watch(ctx, ScanOptions{}, time.Millisecond, func(e WatchEvent) {
			events = append(events, e)
			switch len(events) {
			case 1:
				npm.set([]entities.Package{npmPkg("lodash", "4.17.20"), npmPkg("chalk", "5.3.0")})
			case 3:
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	require.Len(t, events, 3)
	assert.True(t, events[0].First)
	assert.Len(t, events[0].Result.Packages, 1)

	assert.False(t, events[1].First)
	assert.Equal(t, []string{"chalk@5.3.0"}, events[1].Diff.NewPackages)

	assert.True(t, events[2].Diff.IsEmpty())
}
