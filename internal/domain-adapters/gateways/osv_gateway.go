package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
)

const (
	osvBatchURL = "https://api.osv.dev/v1/querybatch"
	// osvBatchSize is the maximum number of queries sent in one request
	osvBatchSize = 100
)

// osvGateway queries the OSV.dev batch API over plain HTTP
type osvGateway struct {
	apiURL string
	http   *retryingClient
	logger interfaces.Logger
}

// NewOSVGateway creates a new OSV gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewOSVGateway(logger interfaces.Logger) *osvGateway {
	return &osvGateway{
		apiURL: osvBatchURL,
		http:   newRetryingClient(30 * time.Second),
		logger: interfaces.OrNoOp(logger),
	}
}

// osvEcosystem maps a package source to its OSV ecosystem name
func osvEcosystem(source entities.Source) (string, bool) {
	switch source {
	case entities.SourceNpm:
		return "npm", true
	case entities.SourceHomebrew:
		return "Homebrew", true
	default:
		return "", false
	}
}

// QueryAdvisories looks up every package with a known ecosystem in batches.
// A batch that fails is logged and skipped.
func (g *osvGateway) QueryAdvisories(ctx context.Context, packages []entities.Package) ([]entities.Advisory, error) {
	checkable := make([]entities.Package, 0, len(packages))
	for _, pkg := range packages {
		if _, ok := osvEcosystem(pkg.Source); ok {
			checkable = append(checkable, pkg)
		}
	}

	advisories := make([]entities.Advisory, 0)
	for start := 0; start < len(checkable); start += osvBatchSize {
		if err := ctx.Err(); err != nil {
			return advisories, err
		}

		end := start + osvBatchSize
		if end > len(checkable) {
			end = len(checkable)
		}
		chunk := checkable[start:end]

		results, err := g.queryBatch(ctx, chunk)
		if err != nil {
			g.logger.Warn("OSV batch query failed",
				interfaces.F("offset", start),
				interfaces.F("size", len(chunk)),
				interfaces.F("error", err.Error()))
			continue
		}

		for i, result := range results {
			if i >= len(chunk) {
				break
			}
			for _, vuln := range result.Vulns {
				advisories = append(advisories, vuln.toAdvisory(chunk[i].ID))
			}
		}
	}

	return advisories, nil
}

// queryBatch sends one querybatch request; results are positional
func (g *osvGateway) queryBatch(ctx context.Context, chunk []entities.Package) ([]OSVBatchResult, error) {
	queries := make([]OSVQueryRequest, 0, len(chunk))
	for _, pkg := range chunk {
		ecosystem, _ := osvEcosystem(pkg.Source)
		queries = append(queries, OSVQueryRequest{
			Package: OSVPackage{Name: pkg.ID, Ecosystem: ecosystem},
			Version: pkg.Version,
		})
	}

	body, err := json.Marshal(OSVBatchRequest{Queries: queries})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := g.http.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("OSV API request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSV API returned HTTP %d", resp.StatusCode)
	}

	var batch OSVBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("failed to parse OSV response: %w", err)
	}
	return batch.Results, nil
}

// toAdvisory converts an OSV record into a domain advisory
func (v OSVVulnerability) toAdvisory(packageID string) entities.Advisory {
	severities := make([]entities.SeverityScore, 0, len(v.Severity))
	for _, s := range v.Severity {
		severities = append(severities, entities.SeverityScore{Type: s.Type, Score: s.Score})
	}

	return entities.Advisory{
		PackageID:    packageID,
		ID:           v.ID,
		Summary:      v.Summary,
		Details:      v.Details,
		Severities:   severities,
		FixedVersion: v.firstFixedVersion(),
		ReferenceURL: v.firstReferenceURL(),
	}
}

func (v OSVVulnerability) firstFixedVersion() string {
	for _, affected := range v.Affected {
		for _, r := range affected.Ranges {
			for _, event := range r.Events {
				if event.Fixed != "" {
					return event.Fixed
				}
			}
		}
	}
	return ""
}

func (v OSVVulnerability) firstReferenceURL() string {
	for _, ref := range v.References {
		if ref.URL != "" {
			return ref.URL
		}
	}
	return ""
}

// OSV API request/response types

// OSVBatchRequest wraps several queries into one querybatch call.
type OSVBatchRequest struct {
	Queries []OSVQueryRequest `json:"queries"`
}

// OSVQueryRequest represents a query to the OSV API for vulnerability information.
type OSVQueryRequest struct {
	Package OSVPackage `json:"package"`
	Version string     `json:"version"`
}

// OSVPackage identifies a software package in a specific ecosystem.
type OSVPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

// OSVBatchResponse holds one result per query, in request order.
type OSVBatchResponse struct {
	Results []OSVBatchResult `json:"results"`
}

// OSVBatchResult contains the vulnerabilities matching a single query.
type OSVBatchResult struct {
	Vulns []OSVVulnerability `json:"vulns"`
}

// OSVVulnerability represents a single vulnerability from the OSV database.
type OSVVulnerability struct {
	ID         string         `json:"id"`
	Summary    string         `json:"summary"`
	Details    string         `json:"details"`
	Severity   []OSVSeverity  `json:"severity,omitempty"`
	Affected   []OSVAffected  `json:"affected,omitempty"`
	References []OSVReference `json:"references,omitempty"`
}

// OSVSeverity contains severity scoring information for a vulnerability.
type OSVSeverity struct {
	Type  string `json:"type"`
	Score string `json:"score"`
}

// OSVAffected lists the version ranges a vulnerability applies to.
type OSVAffected struct {
	Ranges []OSVRange `json:"ranges,omitempty"`
}

// OSVRange is a sequence of introduced/fixed events.
type OSVRange struct {
	Events []OSVEvent `json:"events,omitempty"`
}

// OSVEvent marks a version where a vulnerability was introduced or fixed.
type OSVEvent struct {
	Introduced string `json:"introduced,omitempty"`
	Fixed      string `json:"fixed,omitempty"`
}

// OSVReference is a link to advisory material.
type OSVReference struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url"`
}
