package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
	"github.com/ochairo/extenscan/internal/domain/interfaces/gateways"
)

const (
	npmRegistryURL  = "https://registry.npmjs.org"
	brewFormulaeURL = "https://formulae.brew.sh/api/formula"
)

// VersionFetcher resolves latest published versions from the npm and Homebrew registries
type VersionFetcher struct {
	http    *retryingClient
	cache   gateways.CacheGateway
	logger  interfaces.Logger
	npmURL  string
	brewURL string
}

// NewVersionFetcher creates a new version fetcher. cache may be nil.
func NewVersionFetcher(cache gateways.CacheGateway, logger interfaces.Logger) *VersionFetcher {
	return &VersionFetcher{
		http:    newRetryingClient(10 * time.Second),
		cache:   cache,
		logger:  interfaces.OrNoOp(logger),
		npmURL:  npmRegistryURL,
		brewURL: brewFormulaeURL,
	}
}

// LatestVersion returns the registry's latest version for pkg, using the cache when possible
func (vf *VersionFetcher) LatestVersion(ctx context.Context, pkg entities.Package) (string, bool) {
	var (
		cacheKey string
		fetch    func(ctx context.Context, name string) (string, error)
	)

	switch pkg.Source {
	case entities.SourceNpm:
		cacheKey = "npm_version_" + pkg.Name
		fetch = vf.fetchNpmLatest
	case entities.SourceHomebrew:
		cacheKey = "brew_version_" + pkg.Name
		fetch = vf.fetchHomebrewLatest
	default:
		return "", false
	}

	if vf.cache != nil {
		if version, ok := vf.cache.Get(ctx, cacheKey); ok {
			return version, true
		}
	}

	version, err := fetch(ctx, pkg.Name)
	if err != nil {
		vf.logger.Debug("version lookup failed",
			interfaces.F("package", pkg.Name),
			interfaces.F("source", string(pkg.Source)),
			interfaces.F("error", err.Error()))
		return "", false
	}

	if vf.cache != nil {
		if err := vf.cache.Set(ctx, cacheKey, version); err != nil {
			vf.logger.Debug("failed to cache version", interfaces.F("key", cacheKey), interfaces.F("error", err.Error()))
		}
	}
	return version, true
}

// npmPackageInfo is the subset of a registry document we read
type npmPackageInfo struct {
	DistTags struct {
		Latest string `json:"latest"`
	} `json:"dist-tags"`
}

// fetchNpmLatest reads dist-tags.latest from the npm registry
func (vf *VersionFetcher) fetchNpmLatest(ctx context.Context, name string) (string, error) {
	// Scoped names keep their "@" but escape the slash
	endpoint := fmt.Sprintf("%s/%s", vf.npmURL, url.PathEscape(name))

	var info npmPackageInfo
	if err := vf.getJSON(ctx, endpoint, &info); err != nil {
		return "", err
	}
	if info.DistTags.Latest == "" {
		return "", fmt.Errorf("no latest dist-tag for %s", name)
	}
	return info.DistTags.Latest, nil
}

// brewFormula is the subset of a formula document we read
type brewFormula struct {
	Versions struct {
		Stable string `json:"stable"`
	} `json:"versions"`
}

// fetchHomebrewLatest reads versions.stable from the formulae API
func (vf *VersionFetcher) fetchHomebrewLatest(ctx context.Context, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s.json", vf.brewURL, url.PathEscape(name))

	var formula brewFormula
	if err := vf.getJSON(ctx, endpoint, &formula); err != nil {
		return "", err
	}
	if formula.Versions.Stable == "" {
		return "", fmt.Errorf("no stable version for %s", name)
	}
	return formula.Versions.Stable, nil
}

// getJSON fetches endpoint and decodes a 200 response into out
func (vf *VersionFetcher) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	resp, err := vf.http.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	//nolint:errcheck // Defer close
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
