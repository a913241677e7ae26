package gateways

import (
	"context"

	"github.com/ochairo/extenscan/internal/domain/entities"
)

// VulnerabilityGateway looks up raw advisories for packages
type VulnerabilityGateway interface {
	// QueryAdvisories returns advisories for every package the database covers.
	// Packages from unsupported ecosystems are skipped silently.
	QueryAdvisories(ctx context.Context, packages []entities.Package) ([]entities.Advisory, error)
}

// RegistryGateway resolves the latest published version of a package
type RegistryGateway interface {
	// LatestVersion returns false when the registry is unknown or unreachable
	LatestVersion(ctx context.Context, pkg entities.Package) (string, bool)
}

// CacheGateway stores short-lived string values with a time-to-live
type CacheGateway interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

// SignatureGateway produces and checks detached signatures over report files
type SignatureGateway interface {
	Sign(ctx context.Context, data []byte, armoredPrivateKey []byte, passphrase []byte) ([]byte, error)
	Verify(ctx context.Context, data []byte, armoredSignature []byte, armoredPublicKey []byte) (string, error)
}

// SBOMGateway builds a software bill of materials from a scan
type SBOMGateway interface {
	GenerateSBOM(ctx context.Context, result *entities.ScanResult) (*entities.SBOM, error)
}
