package gateways

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ochairo/extenscan/internal/external-adapters/gpg"
)

// reportSigner wraps the external GPG adapter to implement the domain signature gateway
type reportSigner struct {
	signer *gpg.Signer
}

// NewReportSigner creates a new report signing gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewReportSigner() *reportSigner {
	return &reportSigner{signer: gpg.NewSigner()}
}

// Sign returns an armored detached signature over data
func (g *reportSigner) Sign(_ context.Context, data, armoredPrivateKey, passphrase []byte) ([]byte, error) {
	sig, err := g.signer.Sign(bytes.NewReader(data), armoredPrivateKey, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to sign report: %w", err)
	}
	return sig, nil
}

// Verify checks a detached signature and returns the signer's fingerprint
func (g *reportSigner) Verify(_ context.Context, data, armoredSignature, armoredPublicKey []byte) (string, error) {
	fingerprint, err := g.signer.Verify(bytes.NewReader(data), armoredSignature, armoredPublicKey)
	if err != nil {
		return "", fmt.Errorf("GPG signature verification failed: %w", err)
	}
	return fingerprint, nil
}
