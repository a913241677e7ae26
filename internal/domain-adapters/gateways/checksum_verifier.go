package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ChecksumSuffix is appended to a report path to name its checksum file
const ChecksumSuffix = ".sha256"

// checksumVerifier writes and checks sha256sum-style checksum files for reports
type checksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChecksumVerifier() *checksumVerifier {
	return &checksumVerifier{}
}

// CalculateChecksum calculates the SHA256 checksum of a file
func (v *checksumVerifier) CalculateChecksum(filePath string) (string, error) {
	//nolint:gosec // G304: File path is user-provided for checksum calculation
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyChecksum verifies a file's SHA256 checksum
func (v *checksumVerifier) VerifyChecksum(_ context.Context, filePath, expectedSum string) error {
	actualSum, err := v.CalculateChecksum(filePath)
	if err != nil {
		return err
	}

	if !strings.EqualFold(actualSum, expectedSum) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedSum, actualSum)
	}

	return nil
}

// WriteChecksumFile writes "<sum>  <name>" next to filePath and returns the checksum file path
func (v *checksumVerifier) WriteChecksumFile(filePath string) (string, error) {
	sum, err := v.CalculateChecksum(filePath)
	if err != nil {
		return "", err
	}

	sumPath := filePath + ChecksumSuffix
	line := fmt.Sprintf("%s  %s\n", sum, filepath.Base(filePath))
	if err := os.WriteFile(sumPath, []byte(line), 0o644); err != nil { //nolint:gosec // G306: checksum files are public
		return "", fmt.Errorf("failed to write checksum file: %w", err)
	}
	return sumPath, nil
}

// VerifyChecksumFile checks filePath against the first field of sumPath
func (v *checksumVerifier) VerifyChecksumFile(ctx context.Context, filePath, sumPath string) error {
	//nolint:gosec // G304: File path is user-provided for checksum verification
	data, err := os.ReadFile(sumPath)
	if err != nil {
		return fmt.Errorf("failed to read checksum file: %w", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return fmt.Errorf("checksum file %s is empty", sumPath)
	}

	return v.VerifyChecksum(ctx, filePath, fields[0])
}
