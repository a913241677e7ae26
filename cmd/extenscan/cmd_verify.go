package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ochairo/extenscan/internal/domain-adapters/gateways"
)

func newVerifyCmd(_ *app) *cobra.Command {
	var (
		signaturePath string
		keyPath       string
	)

	cmd := &cobra.Command{
		Use:   "verify <report>",
		Short: "Verify a report's checksum and OpenPGP signature",
		Long: `Verify a report written with --output.

The <report>.sha256 checksum is checked when present. With --signature and
--key the detached signature is checked against the public key.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportPath := args[0]
			out := cmd.OutOrStdout()

			if (signaturePath == "") != (keyPath == "") {
				return errors.New("--signature and --key must be used together")
			}

			checked := false
			sumPath := reportPath + gateways.ChecksumSuffix
			if _, err := os.Stat(sumPath); err == nil {
				if err := gateways.NewChecksumVerifier().VerifyChecksumFile(cmd.Context(), reportPath, sumPath); err != nil {
					return err
				}
				fmt.Fprintf(out, "Checksum OK: %s\n", sumPath)
				checked = true
			}

			if signaturePath != "" {
				fingerprint, err := verifySignature(cmd, reportPath, signaturePath, keyPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Signature OK: signed by %s\n", fingerprint)
				checked = true
			}

			if !checked {
				return fmt.Errorf("nothing to verify: %s not found and no --signature given", sumPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&signaturePath, "signature", "", "Armored detached signature (usually <report>.asc)")
	cmd.Flags().StringVar(&keyPath, "key", "", "Armored OpenPGP public key")
	return cmd
}

func verifySignature(cmd *cobra.Command, reportPath, signaturePath, keyPath string) (string, error) {
	files := make([][]byte, 0, 3)
	for _, path := range []string{reportPath, signaturePath, keyPath} {
		//nolint:gosec // G304: paths are supplied by the user
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, data)
	}
	return gateways.NewReportSigner().Verify(cmd.Context(), files[0], files[1], files[2])
}
