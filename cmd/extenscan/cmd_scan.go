package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ochairo/extenscan/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/extenscan/internal/domain-orchestrators"
	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/interfaces"
	"github.com/ochairo/extenscan/internal/domain/interfaces/services"
	domainservices "github.com/ochairo/extenscan/internal/domain/services"
	"github.com/ochairo/extenscan/internal/external-adapters/output"
)

// SignPassphraseEnvVar holds the passphrase for an encrypted --sign-key
const SignPassphraseEnvVar = "EXTENSCAN_SIGN_PASSPHRASE"

type scanFlags struct {
	sources     []string
	format      string
	noVulnCheck bool
	noOutdated  bool
	outputPath  string
	clearCache  bool
	failOn      string
	noParallel  bool
	signKeyPath string
}

func newScanCmd(a *app) *cobra.Command {
	f := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan installed extensions and packages",
		Long: `Scan installed extensions and packages for known vulnerabilities,
outdated versions and risky extension permissions.

Exit codes with --fail-on: 2 critical, 3 high, 4 medium, 5 low.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runScan(cmd.Context(), f)
		},
	}

	cmd.Flags().StringSliceVarP(&f.sources, "source", "s", nil, "Source to scan (repeatable; default: configured sources)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: table, json, sarif, cyclonedx, html (default: configured format)")
	cmd.Flags().BoolVar(&f.noVulnCheck, "no-vuln-check", false, "Skip the vulnerability database lookup")
	cmd.Flags().BoolVar(&f.noOutdated, "no-outdated-check", false, "Skip the registry version lookup")
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&f.clearCache, "clear-cache", false, "Clear the version cache before scanning")
	cmd.Flags().StringVar(&f.failOn, "fail-on", "", "Exit non-zero when a vulnerability at or above this severity is found: critical, high, medium, low")
	cmd.Flags().BoolVar(&f.noParallel, "no-parallel", false, "Run scanners one after another")
	cmd.Flags().StringVar(&f.signKeyPath, "sign-key", "", "Armored OpenPGP private key used to sign --output")

	return cmd
}

func (a *app) runScan(ctx context.Context, f *scanFlags) error {
	formatName := f.format
	if formatName == "" {
		formatName = a.config.DefaultFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	failOn, err := domainservices.ParseFailLevel(f.failOn)
	if err != nil {
		return err
	}

	if f.signKeyPath != "" && f.outputPath == "" {
		return errors.New("--sign-key requires --output")
	}

	sources, err := a.parseSources(f.sources)
	if err != nil {
		return err
	}

	if f.clearCache {
		a.clearCache(ctx)
	}

	orchestrator, cleanup := a.newOrchestrator(ctx)
	defer cleanup()

	result, err := orchestrator.Scan(ctx, orchestrators.ScanOptions{
		Sources:              sources,
		CheckVulnerabilities: !f.noVulnCheck && !a.config.SkipVulnCheck,
		CheckOutdated:        !f.noOutdated && a.config.CheckOutdated,
		Parallel:             !f.noParallel,
		Ignore:               a.config.Ignore,
	})
	if err != nil {
		return err
	}

	writer := output.NewWriter(gateways.NewSBOMGenerator(version), version)
	if f.outputPath == "" {
		colorize := format == output.FormatTable && term.IsTerminal(int(os.Stdout.Fd()))
		if err := writer.WithColor(colorize).Write(ctx, os.Stdout, result, format); err != nil {
			return err
		}
	} else {
		if err := a.writeReport(ctx, writer, result, format, f); err != nil {
			return err
		}
	}

	if code := orchestrator.ExitCode(result, failOn); code != services.ExitSuccess {
		return &exitCodeError{code: code}
	}
	return nil
}

// writeReport writes the report file, its checksum and optionally a detached signature
func (a *app) writeReport(ctx context.Context, writer *output.Writer, result *entities.ScanResult, format output.Format, f *scanFlags) error {
	file, err := os.Create(f.outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writer.WriteFile(ctx, file, result, format); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	fmt.Printf("Results written to: %s\n", f.outputPath)

	sumPath, err := gateways.NewChecksumVerifier().WriteChecksumFile(f.outputPath)
	if err != nil {
		return err
	}
	a.logger.Debug("wrote checksum", interfaces.F("path", sumPath))

	if f.signKeyPath == "" {
		return nil
	}
	return signReport(ctx, f.outputPath, f.signKeyPath)
}

// signReport writes <report>.asc next to the report
func signReport(ctx context.Context, reportPath, keyPath string) error {
	//nolint:gosec // G304: key path is supplied by the user
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("failed to read signing key: %w", err)
	}
	//nolint:gosec // G304: report path was just written by this command
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}

	signature, err := gateways.NewReportSigner().Sign(ctx, data, key, []byte(os.Getenv(SignPassphraseEnvVar)))
	if err != nil {
		return err
	}

	sigPath := reportPath + ".asc"
	if err := os.WriteFile(sigPath, signature, 0o644); err != nil { //nolint:gosec // G306: signatures are public
		return fmt.Errorf("failed to write signature: %w", err)
	}
	fmt.Printf("Signature written to: %s\n", sigPath)
	return nil
}
