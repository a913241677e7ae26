package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	orchestrators "github.com/ochairo/extenscan/internal/domain-orchestrators"
	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/services"
)

const (
	maxListedPermissions = 5
	maxListedIssues      = 3
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <package>",
		Short: "Show details, risks and vulnerabilities for installed packages matching a name or id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Searching for package: %s\n", query)
			fmt.Fprintln(out)

			orchestrator, cleanup := a.newOrchestrator(cmd.Context())
			defer cleanup()

			details, err := orchestrator.FindPackages(cmd.Context(), query)
			if err != nil {
				return err
			}

			if len(details) == 0 {
				fmt.Fprintf(out, "No package found matching: %s\n", query)
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Try:")
				fmt.Fprintln(out, "  extenscan scan              # List all packages")
				fmt.Fprintln(out, "  extenscan info <name>       # Search by name")
				return nil
			}

			for _, d := range details {
				printPackageDetails(out, d)
			}
			return nil
		},
	}
}

func printPackageDetails(out io.Writer, d orchestrators.PackageDetails) {
	pkg := d.Package

	fmt.Fprintf(out, "Package: %s\n", pkg.Name)
	fmt.Fprintf(out, "  ID:       %s\n", pkg.ID)
	if pkg.HasUnknownVersion() {
		fmt.Fprintln(out, "  Version:  (not detected)")
	} else {
		fmt.Fprintf(out, "  Version:  %s\n", pkg.Version)
	}
	fmt.Fprintf(out, "  Source:   %s\n", pkg.Source.DisplayName())

	optional := []struct{ label, value string }{
		{"Path:     ", pkg.InstallPath},
		{"About:    ", pkg.Description},
		{"Author:   ", pkg.Publisher},
		{"License:  ", pkg.License},
		{"Homepage: ", pkg.Homepage},
		{"Repo:     ", pkg.Repository},
	}
	for _, field := range optional {
		if field.value != "" {
			fmt.Fprintf(out, "  %s%s\n", field.label, field.value)
		}
	}

	if pkg.ExtensionRisk != nil {
		printRiskAnalysis(out, pkg.ExtensionRisk)
	}

	if len(d.Vulnerabilities) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Vulnerabilities (%d):\n", len(d.Vulnerabilities))
		for _, v := range services.SortBySeverity(d.Vulnerabilities) {
			fmt.Fprintf(out, "    - [%s] %s: %s\n", v.Severity, v.ID, v.Title)
		}
	}

	if d.Update != nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Update available: %s -> %s\n", d.Update.CurrentVersion, d.Update.LatestVersion)
	}

	fmt.Fprintln(out)
}

func printRiskAnalysis(out io.Writer, report *entities.ExtensionRiskReport) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Security Risk Analysis:")
	fmt.Fprintf(out, "    Risk Level: %s (score: %d)\n", strings.ToUpper(report.RiskLevel), report.TotalScore)

	var risky []entities.PermissionRisk
	for _, p := range report.Permissions {
		if p.Level >= entities.RiskHigh {
			risky = append(risky, p)
		}
	}
	if len(risky) > 0 {
		fmt.Fprintln(out, "    High-risk permissions:")
		for i, p := range risky {
			if i == maxListedPermissions {
				fmt.Fprintf(out, "      ... and %d more\n", len(risky)-maxListedPermissions)
				break
			}
			fmt.Fprintf(out, "      - %s: %s\n", p.Name, p.Description)
		}
	}

	if len(report.HostPermissions) > 0 {
		fmt.Fprintf(out, "    Host access: %s\n", report.HostPermissionScope)
	}

	if len(report.Issues) > 0 {
		fmt.Fprintf(out, "    Issues (%d):\n", len(report.Issues))
		for i, issue := range report.Issues {
			if i == maxListedIssues {
				break
			}
			fmt.Fprintf(out, "      - [%s] %s\n", issue.Severity, issue.Title)
		}
	}
}
