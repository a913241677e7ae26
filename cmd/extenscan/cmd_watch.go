package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	orchestrators "github.com/ochairo/extenscan/internal/domain-orchestrators"
)

const defaultWatchInterval = 300

func newWatchCmd(a *app) *cobra.Command {
	var (
		interval    uint
		sources     []string
		noVulnCheck bool
		noOutdated  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rescan periodically and report new packages and vulnerabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval == 0 {
				return errors.New("interval must be at least 1 second")
			}
			parsed, err := a.parseSources(sources)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Starting watch mode (Ctrl+C to stop)")
			fmt.Fprintf(out, "Scan interval: %d seconds\n", interval)
			fmt.Fprintln(out)

			orchestrator, cleanup := a.newOrchestrator(cmd.Context())
			defer cleanup()

			opts := orchestrators.ScanOptions{
				Sources:              parsed,
				CheckVulnerabilities: !noVulnCheck && !a.config.SkipVulnCheck,
				CheckOutdated:        !noOutdated && a.config.CheckOutdated,
				Ignore:               a.config.Ignore,
			}
			return orchestrator.Watch(cmd.Context(), opts, time.Duration(interval)*time.Second, func(ev orchestrators.WatchEvent) {
				printWatchEvent(out, ev, interval)
			})
		},
	}

	cmd.Flags().UintVarP(&interval, "interval", "i", defaultWatchInterval, "Seconds between scans")
	cmd.Flags().StringSliceVarP(&sources, "source", "s", nil, "Source to watch (repeatable; default: configured sources)")
	cmd.Flags().BoolVar(&noVulnCheck, "no-vuln-check", false, "Skip the vulnerability database lookup")
	cmd.Flags().BoolVar(&noOutdated, "no-outdated-check", false, "Skip the registry version lookup")
	return cmd
}

func printWatchEvent(out io.Writer, ev orchestrators.WatchEvent, interval uint) {
	fmt.Fprintf(out, "[%s] Scanning...\n", ev.Time.Format("2006-01-02 15:04:05"))

	if ev.First {
		fmt.Fprintf(out, "  Found %d packages, %d vulnerabilities, %d outdated\n",
			len(ev.Result.Packages), len(ev.Result.Vulnerabilities), len(ev.Result.Outdated))
	} else if ev.Diff.IsEmpty() {
		fmt.Fprintln(out, "  No changes detected")
	} else {
		printChanges(out, "[+] New packages", "+", ev.Diff.NewPackages)
		printChanges(out, "[-] Removed packages", "-", ev.Diff.RemovedPackages)
		printChanges(out, "[!] New vulnerabilities", "!", ev.Diff.NewVulnerabilities)
		printChanges(out, "[*] Resolved vulnerabilities", "*", ev.Diff.ResolvedVulnerabilities)
	}

	fmt.Fprintf(out, "  Next scan in %d seconds...\n", interval)
	fmt.Fprintln(out)
}

func printChanges(out io.Writer, heading, marker string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "  %s: %d\n", heading, len(items))
	for _, item := range items {
		fmt.Fprintf(out, "      %s %s\n", marker, item)
	}
}
