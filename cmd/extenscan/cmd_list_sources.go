package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ochairo/extenscan/internal/domain-adapters/gateways"
	domaingateways "github.com/ochairo/extenscan/internal/domain/interfaces/gateways"
)

func newListSourcesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-sources",
		Short: "List the sources extenscan can scan and where they are read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printSources(cmd.OutOrStdout(), a.scannerRegistry())
			return nil
		},
	}
}

func printSources(out io.Writer, registry *gateways.ScannerRegistry) {
	fmt.Fprintln(out, "Available sources:")
	fmt.Fprintln(out)

	for _, scanner := range registry.AllScanners() {
		supported := "no"
		if domaingateways.IsSupported(scanner) {
			supported = "yes"
		}
		source := scanner.Source()
		fmt.Fprintf(out, "  %-12s %-25s [supported: %s]\n", source, scanner.Name(), supported)
		fmt.Fprintf(out, "  %-12s Location: %s\n", "", registry.Paths().Location(source))
		fmt.Fprintln(out)
	}
}
