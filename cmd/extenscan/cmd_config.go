package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/external-adapters/yaml"
)

func newConfigCmd(a *app) *cobra.Command {
	var (
		showPath bool
		initFile bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch {
			case showPath:
				fmt.Fprintln(out, a.configRepo.Path())
				return nil
			case initFile:
				return initConfig(cmd, out, a.configRepo)
			default:
				return showConfig(out, a.configRepo)
			}
		},
	}

	cmd.Flags().BoolVar(&showPath, "path", false, "Print the config file path")
	cmd.Flags().BoolVar(&initFile, "init", false, "Write a config file with the defaults")
	return cmd
}

func initConfig(cmd *cobra.Command, out io.Writer, repo *yaml.ConfigRepository) error {
	if repo.Exists() {
		fmt.Fprintf(out, "Config file already exists at: %s\n", repo.Path())
		return nil
	}

	if err := repo.Save(cmd.Context(), entities.DefaultConfig()); err != nil {
		return err
	}
	content, err := repo.DefaultContent()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created config file at: %s\n", repo.Path())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Default configuration:")
	fmt.Fprint(out, content)
	return nil
}

func showConfig(out io.Writer, repo *yaml.ConfigRepository) error {
	if !repo.Exists() {
		fmt.Fprintln(out, "No config file found.")
		fmt.Fprintln(out, "Run 'extenscan config --init' to create one.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Config path: %s\n", repo.Path())
		return nil
	}

	//nolint:gosec // G304: path comes from --config or the user config directory
	content, err := os.ReadFile(repo.Path())
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	fmt.Fprintf(out, "Config file: %s\n", repo.Path())
	fmt.Fprintln(out)
	fmt.Fprint(out, string(content))
	return nil
}
