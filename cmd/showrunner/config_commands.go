package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"showrunner/internal/config"
	"showrunner/internal/deps"
	"showrunner/internal/ipc"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigCheckCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set the Anthropic and Hume api_key values before producing episodes.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the effective configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults shown")
			}
			fmt.Fprintln(out)

			rows := [][]string{
				{"data_dir", cfg.Paths.DataDir},
				{"outputs_dir", cfg.Paths.OutputsDir},
				{"assets_dir", cfg.Paths.AssetsDir},
				{"log_dir", cfg.Paths.LogDir},
				{"secrets_dir", cfg.Paths.SecretsDir},
				{"api_bind", cfg.Paths.APIBind},
				{"api_token set", yesNo(strings.TrimSpace(cfg.Paths.APIToken) != "")},
				{"anthropic key set", yesNo(strings.TrimSpace(cfg.Anthropic.APIKey) != "")},
				{"anthropic model", cfg.Anthropic.Model},
				{"hume key set", yesNo(strings.TrimSpace(cfg.Hume.APIKey) != "")},
				{"ltx enabled", yesNo(cfg.LTX.Enabled)},
				{"fact check enabled", yesNo(cfg.FactCheck.Enabled)},
				{"clips enabled", yesNo(cfg.Clips.Enabled)},
				{"ntfy topic set", yesNo(strings.TrimSpace(cfg.Notifications.NtfyTopic) != "")},
				{"log format", cfg.Logging.Format},
				{"log level", cfg.Logging.Level},
			}
			table := renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
			fmt.Fprintln(out, table)
			return nil
		},
	}
}

func newConfigCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "check",
		Short:       "Validate the configuration and external dependencies",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range dependencyLines(checkedDependencies(cfg), colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func checkedDependencies(cfg *config.Config) []ipc.DependencyStatus {
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	result := make([]ipc.DependencyStatus, 0, len(statuses))
	for _, dep := range statuses {
		result = append(result, ipc.DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		})
	}
	return result
}
