package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"showrunner/internal/outputs"
)

func newOutputsCommand(ctx *commandContext) *cobra.Command {
	outputsCmd := &cobra.Command{
		Use:   "outputs",
		Short: "Inspect packaged episodes",
	}
	outputsCmd.AddCommand(newOutputsListCommand(ctx))
	return outputsCmd
}

func newOutputsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List packaged productions in the outputs directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			entries, err := os.ReadDir(cfg.Paths.OutputsDir)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "No packaged episodes")
					return nil
				}
				return fmt.Errorf("read outputs directory: %w", err)
			}

			manifests := make([]outputs.Manifest, 0, len(entries))
			for _, entry := range entries {
				if !entry.IsDir() {
					continue
				}
				manifest, readErr := outputs.ReadManifest(filepath.Join(cfg.Paths.OutputsDir, entry.Name()))
				if readErr != nil {
					continue
				}
				manifests = append(manifests, manifest)
			}

			if len(manifests) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No packaged episodes")
				return nil
			}

			sort.Slice(manifests, func(i, j int) bool {
				return manifests[i].PackagedAt.After(manifests[j].PackagedAt)
			})

			rows := make([][]string, 0, len(manifests))
			for _, m := range manifests {
				rows = append(rows, []string{
					m.ShowTitle,
					fmt.Sprintf("%d. %s", m.EpisodeIndex, m.EpisodeTitle),
					fmt.Sprintf("%d", len(m.Clips)),
					m.PackagedAt.UTC().Format("2006-01-02 15:04"),
					m.FinalFile,
				})
			}
			table := renderTable(
				[]string{"Show", "Episode", "Clips", "Packaged", "Final File"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
