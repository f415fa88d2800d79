package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"showrunner/internal/api"
	"showrunner/internal/logging"
	"showrunner/internal/shows"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Manage the show catalog",
	}

	showCmd.AddCommand(newShowListCommand(ctx))
	showCmd.AddCommand(newShowCreateCommand(ctx))
	showCmd.AddCommand(newShowEpisodeCommand(ctx))

	return showCmd
}

func openShowStore(ctx *commandContext) (*shows.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return shows.NewStore(cfg.ShowsPath(), logging.NewNop())
}

func newShowListCommand(ctx *commandContext) *cobra.Command {
	var withEpisodes bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			var catalog []api.Show
			if client, err := ctx.dialClient(); err == nil {
				resp, listErr := client.ShowList()
				_ = client.Close()
				if listErr != nil {
					return listErr
				}
				catalog = resp.Shows
			} else {
				store, storeErr := openShowStore(ctx)
				if storeErr != nil {
					return storeErr
				}
				for _, show := range store.List() {
					catalog = append(catalog, api.FromShow(show))
				}
			}

			out := cmd.OutOrStdout()
			if len(catalog) == 0 {
				fmt.Fprintln(out, "Show catalog is empty")
				return nil
			}

			rows := make([][]string, 0, len(catalog))
			for _, show := range catalog {
				rows = append(rows, []string{
					show.ID,
					show.Title,
					show.Format,
					fmt.Sprintf("%d", len(show.Episodes)),
				})
			}
			table := renderTable(
				[]string{"ID", "Title", "Format", "Episodes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			)
			fmt.Fprintln(out, table)

			if !withEpisodes {
				return nil
			}
			for _, show := range catalog {
				if len(show.Episodes) == 0 {
					continue
				}
				fmt.Fprintf(out, "\n%s\n", show.Title)
				for i, ep := range show.Episodes {
					fmt.Fprintf(out, "  %2d. %-40s %s\n", i+1, ep.Title, formatStatusLabel(ep.Status))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withEpisodes, "episodes", false, "Include each show's episode list")
	return cmd
}

func newShowCreateCommand(ctx *commandContext) *cobra.Command {
	var show shows.Show

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a show",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(show.Title) == "" {
				return errors.New("--title is required")
			}
			store, err := openShowStore(ctx)
			if err != nil {
				return err
			}
			created, err := store.Create(show)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created show %s (%s)\n", created.Title, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&show.Title, "title", "", "Show title")
	cmd.Flags().StringVar(&show.Description, "description", "", "Show premise used in prompts")
	cmd.Flags().StringVar(&show.Format, "format", "", "Show format (sitcom, podcast, ...)")
	cmd.Flags().StringVar(&show.TargetDuration, "duration", "", "Target episode duration in minutes")
	cmd.Flags().StringSliceVar(&show.Cast, "cast", nil, "Roster character ids in the cast (repeatable)")
	cmd.Flags().StringVar(&show.Narrator, "narrator", "", "Narrator character id")
	cmd.Flags().StringVar(&show.VisualStyle, "visual-style", "", "Visual style for scene rendering")
	return cmd
}

func newShowEpisodeCommand(ctx *commandContext) *cobra.Command {
	var episode shows.Episode

	cmd := &cobra.Command{
		Use:   "episode <showID>",
		Short: "Add a planned episode to a show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(episode.Title) == "" {
				return errors.New("--title is required")
			}
			store, err := openShowStore(ctx)
			if err != nil {
				return err
			}
			index, err := store.AddEpisode(args[0], episode)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added episode %d: %s\n", index+1, episode.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&episode.Title, "title", "", "Episode title")
	cmd.Flags().StringVar(&episode.Topic, "topic", "", "Episode topic or premise")
	cmd.Flags().StringVar(&episode.Tone, "tone", "", "Tone guidance for the script")
	cmd.Flags().StringVar(&episode.RefNotes, "notes", "", "Reference notes passed to script generation")
	return cmd
}
