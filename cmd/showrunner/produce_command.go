package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"showrunner/internal/ipc"
)

func newProduceCommand(ctx *commandContext) *cobra.Command {
	var showID string
	var episodeIndex int

	cmd := &cobra.Command{
		Use:   "produce",
		Short: "Queue an episode for production",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(showID) == "" {
				return errors.New("--show is required")
			}
			if episodeIndex < 1 {
				return errors.New("--episode must be 1 or greater")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Produce(showID, episodeIndex)
				if err != nil {
					return err
				}
				if resp == nil {
					return errors.New("empty response from daemon")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %s episode %d (%s) as item #%d\n",
					resp.Item.ShowTitle, resp.Item.EpisodeIndex, resp.Item.EpisodeTitle, resp.Item.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&showID, "show", "", "Show identifier from the catalog")
	cmd.Flags().IntVar(&episodeIndex, "episode", 0, "Episode number (1-based)")
	return cmd
}
