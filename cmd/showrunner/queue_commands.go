package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"showrunner/internal/api"
	"showrunner/internal/ipc"
	"showrunner/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the production queue",
	}

	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueDescribeCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueResetCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue status summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				stats := make(map[string]int)
				if client != nil {
					status, err := client.Status()
					if err != nil {
						return err
					}
					stats = status.QueueStats
				} else {
					raw, err := store.Stats(cmd.Context())
					if err != nil {
						return err
					}
					for status, count := range raw {
						stats[string(status)] = count
					}
				}

				rows := buildQueueStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				var items []ipc.QueueItem
				if client != nil {
					resp, err := client.QueueList(listStatuses)
					if err != nil {
						return err
					}
					items = resp.Items
				} else {
					var statuses []queue.Status
					for _, raw := range listStatuses {
						if parsed, ok := queue.ParseStatus(raw); ok {
							statuses = append(statuses, parsed)
						}
					}
					listed, err := store.List(cmd.Context(), statuses...)
					if err != nil {
						return err
					}
					for _, item := range listed {
						items = append(items, api.FromQueueItem(item))
					}
				}

				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				table := renderTable(
					[]string{"ID", "Show", "Episode", "Status", "Stage", "Created"},
					buildQueueListRows(items),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by queue status (repeatable)")
	return cmd
}

func newQueueDescribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <itemID>",
		Short: "Show details for a queue item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				var item *ipc.QueueItem
				if client != nil {
					resp, err := client.QueueDescribe(id)
					if err != nil {
						if strings.Contains(strings.ToLower(err.Error()), "not found") {
							fmt.Fprintf(cmd.OutOrStdout(), "Item %d not found\n", id)
							return nil
						}
						return err
					}
					item = &resp.Item
				} else {
					stored, err := store.GetByID(cmd.Context(), id)
					if err != nil {
						return err
					}
					if stored == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "Item %d not found\n", id)
						return nil
					}
					converted := api.FromQueueItem(stored)
					item = &converted
				}

				printQueueItemDetail(cmd, item)
				return nil
			})
		},
	}
}

func printQueueItemDetail(cmd *cobra.Command, item *ipc.QueueItem) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Item #%d\n", item.ID)
	fmt.Fprintf(out, "  Production:  %s\n", item.ProductionID)
	fmt.Fprintf(out, "  Show:        %s (%s)\n", item.ShowTitle, item.ShowID)
	fmt.Fprintf(out, "  Episode:     %d. %s\n", item.EpisodeIndex, item.EpisodeTitle)
	if item.Topic != "" {
		fmt.Fprintf(out, "  Topic:       %s\n", item.Topic)
	}
	fmt.Fprintf(out, "  Status:      %s\n", formatStatusLabel(item.Status))
	if item.Progress.Stage != "" {
		fmt.Fprintf(out, "  Stage:       %s (%.0f%%) %s\n", item.Progress.Stage, item.Progress.Percent, item.Progress.Message)
	}
	if item.ErrorMessage != "" {
		fmt.Fprintf(out, "  Error:       %s\n", item.ErrorMessage)
	}
	fmt.Fprintf(out, "  Review:      %s", yesNo(item.NeedsReview))
	if item.ReviewReason != "" {
		fmt.Fprintf(out, " (%s)", item.ReviewReason)
	}
	fmt.Fprintln(out)
	for _, artifact := range []struct {
		label string
		path  string
	}{
		{"Script", item.ScriptFile},
		{"Audio", item.AudioFile},
		{"Video", item.VideoFile},
		{"Clips", item.ClipsDir},
		{"Final", item.FinalFile},
	} {
		if artifact.path != "" {
			fmt.Fprintf(out, "  %-12s %s\n", artifact.label+":", artifact.path)
		}
	}
	if item.CreatedAt != "" {
		fmt.Fprintf(out, "  Created:     %s\n", formatDisplayTime(item.CreatedAt))
	}
	if item.UpdatedAt != "" {
		fmt.Fprintf(out, "  Updated:     %s\n", formatDisplayTime(item.UpdatedAt))
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var clearCompleted bool
	var clearFailed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearCompleted && clearFailed {
				return errors.New("specify only one of --completed or --failed")
			}
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				out := cmd.OutOrStdout()
				var removed int64
				var label string
				var err error

				switch {
				case clearCompleted:
					label = "completed items"
					if client != nil {
						var resp *ipc.QueueClearCompletedResponse
						resp, err = client.QueueClearCompleted()
						if err == nil {
							removed = resp.Removed
						}
					} else {
						removed, err = store.ClearCompleted(cmd.Context())
					}
				case clearFailed:
					label = "failed items"
					if client != nil {
						var resp *ipc.QueueClearFailedResponse
						resp, err = client.QueueClearFailed()
						if err == nil {
							removed = resp.Removed
						}
					} else {
						removed, err = store.ClearFailed(cmd.Context())
					}
				default:
					label = "queue items"
					if client != nil {
						var resp *ipc.QueueClearResponse
						resp, err = client.QueueClear()
						if err == nil {
							removed = resp.Removed
						}
					} else {
						removed, err = store.Clear(cmd.Context())
					}
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %d %s\n", removed, label)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearCompleted, "completed", false, "Remove only completed items")
	cmd.Flags().BoolVar(&clearFailed, "failed", false, "Remove only failed items")
	return cmd
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <itemID...>",
		Short: "Remove specific queue items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", arg)
				}
				ids = append(ids, id)
			}

			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				var removed int64
				if client != nil {
					resp, err := client.QueueRemove(ids)
					if err != nil {
						return err
					}
					removed = resp.Removed
				} else {
					for _, id := range ids {
						ok, err := store.Remove(cmd.Context(), id)
						if err != nil {
							return err
						}
						if ok {
							removed++
						}
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d queue items\n", removed)
				return nil
			})
		},
	}
}

func newQueueResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "reset-stuck",
		Aliases: []string{"reset"},
		Short:   "Return in-flight items to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				var updated int64
				if client != nil {
					resp, err := client.QueueReset()
					if err != nil {
						return err
					}
					updated = resp.Updated
				} else {
					var err error
					updated, err = store.ResetStuckProcessing(cmd.Context())
					if err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d items\n", updated)
				return nil
			})
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [itemID...]",
		Short: "Retry failed queue items",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", arg)
				}
				ids = append(ids, id)
			}

			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				out := cmd.OutOrStdout()
				var updated int64
				if client != nil {
					resp, err := client.QueueRetry(ids)
					if err != nil {
						return err
					}
					updated = resp.Updated
				} else {
					var err error
					updated, err = store.RetryFailed(cmd.Context(), ids...)
					if err != nil {
						return err
					}
				}
				fmt.Fprintf(out, "Retried %d failed items\n", updated)
				return nil
			})
		},
	}
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show queue and database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				var summary queue.HealthSummary
				var db queue.DatabaseHealth
				if client != nil {
					healthResp, err := client.QueueHealth()
					if err != nil {
						return err
					}
					summary = queue.HealthSummary{
						Total:      healthResp.Total,
						Pending:    healthResp.Pending,
						Processing: healthResp.Processing,
						Failed:     healthResp.Failed,
						Review:     healthResp.Review,
						Completed:  healthResp.Completed,
					}
					dbResp, err := client.DatabaseHealth()
					if err != nil && dbResp == nil {
						return err
					}
					if dbResp != nil {
						db = queue.DatabaseHealth{
							DBPath:           dbResp.DBPath,
							DatabaseExists:   dbResp.DatabaseExists,
							DatabaseReadable: dbResp.DatabaseReadable,
							SchemaVersion:    dbResp.SchemaVersion,
							TableExists:      dbResp.TableExists,
							IntegrityCheck:   dbResp.IntegrityCheck,
							MissingColumns:   dbResp.MissingColumns,
							TotalItems:       dbResp.TotalItems,
							Error:            dbResp.Error,
						}
					}
				} else {
					var err error
					summary, err = store.Health(cmd.Context())
					if err != nil {
						return err
					}
					db, err = store.CheckHealth(cmd.Context())
					if err != nil {
						return err
					}
				}

				fmt.Fprintf(out, "Total: %d\nPending: %d\nProcessing: %d\nFailed: %d\nReview: %d\nCompleted: %d\n",
					summary.Total,
					summary.Pending,
					summary.Processing,
					summary.Failed,
					summary.Review,
					summary.Completed,
				)
				fmt.Fprintln(out)

				for _, line := range renderSectionHeader("Database", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Path", statusInfo, db.DBPath, colorize))
				fmt.Fprintln(out, renderStatusLine("Readable", boolStatusKind(db.DatabaseReadable), yesNo(db.DatabaseReadable), colorize))
				fmt.Fprintln(out, renderStatusLine("Schema", statusInfo, db.SchemaVersion, colorize))
				fmt.Fprintln(out, renderStatusLine("Integrity", boolStatusKind(db.IntegrityCheck), yesNo(db.IntegrityCheck), colorize))
				if len(db.MissingColumns) > 0 {
					fmt.Fprintln(out, renderStatusLine("Missing columns", statusError, strings.Join(db.MissingColumns, ", "), colorize))
				}
				if db.Error != "" {
					fmt.Fprintln(out, renderStatusLine("Error", statusError, db.Error, colorize))
				}
				return nil
			})
		},
	}
}

func boolStatusKind(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusError
}
