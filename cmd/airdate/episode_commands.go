package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"airdate/internal/catalog"
	"airdate/internal/ipc"
)

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	episodesCmd := &cobra.Command{
		Use:   "episodes",
		Short: "Inspect and manage catalog episodes",
	}

	episodesCmd.AddCommand(newEpisodesListCommand(ctx))
	episodesCmd.AddCommand(newEpisodesScheduleCommand(ctx))
	episodesCmd.AddCommand(newEpisodesUnscheduleCommand(ctx))
	episodesCmd.AddCommand(newEpisodesPublishCommand(ctx))
	episodesCmd.AddCommand(newEpisodesArchiveCommand(ctx))

	return episodesCmd
}

func newEpisodesListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			episodes, err := fetchEpisodes(ctx, cmd, listStatuses)
			if err != nil {
				return err
			}
			if len(episodes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No episodes found")
				return nil
			}
			table := renderTable(
				[]string{"ID", "Episode", "Title", "Status", "Paid", "Publish At"},
				buildEpisodeRows(episodes),
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprint(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by episode status (repeatable)")
	return cmd
}

// fetchEpisodes prefers the daemon so listings reflect in-flight passes, and
// falls back to direct catalog access when the daemon is offline.
func fetchEpisodes(ctx *commandContext, cmd *cobra.Command, statuses []string) ([]ipc.Episode, error) {
	client, dialErr := ctx.dialClient()
	if dialErr == nil {
		defer client.Close()
		resp, err := client.EpisodeList(statuses)
		if err != nil {
			return nil, err
		}
		return resp.Episodes, nil
	}

	cfg := ctx.configValue()
	if cfg == nil {
		return nil, dialErr
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	parsed := make([]catalog.Status, 0, len(statuses))
	for _, value := range statuses {
		status, ok := catalog.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		parsed = append(parsed, status)
	}
	episodes, err := store.ListEpisodes(cmd.Context(), parsed...)
	if err != nil {
		return nil, err
	}
	dtos := make([]ipc.Episode, 0, len(episodes))
	for _, episode := range episodes {
		if episode == nil {
			continue
		}
		dtos = append(dtos, ipc.FromEpisode(episode))
	}
	return dtos, nil
}

func buildEpisodeRows(episodes []ipc.Episode) [][]string {
	rows := make([][]string, 0, len(episodes))
	for _, episode := range episodes {
		publishAt := episode.PublishAt
		if publishAt == "" {
			publishAt = "-"
		}
		rows = append(rows, []string{
			shortID(episode.ID),
			fmt.Sprintf("E%02d", episode.EpisodeNumber),
			episode.Title,
			episode.Status,
			yesNo(episode.IsPaid),
			publishAt,
		})
	}
	return rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newEpisodesScheduleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <episode-id> <publish-at>",
		Short: "Schedule an episode for future publication",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			publishAt, err := parsePublishTime(args[1])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Schedule(args[0], publishAt)
				if err != nil {
					return err
				}
				if resp == nil || !resp.Scheduled {
					return errors.New("schedule request was not applied")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Episode scheduled for %s\n", publishAt.UTC().Format(time.RFC3339))
				return nil
			})
		},
	}
}

// parsePublishTime accepts RFC 3339 or a local "2006-01-02 15:04" timestamp.
func parsePublishTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	if ts, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("parse publish time %q: use RFC 3339 or \"YYYY-MM-DD HH:MM\"", value)
}

func newEpisodesUnscheduleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unschedule <episode-id>",
		Short: "Return a scheduled episode to draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Unschedule(args[0])
				if err != nil {
					return err
				}
				if resp == nil || !resp.Unscheduled {
					return errors.New("unschedule request was not applied")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Episode returned to draft")
				return nil
			})
		},
	}
}

func newEpisodesPublishCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <episode-id>",
		Short: "Publish an episode immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Publish(args[0])
				if err != nil {
					return err
				}
				if resp == nil || !resp.Published {
					return errors.New("publish request was not applied")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Episode published")
				return nil
			})
		},
	}
}

func newEpisodesArchiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <episode-id>",
		Short: "Retire an episode from the catalog surface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Archive(args[0])
				if err != nil {
					return err
				}
				if resp == nil || !resp.Archived {
					return errors.New("archive request was not applied")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Episode archived")
				return nil
			})
		},
	}
}

func newRunPassCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run-pass",
		Short: "Trigger an immediate publication pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RunPass()
				if err != nil {
					return err
				}
				pass := resp.Pass
				fmt.Fprintf(cmd.OutOrStdout(),
					"Pass %s complete: %d due, %d published, %d skipped, %d failed (%dms)\n",
					shortID(pass.PassID), pass.Due, pass.Published, pass.Skipped, pass.Failed, pass.DurationMS)
				return nil
			})
		},
	}
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the catalog with demo content",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Seed()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Seeded %d series, %d seasons, %d episodes\n",
					resp.Series, resp.Seasons, resp.Episodes)
				return nil
			})
		},
	}
}
