package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"airdate/internal/catalog"
	"airdate/internal/ipc"
)

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	seriesCmd := &cobra.Command{
		Use:   "series",
		Short: "Inspect catalog series",
	}

	seriesCmd.AddCommand(newSeriesListCommand(ctx))
	return seriesCmd
}

func newSeriesListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog series",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := fetchSeries(ctx, cmd, listStatuses)
			if err != nil {
				return err
			}
			if len(series) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No series found")
				return nil
			}
			table := renderTable(
				[]string{"ID", "Title", "Language", "Status", "Published At"},
				buildSeriesRows(series),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprint(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by series status (repeatable)")
	return cmd
}

func fetchSeries(ctx *commandContext, cmd *cobra.Command, statuses []string) ([]ipc.Series, error) {
	client, dialErr := ctx.dialClient()
	if dialErr == nil {
		defer client.Close()
		resp, err := client.SeriesList(statuses)
		if err != nil {
			return nil, err
		}
		return resp.Series, nil
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
	series, err := store.ListSeries(cmd.Context(), parsed...)
	if err != nil {
		return nil, err
	}
	dtos := make([]ipc.Series, 0, len(series))
	for _, entry := range series {
		if entry == nil {
			continue
		}
		dtos = append(dtos, ipc.FromSeries(entry))
	}
	return dtos, nil
}

func buildSeriesRows(series []ipc.Series) [][]string {
	rows := make([][]string, 0, len(series))
	for _, entry := range series {
		publishedAt := entry.PublishedAt
		if publishedAt == "" {
			publishedAt = "-"
		}
		rows = append(rows, []string{
			shortID(entry.ID),
			entry.Title,
			entry.Language,
			entry.Status,
			publishedAt,
		})
	}
	return rows
}
