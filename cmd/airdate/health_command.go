package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"airdate/internal/ipc"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show catalog database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				db, err := client.DatabaseHealth()
				if err != nil && (db == nil || db.Error == "") {
					return err
				}

				for _, line := range renderSectionHeader("Database Health", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Path", statusInfo, db.DBPath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Exists", boolKind(db.DatabaseExists), yesNo(db.DatabaseExists), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Readable", boolKind(db.DatabaseReadable), yesNo(db.DatabaseReadable), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Integrity", boolKind(db.IntegrityCheck), yesNo(db.IntegrityCheck), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Tables", statusInfo, fmt.Sprintf("%d present", len(db.TablesPresent)), colorize))
				if len(db.MissingTables) > 0 {
					fmt.Fprintln(stdout, renderStatusLine("Missing Tables", statusError, strings.Join(db.MissingTables, ", "), colorize))
				}
				fmt.Fprintln(stdout, renderStatusLine("Episodes", statusInfo, fmt.Sprintf("%d total", db.TotalEpisodes), colorize))
				if db.Error != "" {
					fmt.Fprintln(stdout, renderStatusLine("Error", statusError, db.Error, colorize))
				}

				summary, err := client.CatalogHealth()
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout)
				for _, line := range renderSectionHeader("Publication Health", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Scheduled", statusInfo, fmt.Sprintf("%d", summary.Scheduled), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Published", statusOK, fmt.Sprintf("%d", summary.Published), colorize))
				overdueKind := statusOK
				if summary.Overdue > 0 {
					overdueKind = statusWarn
				}
				fmt.Fprintln(stdout, renderStatusLine("Overdue", overdueKind, fmt.Sprintf("%d", summary.Overdue), colorize))
				return nil
			})
		},
	}
}

func boolKind(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusError
}
