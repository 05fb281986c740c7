package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"airdate/internal/catalog"
	"airdate/internal/daemonctl"
	"airdate/internal/preflight"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the airdate daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx),
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.Launched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintln(stdout, "Daemon started")
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon already running")
			case daemonctl.StartStateRequested:
				if strings.TrimSpace(result.Message) != "" {
					fmt.Fprintln(stdout, result.Message)
					return nil
				}
				fmt.Fprintln(stdout, "Start request sent")
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the airdate daemon (completely terminates the process)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(ctx.socketPath(), ctx.configValue(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.StopAcknowledged {
				fmt.Fprintln(stdout, "Stop request sent")
			} else {
				fmt.Fprintln(stdout, "Stopping publishing loop...")
			}
			if result.ForcedKill && result.PID > 0 {
				fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the airdate daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.Restart(
				ctx.socketPath(),
				ctx.configValue(),
				exe,
				daemonLaunchOptions(ctx),
				5*time.Second,
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.WasRunning {
				if result.Stop.ForcedKill && result.Stop.PID > 0 {
					fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.Stop.PID)
				}
				fmt.Fprintln(stdout, "Daemon stopped")
			}

			switch result.Start.State {
			case daemonctl.StartStateStarted, daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon restarted")
			case daemonctl.StartStateRequested:
				if strings.TrimSpace(result.Start.Message) != "" {
					fmt.Fprintln(stdout, result.Start.Message)
					return nil
				}
				fmt.Fprintln(stdout, "Start request sent")
			}
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and catalog status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			statusResp, err := daemonctl.BuildStatusSnapshot(cmd.Context(), ctx.socketPath(), cfg)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("System Status", colorize) {
				fmt.Fprintln(stdout, line)
			}
			if statusResp.Running {
				fmt.Fprintln(stdout, renderStatusLine("Airdate", statusOK, "Running", colorize))
			} else {
				fmt.Fprintln(stdout, renderStatusLine("Airdate", statusWarn, "Not running (run `airdate start`)", colorize))
			}

			probe := preflight.ProbeDatabase(cfg)
			if probe.Exists {
				fmt.Fprintln(stdout, renderStatusLine("Catalog DB", statusOK, probe.DatabaseDetail(), colorize))
			} else {
				fmt.Fprintln(stdout, renderStatusLine("Catalog DB", statusInfo, probe.DatabaseDetail(), colorize))
			}

			ntfy := preflight.CheckNtfyFromConfig(cfg)
			switch {
			case ntfy.Passed && strings.EqualFold(strings.TrimSpace(ntfy.Detail), "Disabled"):
				fmt.Fprintln(stdout, renderStatusLine("Notifications", statusInfo, ntfy.Detail, colorize))
			case ntfy.Passed:
				fmt.Fprintln(stdout, renderStatusLine("Notifications", statusOK, ntfy.Detail, colorize))
			default:
				fmt.Fprintln(stdout, renderStatusLine("Notifications", statusWarn, ntfy.Detail, colorize))
			}

			if statusResp.LastError != "" {
				fmt.Fprintln(stdout, renderStatusLine("Last Error", statusError, statusResp.LastError, colorize))
			}
			if statusResp.LastPass != nil {
				detail := fmt.Sprintf("%s: %d published, %d skipped, %d failed",
					statusResp.LastPass.StartedAt,
					statusResp.LastPass.Published,
					statusResp.LastPass.Skipped,
					statusResp.LastPass.Failed)
				fmt.Fprintln(stdout, renderStatusLine("Last Pass", statusInfo, detail, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Catalog Status", colorize) {
				fmt.Fprintln(stdout, line)
			}
			rows := buildStatusRows(statusResp.EpisodeStats, statusResp.SeriesStats)
			if len(rows) == 0 {
				fmt.Fprintln(stdout, "Catalog is empty")
				return nil
			}
			table := renderTable([]string{"Status", "Episodes", "Series"}, rows, []columnAlignment{alignLeft, alignRight, alignRight})
			fmt.Fprint(stdout, table)
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

// buildStatusRows merges episode and series counts into one row per status,
// in lifecycle order.
func buildStatusRows(episodes, series map[string]int) [][]string {
	known := []catalog.Status{
		catalog.StatusDraft,
		catalog.StatusScheduled,
		catalog.StatusPublished,
		catalog.StatusArchived,
	}
	seen := make(map[string]bool, len(known))
	rows := make([][]string, 0, len(known))
	for _, status := range known {
		key := string(status)
		seen[key] = true
		e := episodes[key]
		s := series[key]
		if e == 0 && s == 0 {
			continue
		}
		rows = append(rows, []string{key, strconv.Itoa(e), strconv.Itoa(s)})
	}

	extraSet := make(map[string]bool)
	for key := range episodes {
		if !seen[key] {
			extraSet[key] = true
		}
	}
	for key := range series {
		if !seen[key] {
			extraSet[key] = true
		}
	}
	extra := make([]string, 0, len(extraSet))
	for key := range extraSet {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		rows = append(rows, []string{key, strconv.Itoa(episodes[key]), strconv.Itoa(series[key])})
	}
	return rows
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}

func daemonLaunchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if ctx.socketFlag != nil {
		if socket := strings.TrimSpace(*ctx.socketFlag); socket != "" {
			opts.SocketPath = socket
		}
	}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			opts.ConfigPath = config
		}
	}
	return opts
}
