package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subtitle2go/internal/jobs"
	"subtitle2go/internal/language"
	"subtitle2go/internal/textutil"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and manage recorded jobs",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsRemoveCommand(ctx))
	jobsCmd.AddCommand(newJobsClearCommand(ctx))
	jobsCmd.AddCommand(newJobsReapCommand(ctx))

	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(listStatuses)
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			items, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs recorded")
				return nil
			}
			table := renderTable(
				[]string{"ID", "Media", "Engine", "Status", "Stage", "Warnings", "Created"},
				buildJobListRows(items),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			)
			fmt.Fprint(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by status (pending, running, succeeded, failed, killed)")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			job, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, job)
			}
			out := cmd.OutOrStdout()
			for _, row := range buildJobDetailRows(job, time.Now()) {
				fmt.Fprintf(out, "%-10s %s\n", row[0]+":", row[1])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the job as JSON")
	return cmd
}

func newJobsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <job-id>...",
		Short: "Remove job records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var failed []string
			for _, id := range args {
				if err := store.Delete(cmd.Context(), strings.TrimSpace(id)); err != nil {
					if errors.Is(err, jobs.ErrNotFound) {
						fmt.Fprintf(out, "Job %s not found\n", id)
						failed = append(failed, id)
						continue
					}
					return err
				}
				fmt.Fprintf(out, "Removed job %s\n", id)
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d jobs not found", len(failed), len(args))
			}
			return nil
		},
	}
}

func newJobsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every finished job",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			removed, err := store.ClearFinished(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d %s\n", removed, textutil.Ternary(removed == 1, "job", "jobs"))
			return nil
		},
	}
}

func newJobsReapCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "reap",
		Short: "Mark jobs without recent progress as failed",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			marked, err := store.MarkAbandoned(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d abandoned %s as failed\n", marked, textutil.Ternary(marked == 1, "job", "jobs"))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 6*time.Hour, "Minimum time since the last progress update")
	return cmd
}

func parseStatuses(values []string) ([]jobs.Status, error) {
	var statuses []jobs.Status
	for _, value := range values {
		status := jobs.Status(strings.ToLower(strings.TrimSpace(value)))
		switch status {
		case jobs.StatusPending, jobs.StatusRunning, jobs.StatusSucceeded, jobs.StatusFailed, jobs.StatusKilled:
			statuses = append(statuses, status)
		default:
			return nil, fmt.Errorf("unknown job status %q", value)
		}
	}
	return statuses, nil
}

func buildJobListRows(items []*jobs.Job) [][]string {
	rows := make([][]string, 0, len(items))
	for _, job := range items {
		rows = append(rows, []string{
			job.ID,
			filepath.Base(job.MediaPath),
			job.Engine,
			string(job.Status),
			job.Stage,
			strconv.Itoa(job.Warnings),
			job.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func buildJobDetailRows(job *jobs.Job, now time.Time) [][]string {
	rows := [][]string{
		{"ID", job.ID},
		{"File ID", job.FileID},
		{"Media", job.MediaPath},
		{"Engine", job.Engine},
		{"Language", language.DisplayName(textutil.Ternary(job.Language == "", "auto", job.Language))},
		{"Format", job.Format},
		{"Status", string(job.Status)},
		{"Stage", job.Stage},
		{"Message", job.Message},
		{"Output", job.OutputPath},
		{"Warnings", strconv.Itoa(job.Warnings)},
		{"Created", job.CreatedAt.Local().Format(time.RFC3339)},
		{"Elapsed", job.Elapsed(now).Round(time.Second).String()},
		{"Finished", yesNo(job.FinishedAt != nil)},
	}
	if job.Error != "" {
		rows = append(rows, []string{"Error", job.Error})
	}
	return rows
}
