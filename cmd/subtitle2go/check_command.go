package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"subtitle2go/internal/language"
	"subtitle2go/internal/preflight"
)

var errChecksFailed = errors.New("one or more checks failed")

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify programs, models and directories needed for transcription",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Engine", statusInfo, fmt.Sprintf("%s (%s)", cfg.Engine.Name, language.DisplayName(cfg.Engine.Language)), colorize))

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			if !cfg.Status.RecordJobs {
				fmt.Fprintln(out, renderStatusLine("Job registry", statusWarn, "disabled", colorize))
			}
			if len(preflight.Failed(results)) > 0 {
				return errChecksFailed
			}
			return nil
		},
	}
}
