package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"subtitle2go/internal/subtitles"
	"subtitle2go/internal/textutil"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate <subtitle-file>...",
		Short:       "Check rendered subtitle files for ordering problems",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			bad := 0
			for _, path := range args {
				issues := subtitles.ValidateFile(path)
				if len(issues) > 0 {
					bad++
					fmt.Fprintf(out, "%s: %d %s\n", path, len(issues), textutil.Ternary(len(issues) == 1, "issue", "issues"))
					for _, issue := range issues {
						fmt.Fprintf(out, "  - %s\n", issue)
					}
					continue
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				cues, err := subtitles.ParseCues(string(data))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: ok (%d cues)\n", path, len(cues))
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d files failed validation", bad, len(args))
			}
			return nil
		},
	}
}
