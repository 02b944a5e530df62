package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"robo-advisor/internal/common/errors"
	"robo-advisor/internal/replay"
)

func newReplayCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script.yaml>...",
		Short: "Replay conversation scripts and check every response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := replay.NewRunner(a.handler, a.log, replay.Options{
				StopOnFailure: a.cfg.Replay.StopOnFailure,
			})
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				script, err := replay.LoadScript(path)
				if err != nil {
					return err
				}

				report, err := runner.Run(cmd.Context(), script)
				if err != nil {
					return err
				}

				status := "PASS"
				if !report.Passed() {
					status = "FAIL"
					failed++
				}
				fmt.Fprintf(out, "%s %s (%d turns)\n", status, script.Name, len(report.Turns))
				for _, turn := range report.Turns {
					for _, failure := range turn.Failures {
						fmt.Fprintf(out, "  turn %d: %s\n", turn.Index, failure)
					}
				}

				if err := report.Err(); err != nil {
					a.log.Warn("script failed", map[string]interface{}{
						"script":      script.Name,
						"failedTurns": report.FailedTurns(),
						"errorCode":   string(errors.ErrCodeExpectationMismatch),
					})
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d scripts failed", failed, len(args))
			}
			return nil
		},
	}
}
