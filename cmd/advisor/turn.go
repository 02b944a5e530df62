package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"robo-advisor/internal/common/errors"
	"robo-advisor/internal/dialog"
)

func newTurnCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "turn",
		Short: "Handle one Lex event read from a file or stdin and print the response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			turnID := uuid.NewString()

			raw, err := readInput(cmd, file)
			if err != nil {
				return fmt.Errorf("read event: %w", err)
			}

			req, err := dialog.DecodeIntentRequest(raw)
			if err != nil {
				stdErr := errors.NewErrorHandler(a.log).HandleTurnError(turnID, err)
				if a.recorder != nil {
					a.recorder.RecordFailure(string(stdErr.Code))
				}
				return stdErr
			}

			resp, err := a.handler.HandleTurn(dialog.WithTurnID(cmd.Context(), turnID), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "event file (default: stdin)")
	return cmd
}
