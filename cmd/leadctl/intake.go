package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Manage submissions that could not be stored",
}

var intakeReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Drain the failed intake queue into the lead store once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Queue.URL == "" {
			return eris.New("intake replay: QUEUE_URL is not set")
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close() //nolint:errcheck

		replayer := app.Replayer()
		if replayer == nil {
			return eris.New("intake replay: rabbitmq unavailable")
		}

		res, err := replayer.Drain(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "replayed=%d discarded=%d\n", res.Replayed, res.Discarded)
		if err != nil {
			return eris.Wrap(err, "intake replay")
		}
		return nil
	},
}

func init() {
	intakeCmd.AddCommand(intakeReplayCmd)
}
