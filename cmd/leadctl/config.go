package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or replace the client recipient list",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the client emails, one per line",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close() //nolint:errcheck

		emails, err := app.ClientEmails.Get(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "config get")
		}
		if len(emails) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No client email configured.")
			return nil
		}
		for _, e := range emails {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <email>...",
	Short: "Replace the client emails with the given list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close() //nolint:errcheck

		if err := app.ClientEmails.Save(cmd.Context(), args); err != nil {
			return eris.Wrap(err, "config set")
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d client email(s).\n", len(args))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
}
