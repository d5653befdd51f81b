package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Microsoft Advertising reports",
}

var reportConversionsCmd = &cobra.Command{
	Use:   "conversions",
	Short: "Request a daily conversion report and print its download URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fromRaw, _ := cmd.Flags().GetString("from")
		toRaw, _ := cmd.Flags().GetString("to")

		from, to, err := parseReportRange(fromRaw, toRaw, time.Now())
		if err != nil {
			return err
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close() //nolint:errcheck

		if !app.MSAds.Configured() {
			return eris.New("report conversions: MSADS_CLIENT_ID, MSADS_CLIENT_SECRET and MSADS_REFRESH_TOKEN are required")
		}

		id, err := app.MSAds.SubmitConversionReport(cmd.Context(), from, to)
		if err != nil {
			return eris.Wrap(err, "report conversions: submit")
		}
		log.Info().Str("report", id).Msg("report submitted, polling")

		status, err := app.MSAds.PollReport(cmd.Context(), id)
		if err != nil {
			return eris.Wrap(err, "report conversions: poll")
		}

		fmt.Fprintln(cmd.OutOrStdout(), status.DownloadURL)
		return nil
	},
}

func init() {
	reportConversionsCmd.Flags().String("from", "", "first day, YYYY-MM-DD (default: 30 days ago)")
	reportConversionsCmd.Flags().String("to", "", "last day, YYYY-MM-DD (default: today)")
	reportCmd.AddCommand(reportConversionsCmd)
}

// parseReportRange reads the --from/--to flags. Empty values default to the last 30 days.
func parseReportRange(fromRaw, toRaw string, now time.Time) (time.Time, time.Time, error) {
	to := now
	if toRaw != "" {
		t, err := time.Parse(time.DateOnly, toRaw)
		if err != nil {
			return time.Time{}, time.Time{}, eris.Wrapf(err, "invalid --to %q", toRaw)
		}
		to = t
	}

	from := to.AddDate(0, 0, -30)
	if fromRaw != "" {
		t, err := time.Parse(time.DateOnly, fromRaw)
		if err != nil {
			return time.Time{}, time.Time{}, eris.Wrapf(err, "invalid --from %q", fromRaw)
		}
		from = t
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, eris.Errorf("--to %s is before --from %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	return from, to, nil
}
