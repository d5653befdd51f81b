package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect stored leads",
}

// -- leads list --

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close() //nolint:errcheck

		leads, err := app.ListLeads.Execute(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "leads list")
		}

		status, _ := cmd.Flags().GetString("status")
		leads = filterByStatus(leads, entity.Status(status))

		if len(leads) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No leads found.")
			return nil
		}

		formatLeadsList(cmd.OutOrStdout(), leads)
		return nil
	},
}

// -- leads show --

var leadsShowCmd = &cobra.Command{
	Use:   "show <row>",
	Short: "Print one lead as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		row, err := strconv.Atoi(args[0])
		if err != nil {
			return eris.Errorf("row must be an integer, got %q", args[0])
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close() //nolint:errcheck

		lead, err := app.GetLead.Execute(cmd.Context(), row)
		if err != nil {
			return eris.Wrapf(err, "leads show %d", row)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(lead)
	},
}

func init() {
	leadsListCmd.Flags().String("status", "", "only leads in this status (nouveau, approuvé, rejeté)")
	leadsCmd.AddCommand(leadsListCmd, leadsShowCmd)
}

func filterByStatus(leads []*entity.Lead, status entity.Status) []*entity.Lead {
	if status == "" {
		return leads
	}
	out := leads[:0:0]
	for _, l := range leads {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out
}

func formatLeadsList(w io.Writer, leads []*entity.Lead) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tCREATED\tSTATUS\tNAME\tVILLE\tPRESTATION")
	for _, l := range leads {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			l.RowID, l.CreatedAt, l.Status, l.FullName(), l.Ville, entity.PrestationLabel(l.Prestation))
	}
	tw.Flush()
}
