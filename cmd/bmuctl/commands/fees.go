package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bmu-backend/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(feesCmd)
}

var feesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Prints the semester-wise fee history.",
	Run: func(cmd *cobra.Command, args []string) {
		client, session := portalSession(cmd)

		history, err := client.FetchFeeHistory(cmd.Context(), session)
		if err != nil {
			serviceutil.Fatal("fetch fee history", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{
			"Semester", "To Collect", "Paid", "Outstanding", "Late Fee",
		})
		for _, row := range history.FeeData.FeeDetails {
			t.AppendRow(table.Row{
				row.Semester,
				row.FeesToBeCollected,
				row.PaidAmount,
				row.OutstandingAmount,
				row.LateFeeOutstanding,
			})
		}
		t.Render()
	},
}
