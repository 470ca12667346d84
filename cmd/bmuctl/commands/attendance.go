package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bmu-backend/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(attendanceCmd)
}

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Prints the attendance summary table.",
	Run: func(cmd *cobra.Command, args []string) {
		client, session := portalSession(cmd)

		attendance, err := client.FetchAttendance(cmd.Context(), session)
		if err != nil {
			serviceutil.Fatal("fetch attendance", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{
			"Sr", "Type", "Course", "Conducted", "Present", "Absent", "%",
		})
		for _, row := range attendance.Subjects {
			t.AppendRow(table.Row{
				row.SrNo,
				row.SlotType,
				row.Course,
				row.Conducted,
				row.Present,
				row.Absent,
				row.AttendancePercentage,
			})
		}
		t.Render()
	},
}
