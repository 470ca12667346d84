package commands

import (
	"fmt"

	"bmu-backend/lib/serviceutil"
	"bmu-backend/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var timetableDate *string

func init() {
	timetableDate = timetableCmd.Flags().
		String("date", "", "The effective date (dd-mm-yyyy), defaults to today.")
	rootCmd.AddCommand(timetableCmd)
}

var timetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Prints the timetable grid for the logged in student.",
	Run: func(cmd *cobra.Command, args []string) {
		client, session := portalSession(cmd)

		date := *timetableDate
		if date == "" {
			date = timezone.FormatPortalDate(timezone.Now())
		}
		timetable, err := client.FetchTimetable(cmd.Context(), session, date)
		if err != nil {
			serviceutil.Fatal("fetch timetable", err)
		}

		fmt.Println(timetable.ClassInfo)
		t := newTable()
		t.AppendHeader(table.Row{"Time", "Day", "Subject", "Faculty", "Room", "Batch"})
		for _, slot := range timetable.Timetable {
			for _, day := range slot.Schedule {
				for _, lecture := range day.Lectures {
					t.AppendRow(table.Row{
						slot.TimeSlot, day.Day,
						lecture.Subject, lecture.Faculty, lecture.Room, lecture.Batch,
					})
				}
			}
		}
		t.Render()
	},
}
