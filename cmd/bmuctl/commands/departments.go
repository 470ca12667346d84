package commands

import (
	"strconv"
	"strings"
	"time"

	"bmu-backend/lib/configutil/sqlitecfg"
	"bmu-backend/lib/scrapers/bmusite"
	"bmu-backend/lib/serviceutil"
	"bmu-backend/services/departments"
	departmentsdb "bmu-backend/services/departments/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var departmentsDb *string

func init() {
	departmentsDb = departmentsCmd.PersistentFlags().
		String("db", "departments.db", "The department lookup database.")
	departmentsCmd.AddCommand(departmentsListCmd)
	departmentsCmd.AddCommand(departmentsAddCmd)
	rootCmd.AddCommand(departmentsCmd)
}

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "Manages the department lookup table.",
}

func departmentsService() departments.Service {
	database, err := sqlitecfg.Struct{File: *departmentsDb}.OpenDB()
	if err != nil {
		serviceutil.Fatal("open departments db", err)
	}
	if _, err := database.Exec(departmentsdb.Schema); err != nil &&
		!strings.Contains(err.Error(), "already exists") {
		serviceutil.Fatal("apply departments schema", err)
	}

	site, err := bmusite.NewClient(bmusite.ClientOptions{
		Timeout: time.Second * 30,
	})
	if err != nil {
		serviceutil.Fatal("init bmusite client", err)
	}
	return departments.NewService(database, site)
}

var departmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the known departments.",
	Run: func(cmd *cobra.Command, args []string) {
		service := departmentsService()

		rows, err := service.List(cmd.Context())
		if err != nil {
			serviceutil.Fatal("list departments", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"BMU ID", "Name", "Short Name"})
		for _, department := range rows {
			t.AppendRow(table.Row{department.BmuId, department.Name, department.ShortName})
		}
		t.Render()
	},
}

var departmentsAddCmd = &cobra.Command{
	Use:   "add <bmu_id> <name> <short_name>",
	Short: "Adds or updates a department lookup row.",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		bmuId, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			serviceutil.Fatal("parse bmu_id", err)
		}

		service := departmentsService()
		err = service.Upsert(cmd.Context(), departments.Department{
			BmuId:     bmuId,
			Name:      args[1],
			ShortName: args[2],
		})
		if err != nil {
			serviceutil.Fatal("upsert department", err)
		}
	},
}
