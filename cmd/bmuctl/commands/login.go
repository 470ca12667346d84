package commands

import (
	"time"

	"bmu-backend/lib/configutil"
	"bmu-backend/lib/scrapers/gnums"
	"bmu-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
	BaseUrl  string `json:"base_url"`
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// logs in with the credentials from config.json5 and returns both the
// client and the minted session
func portalSession(cmd *cobra.Command) (*gnums.Client, gnums.Session) {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	client, err := gnums.NewClient(gnums.ClientOptions{
		BaseUrl: cfg.BaseUrl,
		Timeout: time.Second * 30,
	})
	if err != nil {
		serviceutil.Fatal("init client", err)
	}

	session, err := client.Login(cmd.Context(), cfg.Username, cfg.Password)
	if err != nil {
		serviceutil.Fatal("login", err)
	}
	return client, session
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Logs in with the credentials from config.json5 and prints the session cookies.",
	Run: func(cmd *cobra.Command, args []string) {
		_, session := portalSession(cmd)

		t := newTable()
		t.AppendHeader(table.Row{"Cookie", "Value"})
		for name, value := range session {
			t.AppendRow(table.Row{name, value})
		}
		t.Render()
	},
}
