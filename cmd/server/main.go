package main

import (
	"flag"
	"strings"
	"time"

	"bmu-backend/internal/api"
	"bmu-backend/lib/configutil"
	"bmu-backend/lib/configutil/sqlitecfg"
	"bmu-backend/lib/scrapers/bmusite"
	"bmu-backend/lib/scrapers/gnums"
	"bmu-backend/lib/serviceutil"
	"bmu-backend/services/auth"
	authdb "bmu-backend/services/auth/db"
	"bmu-backend/services/departments"
	departmentsdb "bmu-backend/services/departments/db"
	"bmu-backend/services/student"
)

type PortalConfig struct {
	BaseUrl        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type Config struct {
	Port int `json:"port"`
	// "production" enables the keep-alive self ping
	AppEnv        string           `json:"app_env"`
	ExternalUrl   string           `json:"external_url"`
	Gnums         PortalConfig     `json:"gnums"`
	Bmusite       PortalConfig     `json:"bmusite"`
	AuthDb        sqlitecfg.Struct `json:"auth_db"`
	DepartmentsDb sqlitecfg.Struct `json:"departments_db"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}

	authDatabase, err := cfg.AuthDb.OpenDB()
	if err != nil {
		serviceutil.Fatal("open auth db", err)
	}
	defer authDatabase.Close()
	if _, err := authDatabase.Exec(authdb.Schema); err != nil &&
		!strings.Contains(err.Error(), "already exists") {
		serviceutil.Fatal("apply auth schema", err)
	}

	departmentsDatabase, err := cfg.DepartmentsDb.OpenDB()
	if err != nil {
		serviceutil.Fatal("open departments db", err)
	}
	defer departmentsDatabase.Close()
	if _, err := departmentsDatabase.Exec(departmentsdb.Schema); err != nil &&
		!strings.Contains(err.Error(), "already exists") {
		serviceutil.Fatal("apply departments schema", err)
	}

	portal, err := gnums.NewClient(gnums.ClientOptions{
		BaseUrl: cfg.Gnums.BaseUrl,
		Timeout: time.Second * time.Duration(cfg.Gnums.TimeoutSeconds),
	})
	if err != nil {
		serviceutil.Fatal("init gnums client", err)
	}
	site, err := bmusite.NewClient(bmusite.ClientOptions{
		BaseUrl: cfg.Bmusite.BaseUrl,
		Timeout: time.Second * time.Duration(cfg.Bmusite.TimeoutSeconds),
	})
	if err != nil {
		serviceutil.Fatal("init bmusite client", err)
	}

	server := api.NewServer(
		auth.NewService(authDatabase, portal),
		student.NewService(portal),
		departments.NewService(departmentsDatabase, site),
		site,
	)

	if cfg.AppEnv == "production" {
		go keepAlive(ctx, cfg)
	}

	go serviceutil.StartHttpServer(cfg.Port, server.Router())
	<-ctx.Done()
}
