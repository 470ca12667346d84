package main

import (
	"context"

	"bmu-backend/lib/restyutil"
	"bmu-backend/lib/scrapers/bmusite"
	"bmu-backend/lib/scrapers/gnums"
	"bmu-backend/lib/serviceutil"
	"bmu-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	t, err := telemetry.SetupFromEnv(ctx, "server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		t.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)

	telemetry.InitSlog(verbose)
	if !verbose {
		return
	}

	gnums.SetRestyInstrumentOutput(
		restyutil.NewFilesystemOutput(".dev/resty_telemetry/gnums"),
	)
	bmusite.SetRestyInstrumentOutput(
		restyutil.NewFilesystemOutput(".dev/resty_telemetry/bmusite"),
	)
}
