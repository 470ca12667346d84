package main

import (
	"context"

	"bmu-backend/cmd/bmuctl/commands"
	"bmu-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "bmuctl")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
