package main

import (
	"context"

	"classfetch/cmd/classroom-cli/commands"
	"classfetch/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "classroom-cli")
	telemetry.InitSlog(false)
	commands.ExecuteContext(context.Background())
}
