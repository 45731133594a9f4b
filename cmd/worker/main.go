// Command worker applies courier scan events from Kafka and publishes backlog metrics.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"delivery-tracker/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.NewWorkerRunner().MustRun(app.MustBuildWorkerContainer(ctx))
}
