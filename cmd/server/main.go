// Command server runs the Datalyn HTTP API together with its gRPC health
// endpoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/datalyn/internal/server"
	"github.com/dmitrijs2005/datalyn/internal/server/config"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "datalyn: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadConfig(args, os.Getenv)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Run(ctx)
	return nil
}
