package cli

import (
	"context"

	"github.com/dmitrijs2005/datalyn/internal/client/client"
	"github.com/urfave/cli/v2"
)

func (a *App) healthCmd() *cli.Command {
	var withGRPC bool
	return &cli.Command{
		Name:  "health",
		Usage: "Check that the server and its database are reachable",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "grpc", Usage: "also query the gRPC health service", Destination: &withGRPC},
		},
		Action: func(c *cli.Context) error {
			if err := a.api.Health(c.Context); err != nil {
				return err
			}
			a.printf("http: ok\n")

			if !withGRPC {
				return nil
			}
			hc, err := client.NewHealthClient(a.config.GRPCAddr)
			if err != nil {
				return err
			}
			defer hc.Close()

			ctx, cancel := context.WithTimeout(c.Context, a.config.RequestTimeout)
			defer cancel()
			if err := hc.Ping(ctx, ""); err != nil {
				return err
			}
			a.printf("grpc: ok\n")
			return nil
		},
	}
}
