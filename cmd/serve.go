package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/drjarvisw-bit/usageclaw/config"
	"github.com/drjarvisw-bit/usageclaw/usage"
)

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the usage relay HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, err := config.Load(config.DefaultSettingsPath())
			if err != nil {
				return err
			}
			addr := settings.Listen
			if v := cmd.String("listen"); v != "" {
				addr = v
			}

			return usage.NewServer(addr).Run(ctx)
		},
	}
}
