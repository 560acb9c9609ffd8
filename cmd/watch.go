package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/drjarvisw-bit/usageclaw/config"
	"github.com/drjarvisw-bit/usageclaw/provider"
	"github.com/drjarvisw-bit/usageclaw/refresh"
	"github.com/drjarvisw-bit/usageclaw/usage"
)

func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Periodically refresh usage and update the terminal badge",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Time between refresh passes",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, err := config.Load(config.DefaultSettingsPath())
			if err != nil {
				return err
			}
			interval := settings.WatchInterval
			if v := cmd.Duration("interval"); v > 0 {
				interval = v
			}

			reg := provider.NewRegistry()
			cache := usage.NewPersistentCacheStore()
			agg := usage.NewAggregator(reg, usage.NewFetchLog(usage.FetchLogCapacity))

			w := refresh.NewWatcher(agg.Fetch, config.DefaultKeystore(), cache, &refresh.TitleNotifier{}, interval)
			w.Run(ctx)
			return nil
		},
	}
}
