package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/drjarvisw-bit/usageclaw/config"
	"github.com/drjarvisw-bit/usageclaw/provider"
	"github.com/drjarvisw-bit/usageclaw/refresh"
	"github.com/drjarvisw-bit/usageclaw/tui"
	"github.com/drjarvisw-bit/usageclaw/usage"
)

func DashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Interactive usage dashboard for connected providers",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "refresh-interval",
				Usage: "Time between automatic refreshes",
			},
			demoFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, err := config.Load(config.DefaultSettingsPath())
			if err != nil {
				return err
			}
			interval := settings.RefreshInterval
			if v := cmd.Duration("refresh-interval"); v > 0 {
				interval = v
			}
			demo := cmd.Bool("demo") || settings.Demo

			reg := provider.NewRegistry()
			keys, err := config.DefaultKeystore().All()
			if err != nil {
				return err
			}

			var entries []dashboardEntry
			if demo {
				for _, d := range reg.Active() {
					entries = append(entries, dashboardEntry{
						desc:   d,
						poller: refresh.NewDemoPoller(d.ID, interval),
					})
				}
			} else {
				cache := usage.NewPersistentCacheStore()
				agg := usage.NewAggregator(reg, usage.NewFetchLog(usage.FetchLogCapacity))
				for _, d := range reg.Active() {
					key, ok := keys[d.ID]
					if !ok {
						continue
					}
					entries = append(entries, dashboardEntry{
						desc:   d,
						poller: refresh.NewPoller(d.ID, key, agg.Fetch, cache, interval),
					})
				}
			}
			if len(entries) == 0 {
				return fmt.Errorf("no API keys stored; run 'usageclaw keys set <provider> <key>' or try --demo")
			}

			pollCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			for _, e := range entries {
				e.poller.Start(pollCtx)
				defer e.poller.Stop()
			}

			mode := "live"
			if demo {
				mode = "demo"
			}
			header := &tui.HeaderInfo{ConfigDir: config.Dir(), Mode: mode}
			w := tui.NewWindow(header, newDashboardScreen(entries))
			p := tea.NewProgram(w, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("dashboard UI: %w", err)
			}
			return nil
		},
	}
}
