package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/drjarvisw-bit/usageclaw/config"
	"github.com/drjarvisw-bit/usageclaw/provider"
	"github.com/drjarvisw-bit/usageclaw/usage"
)

func FetchCommand() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch current usage once and print it",
		ArgsUsage: "[provider...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON lines instead of cards",
			},
			demoFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg := provider.NewRegistry()
			keys, err := config.DefaultKeystore().All()
			if err != nil {
				return err
			}

			ids := cmd.Args().Slice()
			if len(ids) == 0 {
				ids = connectedProviders(reg, keys, cmd.Bool("demo"))
			}
			if len(ids) == 0 {
				return fmt.Errorf("no API keys stored; run 'usageclaw keys set <provider> <key>' first")
			}

			cache := usage.NewPersistentCacheStore()
			agg := usage.NewAggregator(reg, usage.NewFetchLog(usage.FetchLogCapacity))

			for _, id := range ids {
				desc, ok := reg.Get(id)
				if !ok {
					return fmt.Errorf("unknown provider: %s", id)
				}

				result, err := fetchOne(ctx, agg, cache, id, keys[id], cmd.Bool("demo"))
				if cmd.Bool("json") {
					printJSONLine(id, result, err)
					continue
				}

				card := usageCard{desc: desc, result: result, fetchedAt: time.Now()}
				if err != nil {
					card.err = err.Error()
					card.fetchedAt = time.Time{}
				}
				fmt.Println(renderCard(card, false))
			}
			return nil
		},
	}
}

// connectedProviders returns the catalog ids that have a stored key, in
// catalog order. Demo mode connects every active provider.
func connectedProviders(reg *provider.Registry, keys map[string]string, demo bool) []string {
	var ids []string
	for _, d := range reg.Active() {
		if demo {
			ids = append(ids, d.ID)
			continue
		}
		if _, ok := keys[d.ID]; ok {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

func fetchOne(ctx context.Context, agg *usage.Aggregator, cache *usage.CacheStore, id, key string, demo bool) (*usage.Result, error) {
	if demo {
		return usage.DemoResult(id), nil
	}
	result, err := agg.Fetch(ctx, id, key)
	if err != nil {
		return nil, err
	}
	cache.Put(id, result)
	return result, nil
}

func printJSONLine(id string, result *usage.Result, err error) {
	line := map[string]any{"provider": id}
	if err != nil {
		line["error"] = err.Error()
	} else {
		line["data"] = result
	}
	json.NewEncoder(os.Stdout).Encode(line)
}
