package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/drjarvisw-bit/usageclaw/config"
	"github.com/drjarvisw-bit/usageclaw/provider"
	"github.com/drjarvisw-bit/usageclaw/tui"
)

func KeysCommand() *cli.Command {
	return &cli.Command{
		Name:            "keys",
		Usage:           "Manage stored provider API keys",
		HideHelpCommand: true,
		Commands: []*cli.Command{
			keysSetCommand(),
			keysRemoveCommand(),
			keysListCommand(),
		},
	}
}

func keysSetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store an API key for a provider",
		ArgsUsage: "<provider> <key>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("usage: usageclaw keys set <provider> <key>")
			}
			id, key := cmd.Args().Get(0), cmd.Args().Get(1)

			reg := provider.NewRegistry()
			desc, ok := reg.Get(id)
			if !ok {
				return fmt.Errorf("unknown provider: %s", id)
			}

			if err := config.DefaultKeystore().Set(id, key); err != nil {
				return err
			}
			tui.Status("Saved", "key for %s", desc.Name)
			return nil
		},
	}
}

func keysRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Delete the stored API key for a provider",
		ArgsUsage: "<provider>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("usage: usageclaw keys remove <provider>")
			}
			id := cmd.Args().Get(0)

			if err := config.DefaultKeystore().Delete(id); err != nil {
				return err
			}
			tui.Status("Removed", "key for %s", id)
			return nil
		},
	}
}

func keysListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored keys (masked)",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			keys, err := config.DefaultKeystore().All()
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Println("no keys stored")
				return nil
			}

			ids := make([]string, 0, len(keys))
			for id := range keys {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Printf("%-10s %s\n", id, maskKey(keys[id]))
			}
			return nil
		},
	}
}

// maskKey keeps a short recognizable prefix and suffix, hiding the rest.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
}
