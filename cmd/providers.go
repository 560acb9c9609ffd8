package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/drjarvisw-bit/usageclaw/config"
	"github.com/drjarvisw-bit/usageclaw/provider"
	"github.com/drjarvisw-bit/usageclaw/tui"
)

func ProvidersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List supported providers and their key status",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			keys, err := config.DefaultKeystore().All()
			if err != nil {
				return err
			}

			dim := lipgloss.NewStyle().Foreground(tui.ColorField)
			for _, d := range provider.NewRegistry().All() {
				status := dim.Render(string(d.Status))
				if d.Status == provider.StatusActive {
					if _, ok := keys[d.ID]; ok {
						status = lipgloss.NewStyle().Foreground(tui.ColorCyan).Render("connected")
					} else {
						status = dim.Render("no key")
					}
				}
				fmt.Printf("%s %-10s %-12s %s\n", d.Icon, d.ID, status, dim.Render(d.Description))
			}
			return nil
		},
	}
}
