package cmd

import (
	"github.com/urfave/cli/v3"
)

var demoFlag = &cli.BoolFlag{
	Name:  "demo",
	Usage: "Serve generated demo data instead of calling provider APIs",
}

func RootCommand() *cli.Command {
	return &cli.Command{
		Name:            "usageclaw",
		Usage:           "Track API usage and spend across LLM providers",
		Description:     "Claw back your spend.",
		HideHelpCommand: true,
		DefaultCommand:  "dashboard",
		Commands: []*cli.Command{
			// Order matters here!
			DashboardCommand(),
			FetchCommand(),
			KeysCommand(),
			ProvidersCommand(),
			ServeCommand(),
			WatchCommand(),
		},
	}
}
