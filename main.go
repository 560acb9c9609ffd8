package main

import (
	"context"
	"os"

	"github.com/drjarvisw-bit/usageclaw/cmd"
	"github.com/drjarvisw-bit/usageclaw/tui"
)

func main() {
	app := cmd.RootCommand()

	if err := app.Run(context.Background(), os.Args); err != nil {
		tui.Error("%v", err)
		os.Exit(1)
	}
}
