package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "pricematrix",
		Usage:   "Resolve cloud price catalogs into labelled price matrices",
		Version: version,
		Commands: []*cli.Command{
			mapCommand(),
			setupCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
