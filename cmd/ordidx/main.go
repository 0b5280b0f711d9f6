package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(-1)
	}
}

func newApp() *cli.App {
	app := &cli.App{
		Name:    "ordidx",
		Usage:   "ordered index structures: benchmark, inspect and check",
		Version: versioninfo.Short(),
		Flags:   logFlags,
		Before:  configLogger,
	}
	app.Commands = []*cli.Command{
		cmdBench,
		cmdDump,
		cmdTrie,
	}
	return app
}

func run(args []string) error {
	return newApp().Run(args)
}
