package main

import (
	"flag"
	"os"

	"github.com/idilsaglam/taskdeck/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	endpoint := flag.String("endpoint", "", "override the configured API base URL")
	cfgPath := flag.String("config", "", "use an alternate config file")
	debug := flag.Bool("debug", false, "write a debug log to the working directory")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	code := cli.Run(flag.Args(), cli.Options{
		Endpoint: *endpoint,
		Config:   *cfgPath,
		Debug:    *debug,
	})
	os.Exit(code)
}
