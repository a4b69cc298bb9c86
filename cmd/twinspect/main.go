package main

import (
	"os"

	"github.com/twinspect/twinspect/internal/cli"
)

// @title twinspect API
// @version 1.0
// @description Digital twin bootstrap and monitoring dashboard API
// @host localhost:3900
// @BasePath /

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := cli.NewRootCmd(cli.BuildInfo{Version: version, Commit: commit, BuildTime: buildTime})
	cmd.SetArgs(args)
	return cmd.Execute()
}
