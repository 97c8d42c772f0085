// Command missedcalls publishes missed Aircall calls to a Google Sheets dashboard.
package main

import (
	"os"

	"github.com/custodia-labs/missedcalls/internal/adapters/driving/cli"
	"github.com/custodia-labs/missedcalls/internal/app"
)

// version is set at build time via -ldflags "-X main.version=...".
var version string

func main() {
	cli.SetVersion(version)
	cli.SetFactory(app.New())

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
