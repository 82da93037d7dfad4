package main

import (
	"fmt"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	"github.com/meetup-tools/attendee-sync/internal/tokens"
)

func main() {
	app := &cli.App{
		Name:    "attendees",
		Usage:   "fetch event tickets from meetup.com and reconcile them against a roster export",
		Version: versioninfo.Short(),
		Commands: []*cli.Command{
			runReport,
			runAuthorize,
			runKeygen,
		},
	}

	app.RunAndExitOnError()
}

var storeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "tokens",
		Usage: "path to the token store (json file, or sqlite database with --token-store=sqlite)",
		Value: "tokens.json",
	},
	&cli.StringFlag{
		Name:  "token-store",
		Usage: "token store backend: file or sqlite",
		Value: "file",
	},
}

func newStore(cmd *cli.Context) (tokens.Store, error) {
	path := cmd.String("tokens")

	switch backend := cmd.String("token-store"); backend {
	case "file":
		return tokens.NewFileStore(path), nil
	case "sqlite":
		return tokens.NewDBStore(path)
	default:
		return nil, fmt.Errorf("unknown token store backend %q", backend)
	}
}
