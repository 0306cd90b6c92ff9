package main

import (
	"fmt"
	"os"

	"github.com/mwantia/goindex/cmd/goindex/cli"
	"github.com/mwantia/goindex/cmd/goindex/cli/client"
	"github.com/mwantia/goindex/cmd/goindex/cli/server"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	info := cli.VersionInfo{
		Version: version,
		Commit:  commit,
	}
	root := cli.NewRootCommand(info)

	root.AddCommand(cli.NewVersionCommand(info))

	root.AddCommand(client.NewScanCommand())
	root.AddCommand(client.NewLookupCommand())
	root.AddCommand(client.NewSearchCommand())
	root.AddCommand(client.NewDescribeCommand())
	root.AddCommand(client.NewTagCommand())
	root.AddCommand(client.NewRelationCommand())
	root.AddCommand(client.NewLinkCommand())
	root.AddCommand(client.NewImportCommand())
	root.AddCommand(client.NewAppCommand())
	root.AddCommand(client.NewAccountCommand())
	root.AddCommand(client.NewPageCommand())

	root.AddCommand(server.NewStatsCommand())
	root.AddCommand(server.NewBackupCommand())
	root.AddCommand(server.NewConfigCommand())

	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
