package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Stakepoint"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Used for start service api, it main service included all apis.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database tables",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Used to create or update the database schema.`,
		},
	}

	s.app = app
}
