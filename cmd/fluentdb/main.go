/*
 * Copyright © 2026 Musing Studio LLC.
 *
 * This file is part of WriteFreely.
 *
 * WriteFreely is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License, included
 * in the LICENSE file in this source code package.
 */

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/writeas/web-core/log"
	"github.com/writefreely/fluentdb"
	"github.com/writefreely/fluentdb/config"
	"github.com/writefreely/fluentdb/driver"
	qlog "github.com/writefreely/fluentdb/modules/log"
)

// Version is set at build time.
var Version = "dev"

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("%s\n", c.App.Version)
	}
	app := &cli.App{
		Name:    "fluentdb",
		Usage:   "Build and run SQL queries against a configured database",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "c",
				Value: "config.ini",
				Usage: "Load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Value: false,
				Usage: "Enables debug logging",
			},
		},
	}

	app.Commands = []*cli.Command{
		&cmdQuery,
		&cmdSelect,
		&cmdUpdate,
		&cmdDelete,
		&cmdConfig,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

// connect opens the database named by the config file, with FLUENTDB_DSN or
// DATABASE_URL taking precedence.
func connect(c *cli.Context) (*fluentdb.DB, *driver.SQLConn, error) {
	cfg, err := config.Load(c.String("c"))
	if err != nil {
		if c.IsSet("c") {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		cfg = config.New()
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, nil, fmt.Errorf("read env: %w", err)
	}

	driverName, err := cfg.Database.DriverName()
	if err != nil {
		return nil, nil, err
	}
	dsn, err := cfg.Database.DataSourceName()
	if err != nil {
		return nil, nil, err
	}
	conn, err := driver.Open(context.Background(), driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", cfg.Database.Type, err)
	}

	var logger fluentdb.Logger
	if cfg.Log.Queries || c.Bool("debug") {
		logger = &qlog.QueryLogger{
			SlowThreshold: cfg.Log.SlowThreshold(),
			Params:        cfg.Log.Params || c.Bool("debug"),
		}
	}
	return fluentdb.New(conn, logger), conn, nil
}
