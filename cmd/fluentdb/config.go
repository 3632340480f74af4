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
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/writeas/web-core/log"
	"github.com/writefreely/fluentdb/config"
)

var (
	cmdConfig cli.Command = cli.Command{
		Name:  "config",
		Usage: "config management tools",
		Subcommands: []*cli.Command{
			&cmdConfigGenerate,
			&cmdConfigInteractive,
		},
	}

	cmdConfigGenerate cli.Command = cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a basic configuration",
		Action:  genConfigAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Value: config.TypeMySQL,
				Usage: "Database type: mysql, postgres or sqlite3",
			},
		},
	}

	cmdConfigInteractive cli.Command = cli.Command{
		Name:   "start",
		Usage:  "Interactive configuration process",
		Action: interactiveConfigAction,
	}
)

func genConfigAction(c *cli.Context) error {
	fname := c.String("c")
	if _, err := os.Stat(fname); err == nil {
		return fmt.Errorf("%s already exists", fname)
	}

	cfg := config.New()
	switch c.String("type") {
	case config.TypeMySQL:
	case config.TypePostgres:
		cfg.UsePostgres(true)
	case config.TypeSQLite, "sqlite":
		cfg.UseSQLite(true)
	default:
		return fmt.Errorf("unsupported database type %q", c.String("type"))
	}

	log.Info("Creating configuration...")
	if err := config.Save(cfg, fname); err != nil {
		return err
	}
	log.Info("Done! Edit %s to set up your database connection.", fname)
	return nil
}

func interactiveConfigAction(c *cli.Context) error {
	_, err := config.Configure(c.String("c"))
	return err
}
