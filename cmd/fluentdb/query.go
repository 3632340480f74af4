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
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/urfave/cli/v2"
	"github.com/writefreely/fluentdb"
	"github.com/writefreely/fluentdb/db"
)

var (
	whereFlag = &cli.StringSliceFlag{
		Name:  "where",
		Usage: "Condition to filter on, may be repeated",
	}
	argFlag = &cli.StringSliceFlag{
		Name:  "arg",
		Usage: "Value bound to the next placeholder, may be repeated",
	}
	tableFlag = &cli.StringFlag{
		Name:     "table",
		Aliases:  []string{"t"},
		Usage:    "Table to run the query on",
		Required: true,
	}
	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of rows",
	}
	offsetFlag = &cli.IntFlag{
		Name:  "offset",
		Usage: "Number of rows to skip (requires --limit)",
	}
	joinFlag = &cli.StringSliceFlag{
		Name:  "join",
		Usage: "Join as \"KIND table ON condition\", e.g. \"LEFT posts p ON p.owner_id = u.id\"",
	}
	dryRunFlag = &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Print the query with its arguments instead of running it",
	}

	cmdQuery cli.Command = cli.Command{
		Name:      "query",
		Usage:     "Run a SQL statement",
		ArgsUsage: "SQL [ARG...]",
		Action:    queryAction,
		Flags:     []cli.Flag{dryRunFlag},
	}

	cmdSelect cli.Command = cli.Command{
		Name:   "select",
		Usage:  "Select rows from a table",
		Action: selectAction,
		Flags: []cli.Flag{
			tableFlag,
			&cli.StringSliceFlag{
				Name:  "field",
				Value: cli.NewStringSlice("*"),
				Usage: "Field to select, may be repeated",
			},
			joinFlag,
			whereFlag,
			&cli.StringSliceFlag{
				Name:  "group",
				Usage: "Field to group by, may be repeated",
			},
			&cli.StringSliceFlag{
				Name:  "order",
				Usage: "Sort as \"field [asc|desc]\", may be repeated",
			},
			limitFlag,
			offsetFlag,
			&cli.BoolFlag{
				Name:  "for-update",
				Usage: "Lock the selected rows",
			},
			argFlag,
			dryRunFlag,
		},
	}

	cmdUpdate cli.Command = cli.Command{
		Name:   "update",
		Usage:  "Update rows in a table",
		Action: updateAction,
		Flags: []cli.Flag{
			tableFlag,
			&cli.StringSliceFlag{
				Name:     "set",
				Usage:    "Assignment like \"name = ?\", may be repeated",
				Required: true,
			},
			whereFlag,
			&cli.StringSliceFlag{
				Name:  "order",
				Usage: "Sort as \"field [asc|desc]\", may be repeated",
			},
			limitFlag,
			argFlag,
			dryRunFlag,
		},
	}

	cmdDelete cli.Command = cli.Command{
		Name:   "delete",
		Usage:  "Delete rows from a table",
		Action: deleteAction,
		Flags: []cli.Flag{
			tableFlag,
			&cli.StringSliceFlag{
				Name:  "target",
				Usage: "Table to delete from when joining, may be repeated",
			},
			joinFlag,
			whereFlag,
			limitFlag,
			argFlag,
			dryRunFlag,
		},
	}
)

func queryAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no SQL given")
	}
	rest := c.Args().Tail()
	return run(c, func(q *fluentdb.Query) *fluentdb.Query {
		return q.Custom(c.Args().First(), stringArgs(rest)...)
	})
}

func selectAction(c *cli.Context) error {
	return run(c, func(q *fluentdb.Query) *fluentdb.Query {
		if c.Bool("for-update") {
			q.SelectForUpdate(c.StringSlice("field")...)
		} else {
			q.Select(c.StringSlice("field")...)
		}
		q.From(c.String("table"))
		applyJoins(q, c.StringSlice("join"))
		q.WhereAll(c.StringSlice("where"))
		for _, g := range c.StringSlice("group") {
			q.GroupBy(g)
		}
		applyOrder(q, c.StringSlice("order"))
		applyLimit(c, q)
		return q
	})
}

func updateAction(c *cli.Context) error {
	return run(c, func(q *fluentdb.Query) *fluentdb.Query {
		q.Update().Into(c.String("table"))
		q.SetAll(c.StringSlice("set"))
		q.WhereAll(c.StringSlice("where"))
		applyOrder(q, c.StringSlice("order"))
		applyLimit(c, q)
		return q
	})
}

func deleteAction(c *cli.Context) error {
	return run(c, func(q *fluentdb.Query) *fluentdb.Query {
		q.Delete(c.StringSlice("target")...).From(c.String("table"))
		applyJoins(q, c.StringSlice("join"))
		q.WhereAll(c.StringSlice("where"))
		applyLimit(c, q)
		return q
	})
}

// run builds a query with build, binds the --arg values and either prints it
// or executes it and prints the result.
func run(c *cli.Context, build func(q *fluentdb.Query) *fluentdb.Query) error {
	fdb, conn, err := connect(c)
	if err != nil {
		return err
	}
	defer conn.Close()

	q := build(fdb.NewQuery())
	if c.IsSet("arg") {
		q.WhereAll(nil, stringArgs(c.StringSlice("arg"))...)
	}
	if err := q.Err(); err != nil {
		return err
	}
	defer q.Close()

	if c.Bool("dry-run") {
		s, err := q.Interpolate()
		if err != nil {
			return err
		}
		fmt.Println(wordwrap.WrapString(s, 100))
		return nil
	}

	stmt, err := q.Execute(c.Context)
	if err != nil {
		return err
	}
	return printResult(os.Stdout, stmt)
}

func applyJoins(q *fluentdb.Query, joins []string) {
	for _, j := range joins {
		kind, table, on := parseJoin(j)
		q.Join(kind, table, on)
	}
}

func applyOrder(q *fluentdb.Query, orders []string) {
	for _, o := range orders {
		field, dir := parseOrder(o)
		q.OrderBy(field, dir)
	}
}

func applyLimit(c *cli.Context, q *fluentdb.Query) {
	if c.IsSet("limit") {
		q.Limit(c.Int("limit"), c.Int("offset"))
	}
}

// parseJoin splits "KIND table ON condition". A missing kind means INNER.
func parseJoin(s string) (db.JoinType, string, string) {
	kind := db.JoinInner
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i > 0 {
		if k := db.JoinType(strings.ToUpper(s[:i])); k.Valid() {
			kind = k
			s = strings.TrimSpace(s[i+1:])
		}
	}
	table, on := s, ""
	if i := strings.Index(strings.ToUpper(s), " ON "); i >= 0 {
		table, on = strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(" ON "):])
	}
	return kind, table, on
}

// parseOrder splits "field [direction]".
func parseOrder(s string) (string, string) {
	f := strings.Fields(s)
	switch len(f) {
	case 0:
		return "", ""
	case 1:
		return f[0], ""
	}
	return strings.Join(f[:len(f)-1], " "), f[len(f)-1]
}

func stringArgs(ss []string) []interface{} {
	args := make([]interface{}, len(ss))
	for i, s := range ss {
		args[i] = s
	}
	return args
}
