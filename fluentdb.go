/*
 * Copyright © 2026 Musing Studio LLC.
 *
 * This file is part of WriteFreely.
 *
 * WriteFreely is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License, included
 * in the LICENSE file in this source code package.
 */

// Package fluentdb is a fluent SQL query builder on top of a driver.Conn.
//
// Queries are started from a DB, built up clause by clause and executed
// through the driver:
//
//	conn, err := driver.Open(ctx, "mysql", dsn)
//	...
//	fdb := fluentdb.New(conn, nil)
//	stmt, err := fdb.NewQuery().
//		Select("id", "name").
//		From("users").
//		Where("status = ?", "active").
//		OrderBy("name", "asc").
//		Limit(10, 0).
//		Execute(ctx)
//
// Clauses are raw SQL fragments. Nothing is quoted or validated beyond
// checking that a clause makes sense for the type of query being built.
package fluentdb

import (
	"context"

	"github.com/writefreely/fluentdb/db"
	"github.com/writefreely/fluentdb/driver"
)

// DB holds a driver connection and an optional Logger. It doesn't own the
// connection.
type DB struct {
	conn   driver.Conn
	logger Logger
}

// New returns a DB using conn. logger may be nil.
func New(conn driver.Conn, logger Logger) *DB {
	return &DB{conn: conn, logger: logger}
}

// InTransaction reports whether a transaction is open on the connection.
func (d *DB) InTransaction() bool {
	return d.conn.InTransaction()
}

func (d *DB) Begin(ctx context.Context) error {
	return d.conn.Begin(ctx)
}

func (d *DB) Commit() error {
	return d.conn.Commit()
}

func (d *DB) Rollback() error {
	return d.conn.Rollback()
}

// NewQuery starts a new query on this DB's connection.
func (d *DB) NewQuery() *Query {
	return &Query{
		conn:   d.conn,
		logger: d.logger,
		b:      *d.dialect().Query(),
	}
}

// LastInsertedID returns the id generated by the last insert, as reported by
// the driver. name is the sequence to read on databases that need one.
func (d *DB) LastInsertedID(name string) (int64, error) {
	return d.conn.LastInsertID(name)
}

// RunTransaction runs work inside a transaction, committing when it returns
// nil and rolling back otherwise.
func (d *DB) RunTransaction(ctx context.Context, work func(ctx context.Context, tx *DB) error) error {
	return db.RunTransaction(ctx, d.conn, func(ctx context.Context) error {
		return work(ctx, d)
	})
}

type dialecter interface {
	Dialect() db.DialectType
}

func (d *DB) dialect() db.DialectType {
	if dc, ok := d.conn.(dialecter); ok {
		return dc.Dialect()
	}
	return db.DialectMySQL
}
