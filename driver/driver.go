/*
 * Copyright © 2026 Musing Studio LLC.
 *
 * This file is part of WriteFreely.
 *
 * WriteFreely is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License, included
 * in the LICENSE file in this source code package.
 */

// Package driver defines what fluentdb needs from a database connection, and
// provides an implementation on top of database/sql.
package driver

import (
	"context"
	"errors"
	"fmt"
)

// SQLSTATE values used when a driver doesn't report one of its own.
const (
	StateOK         = "00000"
	StateGeneral    = "HY000"
	StateConstraint = "23000"
)

var (
	ErrInTransaction = errors.New("transaction already in progress")
	ErrNoTransaction = errors.New("no transaction in progress")
	ErrNoRowCount    = errors.New("row count unavailable for row-returning statement")
	ErrNoInsert      = errors.New("no insert executed on this connection")
	ErrNotExecuted   = errors.New("statement not executed")
)

// FetchMode controls how Stmt.Fetch shapes a row.
type FetchMode int

const (
	// FetchNamed keys each value by column name and returns text columns as
	// strings.
	FetchNamed FetchMode = iota
	// FetchRaw keys each value by column name and keeps whatever the driver
	// returned, []byte included.
	FetchRaw
)

// Row is a single fetched row, keyed by column name.
type Row map[string]interface{}

// ErrorInfo is the diagnostic a driver reports for its last operation.
type ErrorInfo struct {
	SQLState string
	Code     int
	Message  string
}

// Failed reports whether the info describes an error.
func (i ErrorInfo) Failed() bool {
	return i.SQLState != "" && i.SQLState != StateOK
}

func (i ErrorInfo) String() string {
	return fmt.Sprintf("[%s] %s", i.SQLState, i.Message)
}

// DriverError is returned by Conn and Stmt implementations when the database
// reports a failure.
type DriverError struct {
	Info ErrorInfo
	Err  error
}

func (e *DriverError) Error() string {
	return e.Info.String()
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

// Conn is a single database connection with at most one transaction in
// flight.
type Conn interface {
	Prepare(ctx context.Context, query string) (Stmt, error)
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
	InTransaction() bool
	// LastInsertID returns the id generated by the most recent insert. name
	// is the sequence to read on databases that use them, and is ignored
	// otherwise.
	LastInsertID(name string) (int64, error)
}

// Stmt is a prepared statement. It can be executed any number of times; the
// cursor of the previous execution must be closed first.
type Stmt interface {
	SetFetchMode(mode FetchMode)
	Execute(ctx context.Context, args []interface{}) error
	// Columns lists the result columns of the last execution, in order.
	Columns() ([]string, error)
	// Fetch returns the next row of the last execution, or io.EOF when there
	// are no more rows.
	Fetch() (Row, error)
	// RowCount returns the number of rows affected by the last execution.
	RowCount() (int64, error)
	CloseCursor() error
	// ErrorInfo describes the outcome of the last execution.
	ErrorInfo() ErrorInfo
	Close() error
}
