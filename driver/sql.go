/*
 * Copyright © 2026 Musing Studio LLC.
 *
 * This file is part of WriteFreely.
 *
 * WriteFreely is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License, included
 * in the LICENSE file in this source code package.
 */

package driver

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"
	"github.com/writeas/web-core/log"
	"github.com/writefreely/fluentdb/db"
)

// SQLConn implements Conn on top of a single database/sql connection.
type SQLConn struct {
	db         *sql.DB // only set when the pool was opened by Open
	conn       *sql.Conn
	driverName string
	tx         *sql.Tx
	lastResult sql.Result
}

// Open opens a pool for driverName and reserves one connection from it. The
// returned SQLConn owns both; Close releases them.
func Open(ctx context.Context, driverName, dsn string) (*SQLConn, error) {
	pool, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(1)

	conn, err := pool.Conn(ctx)
	if err != nil {
		pool.Close()
		return nil, wrapErr(err)
	}
	c := NewSQLConn(conn, driverName)
	c.db = pool
	return c, nil
}

// NewSQLConn wraps a connection the caller keeps ownership of.
func NewSQLConn(conn *sql.Conn, driverName string) *SQLConn {
	return &SQLConn{conn: conn, driverName: driverName}
}

func (c *SQLConn) DriverName() string {
	return c.driverName
}

// Dialect returns the SQL dialect of the underlying driver, MySQL when the
// driver isn't known.
func (c *SQLConn) Dialect() db.DialectType {
	d, _ := db.DialectFor(c.driverName)
	return d
}

func (c *SQLConn) Prepare(ctx context.Context, query string) (Stmt, error) {
	stmt, err := c.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &sqlStmt{
		c:           c,
		stmt:        stmt,
		query:       query,
		returnsRows: returnsRows(query),
		info:        ErrorInfo{SQLState: StateOK},
	}, nil
}

func (c *SQLConn) Begin(ctx context.Context) error {
	if c.tx != nil {
		return ErrInTransaction
	}
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(err)
	}
	c.tx = tx
	return nil
}

func (c *SQLConn) Commit() error {
	if c.tx == nil {
		return ErrNoTransaction
	}
	err := c.tx.Commit()
	c.tx = nil
	return wrapErr(err)
}

func (c *SQLConn) Rollback() error {
	if c.tx == nil {
		return ErrNoTransaction
	}
	err := c.tx.Rollback()
	c.tx = nil
	return wrapErr(err)
}

func (c *SQLConn) InTransaction() bool {
	return c.tx != nil
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (c *SQLConn) LastInsertID(name string) (int64, error) {
	if name != "" {
		var q rowQueryer = c.conn
		if c.tx != nil {
			q = c.tx
		}
		var id int64
		if err := q.QueryRowContext(context.Background(), "SELECT currval($1)", name).Scan(&id); err != nil {
			return 0, wrapErr(err)
		}
		return id, nil
	}
	if c.lastResult == nil {
		return 0, ErrNoInsert
	}
	id, err := c.lastResult.LastInsertId()
	return id, wrapErr(err)
}

// Close rolls back any open transaction and releases the connection, and the
// pool if Open created it.
func (c *SQLConn) Close() error {
	var result error
	if c.tx != nil {
		log.Info("Rolling back open transaction on close")
		if err := c.tx.Rollback(); err != nil {
			result = multierror.Append(result, err)
		}
		c.tx = nil
	}
	if err := c.conn.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

type sqlStmt struct {
	c           *SQLConn
	stmt        *sql.Stmt
	query       string
	returnsRows bool
	mode        FetchMode

	// txStmt is stmt bound to txFor, reused while that transaction is open.
	txStmt *sql.Stmt
	txFor  *sql.Tx

	rows   *sql.Rows
	cols   []string
	result sql.Result
	info   ErrorInfo
}

func (s *sqlStmt) SetFetchMode(mode FetchMode) {
	s.mode = mode
}

func (s *sqlStmt) Execute(ctx context.Context, args []interface{}) error {
	if err := s.CloseCursor(); err != nil {
		log.Error("Closing previous cursor: %v", err)
	}
	s.result = nil

	stmt := s.stmt
	if s.c.tx != s.txFor {
		if err := s.closeTxStmt(); err != nil {
			log.Error("Closing transaction statement: %v", err)
		}
	}
	if s.c.tx != nil {
		if s.txStmt == nil {
			s.txStmt = s.c.tx.StmtContext(ctx, s.stmt)
			s.txFor = s.c.tx
		}
		stmt = s.txStmt
	}

	var err error
	if s.returnsRows {
		s.rows, err = stmt.QueryContext(ctx, args...)
	} else {
		s.result, err = stmt.ExecContext(ctx, args...)
	}
	if err != nil {
		err = wrapErr(err)
		s.info = InfoFor(err)
		return err
	}
	if s.result != nil {
		s.c.lastResult = s.result
	}
	s.info = ErrorInfo{SQLState: StateOK}
	return nil
}

func (s *sqlStmt) Columns() ([]string, error) {
	if s.rows == nil {
		if s.result != nil {
			return nil, nil
		}
		return nil, ErrNotExecuted
	}
	if s.cols == nil {
		cols, err := s.rows.Columns()
		if err != nil {
			return nil, wrapErr(err)
		}
		s.cols = cols
	}
	return s.cols, nil
}

func (s *sqlStmt) Fetch() (Row, error) {
	if s.rows == nil {
		return nil, io.EOF
	}
	cols, err := s.Columns()
	if err != nil {
		return nil, err
	}
	if !s.rows.Next() {
		err := s.rows.Err()
		s.CloseCursor()
		if err != nil {
			return nil, wrapErr(err)
		}
		return nil, io.EOF
	}

	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		return nil, wrapErr(err)
	}

	row := make(Row, len(cols))
	for i, col := range cols {
		v := vals[i]
		if b, ok := v.([]byte); ok && s.mode == FetchNamed {
			v = string(b)
		}
		row[col] = v
	}
	return row, nil
}

func (s *sqlStmt) RowCount() (int64, error) {
	if s.result == nil {
		if s.returnsRows {
			return 0, ErrNoRowCount
		}
		return 0, ErrNotExecuted
	}
	n, err := s.result.RowsAffected()
	return n, wrapErr(err)
}

func (s *sqlStmt) CloseCursor() error {
	if s.rows == nil {
		return nil
	}
	err := s.rows.Close()
	s.rows = nil
	s.cols = nil
	return wrapErr(err)
}

func (s *sqlStmt) ErrorInfo() ErrorInfo {
	return s.info
}

// closeTxStmt releases the transaction-bound copy of the statement. A
// transaction that already ended has closed it itself.
func (s *sqlStmt) closeTxStmt() error {
	if s.txStmt == nil {
		return nil
	}
	err := s.txStmt.Close()
	s.txStmt = nil
	s.txFor = nil
	return err
}

func (s *sqlStmt) Close() error {
	var result error
	if err := s.CloseCursor(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.closeTxStmt(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.stmt.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}

// rowKeywords are the leading keywords of statements that produce a result
// set.
var rowKeywords = map[string]bool{
	"SELECT":   true,
	"WITH":     true,
	"SHOW":     true,
	"PRAGMA":   true,
	"EXPLAIN":  true,
	"DESCRIBE": true,
	"DESC":     true,
	"VALUES":   true,
	"TABLE":    true,
}

// returnsRows decides between QueryContext and ExecContext for query.
func returnsRows(query string) bool {
	q := strings.TrimLeftFunc(query, func(r rune) bool {
		return unicode.IsSpace(r) || r == '('
	})
	end := strings.IndexFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if end == -1 {
		end = len(q)
	}
	if rowKeywords[strings.ToUpper(q[:end])] {
		return true
	}
	return strings.Contains(strings.ToUpper(query), " RETURNING ")
}
