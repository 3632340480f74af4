package fluentdb

import (
	"context"
	"errors"
	"io"

	"github.com/writefreely/fluentdb/db"
	"github.com/writefreely/fluentdb/driver"
)

// fakeConn records what fluentdb asks of a connection.
type fakeConn struct {
	prepared   []string
	prepareErr error
	execErr    error
	rows       []driver.Row
	stmts      []*fakeStmt

	inTx       bool
	begins     int
	commits    int
	rollbacks  int
	beginErr   error
	lastID     int64
	lastIDName string
}

func (c *fakeConn) Dialect() db.DialectType {
	return db.DialectSQLite
}

func (c *fakeConn) Prepare(ctx context.Context, query string) (driver.Stmt, error) {
	if c.prepareErr != nil {
		return nil, &driver.DriverError{
			Info: driver.ErrorInfo{SQLState: "42S02", Message: "no such table"},
			Err:  c.prepareErr,
		}
	}
	c.prepared = append(c.prepared, query)
	s := &fakeStmt{conn: c, query: query}
	c.stmts = append(c.stmts, s)
	return s, nil
}

func (c *fakeConn) Begin(ctx context.Context) error {
	if c.beginErr != nil {
		return c.beginErr
	}
	if c.inTx {
		return driver.ErrInTransaction
	}
	c.begins++
	c.inTx = true
	return nil
}

func (c *fakeConn) Commit() error {
	if !c.inTx {
		return driver.ErrNoTransaction
	}
	c.commits++
	c.inTx = false
	return nil
}

func (c *fakeConn) Rollback() error {
	if !c.inTx {
		return driver.ErrNoTransaction
	}
	c.rollbacks++
	c.inTx = false
	return nil
}

func (c *fakeConn) InTransaction() bool {
	return c.inTx
}

func (c *fakeConn) LastInsertID(name string) (int64, error) {
	c.lastIDName = name
	if c.lastID == 0 {
		return 0, driver.ErrNoInsert
	}
	return c.lastID, nil
}

type fakeStmt struct {
	conn  *fakeConn
	query string

	mode         driver.FetchMode
	executions   [][]interface{}
	cursorCloses int
	closed       bool
	info         driver.ErrorInfo
	pos          int
}

func (s *fakeStmt) SetFetchMode(mode driver.FetchMode) {
	s.mode = mode
}

func (s *fakeStmt) Execute(ctx context.Context, args []interface{}) error {
	s.executions = append(s.executions, args)
	s.pos = 0
	if s.conn.execErr != nil {
		s.info = driver.ErrorInfo{SQLState: "23000", Code: 1062, Message: s.conn.execErr.Error()}
		return &driver.DriverError{Info: s.info, Err: s.conn.execErr}
	}
	s.info = driver.ErrorInfo{SQLState: driver.StateOK}
	return nil
}

func (s *fakeStmt) Columns() ([]string, error) {
	return nil, nil
}

func (s *fakeStmt) Fetch() (driver.Row, error) {
	if s.pos >= len(s.conn.rows) {
		return nil, io.EOF
	}
	s.pos++
	return s.conn.rows[s.pos-1], nil
}

func (s *fakeStmt) RowCount() (int64, error) {
	if len(s.executions) == 0 {
		return 0, driver.ErrNotExecuted
	}
	return int64(len(s.conn.rows)), nil
}

func (s *fakeStmt) CloseCursor() error {
	s.cursorCloses++
	return nil
}

func (s *fakeStmt) ErrorInfo() driver.ErrorInfo {
	return s.info
}

func (s *fakeStmt) Close() error {
	if s.closed {
		return errors.New("statement closed twice")
	}
	s.closed = true
	return nil
}
