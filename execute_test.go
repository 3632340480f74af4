package fluentdb

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/writefreely/fluentdb/driver"
)

type logEntry struct {
	query  string
	params []interface{}
	stmt   driver.Stmt
}

func recordingLogger(entries *[]logEntry) Logger {
	return LoggerFunc(func(query string, params []interface{}, took time.Duration, stmt driver.Stmt) {
		*entries = append(*entries, logEntry{query, params, stmt})
	})
}

func TestQuery_Execute(t *testing.T) {
	ctx := context.Background()
	var logged []logEntry
	conn := &fakeConn{rows: []driver.Row{{"id": int64(1), "name": "alice"}}}
	q := New(conn, recordingLogger(&logged)).NewQuery().
		Select("id", "name").From("users").Where("status = ?", "active")

	stmt, err := q.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT id, name FROM users WHERE status = ?"}, conn.prepared)

	fs := stmt.(*fakeStmt)
	assert.Equal(t, driver.FetchNamed, fs.mode)
	assert.Equal(t, [][]interface{}{{"active"}}, fs.executions)
	assert.Equal(t, 0, fs.cursorCloses)

	row, err := stmt.Fetch()
	require.NoError(t, err)
	assert.Equal(t, "alice", row["name"])
	_, err = stmt.Fetch()
	assert.Equal(t, io.EOF, err)

	// Running again reuses the prepared statement.
	again, err := q.Execute(ctx)
	require.NoError(t, err)
	assert.Same(t, fs, again)
	assert.Len(t, conn.prepared, 1)
	assert.Equal(t, 1, fs.cursorCloses)

	require.Len(t, logged, 2)
	assert.Equal(t, "SELECT id, name FROM users WHERE status = ?", logged[0].query)
	assert.Equal(t, []interface{}{"active"}, logged[0].params)
	assert.Same(t, fs, logged[1].stmt)
}

func TestQuery_ExecuteWith(t *testing.T) {
	ctx := context.Background()
	conn := &fakeConn{}
	q := New(conn, nil).NewQuery().Insert().Into("users").Set("name = ?", "alice")

	stmt, err := q.ExecuteWith(ctx, []interface{}{"bob"})
	require.NoError(t, err)
	stmt, err = q.ExecuteWith(ctx, nil)
	require.NoError(t, err)
	_, err = q.Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, [][]interface{}{{"bob"}, {}, {"alice"}}, stmt.(*fakeStmt).executions)
	assert.Len(t, conn.prepared, 1)
	assert.Equal(t, []interface{}{"alice"}, q.Params())
}

func TestQuery_MutationInvalidatesPrepared(t *testing.T) {
	ctx := context.Background()
	conn := &fakeConn{}
	q := New(conn, nil).NewQuery().Select("*").From("users")

	_, err := q.Execute(ctx)
	require.NoError(t, err)

	q.OrderBy("id", "desc")
	assert.True(t, conn.stmts[0].closed)

	_, err = q.Execute(ctx)
	require.NoError(t, err)
	q.GroupBy("status")
	assert.True(t, conn.stmts[1].closed)

	_, err = q.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SELECT * FROM users",
		"SELECT * FROM users ORDER BY id DESC",
		"SELECT * FROM users GROUP BY status ORDER BY id DESC",
	}, conn.prepared)

	require.NoError(t, q.Close())
	assert.True(t, conn.stmts[2].closed)
	assert.NoError(t, q.Close())
}

func TestQuery_ExecuteFailure(t *testing.T) {
	ctx := context.Background()
	var logged []logEntry
	cause := errors.New("Duplicate entry 'alice' for key 'name'")
	conn := &fakeConn{execErr: cause}
	q := New(conn, recordingLogger(&logged)).NewQuery().Insert().Into("users").Set("name = ?", "alice")

	stmt, err := q.Execute(ctx)
	assert.Nil(t, stmt)

	var qErr *Error
	require.ErrorAs(t, err, &qErr)
	assert.Equal(t, "[23000] Duplicate entry 'alice' for key 'name'", qErr.Error())
	assert.Same(t, conn.stmts[0], qErr.Stmt)
	assert.ErrorIs(t, err, cause)

	// Failed executions are logged too.
	require.Len(t, logged, 1)
	assert.Same(t, conn.stmts[0], logged[0].stmt)
}

func TestQuery_PrepareFailure(t *testing.T) {
	ctx := context.Background()
	var logged []logEntry
	conn := &fakeConn{prepareErr: errors.New("no such table")}
	q := New(conn, recordingLogger(&logged)).NewQuery().Select("*").From("nope")

	_, err := q.Execute(ctx)
	var qErr *Error
	require.ErrorAs(t, err, &qErr)
	assert.Equal(t, "[42S02] no such table", qErr.Message)
	assert.Nil(t, qErr.Stmt)
	assert.Empty(t, logged)

	// Nothing was cached, so the next run prepares again.
	conn.prepareErr = nil
	_, err = q.Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, conn.prepared, 1)
}

func TestQuery_ExecuteConfigurationError(t *testing.T) {
	ctx := context.Background()
	conn := &fakeConn{}

	q := New(conn, nil).NewQuery().Insert().From("users")
	_, err := q.Execute(ctx)
	assert.ErrorIs(t, err, ErrFromNotAllowed)

	q = New(conn, nil).NewQuery()
	_, err = q.ExecuteWith(ctx, []interface{}{1})
	assert.ErrorIs(t, err, ErrQueryTypeNotSet)

	assert.Empty(t, conn.prepared)
}
