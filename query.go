/*
 * Copyright © 2026 Musing Studio LLC.
 *
 * This file is part of WriteFreely.
 *
 * WriteFreely is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License, included
 * in the LICENSE file in this source code package.
 */

package fluentdb

import (
	"fmt"
	"strings"

	"github.com/writefreely/fluentdb/db"
	"github.com/writefreely/fluentdb/driver"
	"github.com/writeas/web-core/log"
)

// Query builds a single statement and executes it through the connection it
// was created on. The first misuse of a builder method is kept as the query's
// error: every later builder call is ignored and SQL and Execute return it.
//
// A Query is not safe for concurrent use.
type Query struct {
	conn   driver.Conn
	logger Logger

	b      db.QuerySqlBuilder
	custom db.SqlBuilder
	params []interface{}
	err    error

	prepared    driver.Stmt
	preparedSQL string
}

// Custom makes this a query running sql verbatim.
func (q *Query) Custom(sql string, args ...interface{}) *Query {
	if !q.mutate() || !q.setType(db.QueryCustom) {
		return q
	}
	q.custom = nil
	q.b.Custom = sql
	q.params = append(q.params, args...)
	return q
}

// CustomBuilder makes this a query running whatever b renders.
func (q *Query) CustomBuilder(b db.SqlBuilder, args ...interface{}) *Query {
	if !q.mutate() || !q.setType(db.QueryCustom) {
		return q
	}
	q.custom = b
	q.params = append(q.params, args...)
	return q
}

func (q *Query) Select(fields ...string) *Query {
	return q.selectFields(false, fields)
}

// SelectForUpdate is Select with FOR UPDATE appended to the statement.
func (q *Query) SelectForUpdate(fields ...string) *Query {
	return q.selectFields(true, fields)
}

func (q *Query) selectFields(forUpdate bool, fields []string) *Query {
	if !q.mutate() || !q.setType(db.QuerySelect) {
		return q
	}
	q.b.Fields = append(q.b.Fields, fields...)
	q.b.ForUpdate = forUpdate
	return q
}

func (q *Query) Insert() *Query {
	if q.mutate() {
		q.setType(db.QueryInsert)
	}
	return q
}

func (q *Query) Replace() *Query {
	if q.mutate() {
		q.setType(db.QueryReplace)
	}
	return q
}

func (q *Query) Update() *Query {
	if q.mutate() {
		q.setType(db.QueryUpdate)
	}
	return q
}

// Delete makes this a delete query. tables are the targets of a multi-table
// delete and are usually left out; empty names are skipped.
func (q *Query) Delete(tables ...string) *Query {
	if !q.mutate() || !q.setType(db.QueryDelete) {
		return q
	}
	for _, t := range tables {
		if t != "" {
			q.b.Fields = append(q.b.Fields, t)
		}
	}
	return q
}

// From sets the table of a select or delete query.
func (q *Query) From(table string) *Query {
	if !q.mutate() || !q.allow(db.ClauseFrom, ErrFromNotAllowed) {
		return q
	}
	q.b.Table = table
	return q
}

// Into sets the table of an insert, replace or update query.
func (q *Query) Into(table string) *Query {
	if !q.mutate() || !q.allow(db.ClauseInto, ErrIntoNotAllowed) {
		return q
	}
	q.b.Table = table
	return q
}

// Where adds a condition. Conditions are joined with AND.
func (q *Query) Where(cond string, args ...interface{}) *Query {
	return q.WhereAll([]string{cond}, args...)
}

func (q *Query) WhereAll(conds []string, args ...interface{}) *Query {
	if !q.mutate() {
		return q
	}
	q.b.Where = append(q.b.Where, conds...)
	q.params = append(q.params, args...)
	return q
}

// Limit restricts the result to count rows starting at offset.
func (q *Query) Limit(count, offset int) *Query {
	if !q.mutate() {
		return q
	}
	q.b.Limit = &db.Limit{Offset: offset, Count: count}
	return q
}

func (q *Query) LeftJoin(table, on string) *Query {
	return q.Join(db.JoinLeft, table, on)
}

func (q *Query) RightJoin(table, on string) *Query {
	return q.Join(db.JoinRight, table, on)
}

func (q *Query) InnerJoin(table, on string) *Query {
	return q.Join(db.JoinInner, table, on)
}

func (q *Query) OuterJoin(table, on string) *Query {
	return q.Join(db.JoinOuter, table, on)
}

// Join adds a join of the given kind. Joins are rendered in the order they
// were added, except on update queries, which accept them but leave them out.
func (q *Query) Join(kind db.JoinType, table, on string) *Query {
	if !q.mutate() {
		return q
	}
	if !kind.Valid() {
		q.err = fmt.Errorf("%w: %q", ErrInvalidJoinType, string(kind))
		return q
	}
	if !q.allow(db.ClauseJoin, ErrJoinNotAllowed) {
		return q
	}
	q.b.Joins = append(q.b.Joins, db.Join{Type: kind, Table: table, On: on})
	return q
}

// Set adds an assignment, like "name = ?", to an insert or update query.
func (q *Query) Set(value string, args ...interface{}) *Query {
	return q.SetAll([]string{value}, args...)
}

func (q *Query) SetAll(values []string, args ...interface{}) *Query {
	if !q.mutate() || !q.allow(db.ClauseSet, ErrSetNotAllowed) {
		return q
	}
	q.b.Values = append(q.b.Values, values...)
	q.params = append(q.params, args...)
	return q
}

// OrderBy adds a sort field. direction is ASC or DESC in any case, and
// defaults to ASC when empty.
func (q *Query) OrderBy(field, direction string) *Query {
	if !q.mutate() {
		return q
	}
	dir := strings.ToUpper(direction)
	if dir == "" {
		dir = "ASC"
	}
	if dir != "ASC" && dir != "DESC" {
		q.err = fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
		return q
	}
	q.b.OrderBy = append(q.b.OrderBy, field+" "+dir)
	return q
}

func (q *Query) GroupBy(field string) *Query {
	if q.mutate() {
		q.b.GroupBy = append(q.b.GroupBy, field)
	}
	return q
}

// Type returns the type of query being built, db.QueryNone until one is
// chosen.
func (q *Query) Type() db.QueryType {
	return q.b.Type
}

// Params returns the bound parameters in the order they were given.
func (q *Query) Params() []interface{} {
	return q.params
}

// Err returns the first builder misuse, if any.
func (q *Query) Err() error {
	return q.err
}

// SQL renders the statement.
func (q *Query) SQL() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	if q.b.Type == db.QueryCustom && q.custom != nil {
		return q.custom.ToSQL()
	}
	return q.b.ToSQL()
}

func (q *Query) String() string {
	if q.err != nil {
		return "ERROR: " + q.err.Error()
	}
	s, err := q.SQL()
	if err != nil {
		return db.ErrorMarker
	}
	return s
}

// Interpolate renders the statement with its bound parameters inlined as
// literals. The result is for logs and dry runs; never execute it.
func (q *Query) Interpolate() (string, error) {
	s, err := q.SQL()
	if err != nil {
		return "", err
	}
	return db.Interpolate(q.b.Dialect, s, q.params)
}

// Close releases the prepared statement, if any. The query can still be
// executed afterwards; it will be prepared again.
func (q *Query) Close() error {
	if q.prepared == nil {
		return nil
	}
	err := q.prepared.Close()
	q.prepared = nil
	q.preparedSQL = ""
	return err
}

// mutate drops the prepared statement ahead of a change to the query and
// reports whether the change may go ahead.
func (q *Query) mutate() bool {
	if q.err != nil {
		return false
	}
	if err := q.Close(); err != nil {
		log.Error("Unable to close prepared statement: %v", err)
	}
	return true
}

func (q *Query) setType(t db.QueryType) bool {
	if q.b.Type != db.QueryNone && q.b.Type != t {
		q.err = fmt.Errorf("%w: %s after %s", ErrTypeConflict, t, q.b.Type)
		return false
	}
	q.b.Type = t
	return true
}

func (q *Query) allow(c db.Clause, notAllowed error) bool {
	if !q.b.Type.Allows(c) {
		q.err = fmt.Errorf("%w, not %s", notAllowed, q.b.Type)
		return false
	}
	return true
}
