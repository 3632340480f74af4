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
	"context"
	"time"

	"github.com/writefreely/fluentdb/driver"
)

// Execute runs the query with its bound parameters and returns the statement
// handle to fetch results from. The statement is prepared on first use and
// reused by later calls until the query changes.
func (q *Query) Execute(ctx context.Context) (driver.Stmt, error) {
	return q.execute(ctx, q.params)
}

// ExecuteWith runs the query with params in place of the bound parameters.
// A nil params runs the statement without parameters; it does not fall back
// to the bound ones, use Execute for that.
func (q *Query) ExecuteWith(ctx context.Context, params []interface{}) (driver.Stmt, error) {
	if params == nil {
		params = []interface{}{}
	}
	return q.execute(ctx, params)
}

func (q *Query) execute(ctx context.Context, params []interface{}) (driver.Stmt, error) {
	if q.prepared == nil {
		sql, err := q.SQL()
		if err != nil {
			return nil, err
		}
		stmt, err := q.conn.Prepare(ctx, sql)
		if err != nil {
			return nil, newError(err, nil)
		}
		stmt.SetFetchMode(driver.FetchNamed)
		q.prepared = stmt
		q.preparedSQL = sql
	} else if err := q.prepared.CloseCursor(); err != nil {
		return nil, newError(err, q.prepared)
	}

	start := time.Now()
	err := q.prepared.Execute(ctx, params)
	took := time.Since(start)

	if q.logger != nil {
		q.logger.Log(q.preparedSQL, params, took, q.prepared)
	}
	if err != nil {
		return nil, newError(err, q.prepared)
	}
	return q.prepared, nil
}
