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
	"errors"

	"github.com/writefreely/fluentdb/db"
	"github.com/writefreely/fluentdb/driver"
)

// Configuration errors, reported by the builder call that misuses it.
var (
	ErrTypeConflict     = errors.New("query already started with another type")
	ErrFromNotAllowed   = errors.New("from only allowed for select/delete queries")
	ErrIntoNotAllowed   = errors.New("into only allowed for update/insert/replace queries")
	ErrSetNotAllowed    = errors.New("set only allowed for insert/update queries")
	ErrJoinNotAllowed   = errors.New("join only allowed for select/update/delete queries")
	ErrInvalidJoinType  = errors.New("invalid join type")
	ErrInvalidDirection = errors.New("invalid direction for order by")
	ErrQueryTypeNotSet  = db.ErrQueryTypeNotSet
	ErrNoTable          = db.ErrNoTable
)

// Error is returned when the database fails to prepare or execute a query.
// Stmt is the statement handle that failed, when there is one, so callers
// can inspect what the driver reported.
type Error struct {
	Message string
	Stmt    driver.Stmt
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(err error, stmt driver.Stmt) *Error {
	info := driver.InfoFor(err)
	if stmt != nil {
		if si := stmt.ErrorInfo(); si.Failed() {
			info = si
		}
	}
	return &Error{Message: info.String(), Stmt: stmt, Err: err}
}
