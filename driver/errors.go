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
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// InfoFor extracts SQLSTATE diagnostics from an error returned by one of the
// supported database/sql drivers. Errors from unknown sources are reported as
// general errors.
func InfoFor(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{SQLState: StateOK}
	}

	var dErr *DriverError
	if errors.As(err, &dErr) {
		return dErr.Info
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		state := string(mysqlErr.SQLState[:])
		if mysqlErr.SQLState == [5]byte{} {
			state = StateGeneral
		}
		return ErrorInfo{SQLState: state, Code: int(mysqlErr.Number), Message: mysqlErr.Message}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return ErrorInfo{SQLState: string(pqErr.Code), Message: pqErr.Message}
	}

	if info, ok := sqliteInfo(err); ok {
		return info
	}

	return ErrorInfo{SQLState: StateGeneral, Message: err.Error()}
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var dErr *DriverError
	if errors.As(err, &dErr) {
		return err
	}
	return &DriverError{Info: InfoFor(err), Err: err}
}
