//go:build sqlite
// +build sqlite

package driver

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDriverName is the database/sql name of the SQLite driver compiled
// into this build.
const SQLiteDriverName = "sqlite3"

func sqliteInfo(err error) (ErrorInfo, bool) {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return ErrorInfo{}, false
	}
	state := StateGeneral
	if sqliteErr.Code == sqlite3.ErrConstraint {
		state = StateConstraint
	}
	return ErrorInfo{SQLState: state, Code: int(sqliteErr.ExtendedCode), Message: sqliteErr.Error()}, true
}
