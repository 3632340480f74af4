//go:build !sqlite
// +build !sqlite

package driver

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteDriverName is the database/sql name of the SQLite driver compiled
// into this build.
const SQLiteDriverName = "sqlite"

func sqliteInfo(err error) (ErrorInfo, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return ErrorInfo{}, false
	}
	code := sqliteErr.Code()
	state := StateGeneral
	// Extended result codes keep the primary code in the low byte.
	if code&0xff == sqlite3.SQLITE_CONSTRAINT {
		state = StateConstraint
	}
	return ErrorInfo{SQLState: state, Code: code, Message: sqliteErr.Error()}, true
}
