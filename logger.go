package fluentdb

import (
	"time"

	"github.com/writefreely/fluentdb/driver"
)

// Logger is notified after every statement execution, successful or not.
type Logger interface {
	Log(query string, params []interface{}, took time.Duration, stmt driver.Stmt)
}

// LoggerFunc adapts a plain function to Logger.
type LoggerFunc func(query string, params []interface{}, took time.Duration, stmt driver.Stmt)

func (f LoggerFunc) Log(query string, params []interface{}, took time.Duration, stmt driver.Stmt) {
	f(query, params, took, stmt)
}
