package log

import (
	"fmt"
	"strings"
	"time"

	uuid "github.com/nu7hatch/gouuid"
	"github.com/writefreely/fluentdb/driver"
)

// QueryLogger writes one line per executed statement, tagged with an
// execution id so that a failure line can be matched to its query.
type QueryLogger struct {
	// SlowThreshold, when set, marks executions that took at least this long.
	SlowThreshold time.Duration
	// Params includes the bound parameters in the log line.
	Params bool
}

func (l *QueryLogger) Log(query string, params []interface{}, took time.Duration, stmt driver.Stmt) {
	id := "-"
	if u, err := uuid.NewV4(); err == nil {
		id = u.String()[:8]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "query %s (%s): %s", id, took, query)
	if l.Params && len(params) > 0 {
		fmt.Fprintf(&b, " %v", params)
	}
	if l.SlowThreshold > 0 && took >= l.SlowThreshold {
		b.WriteString(" [slow]")
	}
	Info("%s", b.String())

	if stmt == nil {
		return
	}
	if info := stmt.ErrorInfo(); info.Failed() {
		Error("query %s failed: %s", id, info)
	}
}
