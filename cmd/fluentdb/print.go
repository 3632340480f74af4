package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/guregu/null"
	"github.com/writefreely/fluentdb/driver"
)

// printResult writes the rows produced by stmt as a table, or the number of
// affected rows for statements that don't produce any.
func printResult(w io.Writer, stmt driver.Stmt) error {
	cols, err := stmt.Columns()
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		n, err := stmt.RowCount()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s affected\n", humanize.Comma(n), plural(n, "row", "rows"))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := color.New(color.Bold).SprintFunc()
	for i, col := range cols {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, header(col))
	}
	fmt.Fprintln(tw)

	var n int64
	for {
		row, err := stmt.Fetch()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		n++
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = display(cell(row[col]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", humanize.Comma(n), plural(n, "row", "rows"))
	return nil
}

func cell(v interface{}) null.String {
	switch val := v.(type) {
	case nil:
		return null.NewString("", false)
	case string:
		return null.StringFrom(val)
	case []byte:
		return null.StringFrom(string(val))
	case time.Time:
		return null.StringFrom(val.Format("2006-01-02 15:04:05"))
	default:
		return null.StringFrom(fmt.Sprint(val))
	}
}

func display(s null.String) string {
	if !s.Valid {
		return "NULL"
	}
	return s.String
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
