package db

import "fmt"

type DialectType int

const (
	DialectSQLite   DialectType = iota
	DialectMySQL    DialectType = iota
	DialectPostgres DialectType = iota
)

func (d DialectType) String() string {
	switch d {
	case DialectSQLite:
		return "sqlite"
	case DialectMySQL:
		return "mysql"
	case DialectPostgres:
		return "postgres"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// DialectFor returns the dialect spoken by the given database/sql driver name.
func DialectFor(driverName string) (DialectType, error) {
	switch driverName {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "mysql":
		return DialectMySQL, nil
	case "postgres", "pgx":
		return DialectPostgres, nil
	default:
		return DialectMySQL, fmt.Errorf("unexpected driver: %s", driverName)
	}
}

func (d DialectType) Query() *QuerySqlBuilder {
	switch d {
	case DialectSQLite, DialectMySQL, DialectPostgres:
		return &QuerySqlBuilder{Dialect: d}
	default:
		panic(fmt.Sprintf("unexpected dialect: %d", d))
	}
}

func (d DialectType) Raw(query string) *RawSqlBuilder {
	switch d {
	case DialectSQLite, DialectMySQL, DialectPostgres:
		return &RawSqlBuilder{Dialect: d, Query: query}
	default:
		panic(fmt.Sprintf("unexpected dialect: %d", d))
	}
}
