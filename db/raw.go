package db

// SqlBuilder is implemented by everything in this package able to produce a
// single SQL statement.
type SqlBuilder interface {
	ToSQL() (string, error)
}

type RawSqlBuilder struct {
	Dialect DialectType
	Query   string
}

func (b *RawSqlBuilder) ToSQL() (string, error) {
	if b.Query == "" {
		return "", ErrEmptyQuery
	}
	return b.Query, nil
}
