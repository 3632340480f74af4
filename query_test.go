package fluentdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/writefreely/fluentdb/db"
)

func newTestQuery() (*Query, *fakeConn) {
	conn := &fakeConn{}
	return New(conn, nil).NewQuery(), conn
}

func TestQuery_SQL(t *testing.T) {
	tests := []struct {
		name   string
		build  func(q *Query) *Query
		want   string
		params []interface{}
	}{
		{
			name:  "select",
			build: func(q *Query) *Query { return q.Select("*").From("users") },
			want:  "SELECT * FROM users",
		},
		{
			name: "select fields accumulate",
			build: func(q *Query) *Query {
				return q.Select("id", "name").Select("email").From("users").Where("id = ?", 4)
			},
			want:   "SELECT id, name, email FROM users WHERE id = ?",
			params: []interface{}{4},
		},
		{
			name: "select with every clause",
			build: func(q *Query) *Query {
				return q.Select("u.id", "COUNT(p.id) AS n").
					From("users u").
					LeftJoin("posts p", "p.owner_id = u.id").
					InnerJoin("collections c", "c.owner_id = u.id").
					Where("u.status = ?", "active").
					WhereAll([]string{"u.created > ?", "u.created < ?"}, "2020-01-01", "2021-01-01").
					GroupBy("u.id").
					OrderBy("n", "desc").
					OrderBy("u.id", "").
					Limit(10, 20)
			},
			want: "SELECT u.id, COUNT(p.id) AS n FROM users u" +
				" LEFT JOIN posts p ON p.owner_id = u.id INNER JOIN collections c ON c.owner_id = u.id" +
				" WHERE u.status = ? AND u.created > ? AND u.created < ?" +
				" GROUP BY u.id ORDER BY n DESC, u.id ASC LIMIT 20,10",
			params: []interface{}{"active", "2020-01-01", "2021-01-01"},
		},
		{
			name:   "select for update",
			build:  func(q *Query) *Query { return q.SelectForUpdate("id").From("accounts").Where("id = ?", 1) },
			want:   "SELECT id FROM accounts WHERE id = ? FOR UPDATE",
			params: []interface{}{1},
		},
		{
			name:   "insert",
			build:  func(q *Query) *Query { return q.Insert().Into("users").Set("name = ?", "alice").Set("age = ?", 31) },
			want:   "INSERT INTO users SET name = ?,age = ?",
			params: []interface{}{"alice", 31},
		},
		{
			name:   "replace",
			build:  func(q *Query) *Query { return q.Replace().Into("users").SetAll([]string{"id = ?", "name = ?"}, 1, "bob") },
			want:   "REPLACE INTO users SET id = ?,name = ?",
			params: []interface{}{1, "bob"},
		},
		{
			name: "update",
			build: func(q *Query) *Query {
				return q.Update().Into("users").Set("name = ?", "carol").Set("age = age + 1").Where("id = ?", 3).Limit(1, 0)
			},
			want:   "UPDATE users SET name = ?, age = age + 1 WHERE id = ? LIMIT 0,1",
			params: []interface{}{"carol", 3},
		},
		{
			name: "update leaves joins out",
			build: func(q *Query) *Query {
				return q.Update().Into("posts p").InnerJoin("users u", "u.id = p.owner_id").Set("p.hidden = 1").Where("u.silenced = 1")
			},
			want: "UPDATE posts p SET p.hidden = 1 WHERE u.silenced = 1",
		},
		{
			name:   "delete",
			build:  func(q *Query) *Query { return q.Delete().From("sessions").Where("expires < ?", 100) },
			want:   "DELETE FROM sessions WHERE expires < ?",
			params: []interface{}{100},
		},
		{
			name:  "delete with empty target",
			build: func(q *Query) *Query { return q.Delete("").From("sessions") },
			want:  "DELETE FROM sessions",
		},
		{
			name: "multi-table delete",
			build: func(q *Query) *Query {
				return q.Delete("p").From("posts p").LeftJoin("users u", "u.id = p.owner_id").Where("u.id IS NULL")
			},
			want: "DELETE p FROM posts p LEFT JOIN users u ON u.id = p.owner_id WHERE u.id IS NULL",
		},
		{
			name:   "custom",
			build:  func(q *Query) *Query { return q.Custom("SELECT 1 + ?", 2) },
			want:   "SELECT 1 + ?",
			params: []interface{}{2},
		},
		{
			name:  "custom builder",
			build: func(q *Query) *Query { return q.CustomBuilder(db.DialectSQLite.Raw("PRAGMA table_info(users)")) },
			want:  "PRAGMA table_info(users)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := newTestQuery()
			q = tt.build(q)
			require.NoError(t, q.Err())
			sql, err := q.SQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Equal(t, tt.want, q.String())
			assert.Equal(t, tt.params, q.Params())
		})
	}
}

func TestQuery_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(q *Query) *Query
		want  error
	}{
		{"type conflict", func(q *Query) *Query { return q.Select("*").Update() }, ErrTypeConflict},
		{"custom then select", func(q *Query) *Query { return q.Custom("SELECT 1").Select("*") }, ErrTypeConflict},
		{"from on insert", func(q *Query) *Query { return q.Insert().From("users") }, ErrFromNotAllowed},
		{"from without type", func(q *Query) *Query { return q.From("users") }, ErrFromNotAllowed},
		{"into on select", func(q *Query) *Query { return q.Select("*").Into("users") }, ErrIntoNotAllowed},
		{"set on replace", func(q *Query) *Query { return q.Replace().Into("users").Set("id = 1") }, ErrSetNotAllowed},
		{"set on delete", func(q *Query) *Query { return q.Delete().Set("id = 1") }, ErrSetNotAllowed},
		{"join on insert", func(q *Query) *Query { return q.Insert().LeftJoin("a", "b") }, ErrJoinNotAllowed},
		{"join kind lowercase", func(q *Query) *Query { return q.Select("*").Join("left", "a", "b") }, ErrInvalidJoinType},
		{"join kind before type", func(q *Query) *Query { return q.Insert().Join("CROSS", "a", "b") }, ErrInvalidJoinType},
		{"bad direction", func(q *Query) *Query { return q.Select("*").From("t").OrderBy("name", "sideways") }, ErrInvalidDirection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := newTestQuery()
			q = tt.build(q)
			assert.ErrorIs(t, q.Err(), tt.want)

			_, err := q.SQL()
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, "ERROR: "+q.Err().Error(), q.String())
		})
	}
}

func TestQuery_StickyError(t *testing.T) {
	q, _ := newTestQuery()
	q.Select("*").Into("users")
	require.ErrorIs(t, q.Err(), ErrIntoNotAllowed)

	// Later calls are ignored, valid or not.
	q.From("users").Where("id = ?", 1).Update()
	assert.ErrorIs(t, q.Err(), ErrIntoNotAllowed)
	assert.Equal(t, db.QuerySelect, q.Type())
	assert.Empty(t, q.Params())
}

func TestQuery_RenderErrors(t *testing.T) {
	q, _ := newTestQuery()
	assert.Equal(t, db.QueryNone, q.Type())
	_, err := q.SQL()
	assert.ErrorIs(t, err, ErrQueryTypeNotSet)
	assert.Equal(t, db.ErrorMarker, q.String())
	assert.NoError(t, q.Err())

	q, _ = newTestQuery()
	q.Select("*")
	_, err = q.SQL()
	assert.ErrorIs(t, err, ErrNoTable)
	assert.Equal(t, db.ErrorMarker, q.String())

	q, _ = newTestQuery()
	q.CustomBuilder(db.DialectSQLite.Raw(""))
	_, err = q.SQL()
	assert.ErrorIs(t, err, db.ErrEmptyQuery)
}

func TestQuery_OrderByDirection(t *testing.T) {
	q, _ := newTestQuery()
	q.Select("*").From("t").OrderBy("a", "Desc").OrderBy("b", "asc").OrderBy("c", "")
	assert.Equal(t, "SELECT * FROM t ORDER BY a DESC, b ASC, c ASC", q.String())
}

func TestQuery_LimitReplaces(t *testing.T) {
	q, _ := newTestQuery()
	q.Select("*").From("t").Limit(5, 0).Limit(10, 20)
	assert.Equal(t, "SELECT * FROM t LIMIT 20,10", q.String())
}

func TestQuery_Interpolate(t *testing.T) {
	q, _ := newTestQuery()
	q.Select("*").From("users").Where("name = ?", "o'brien").Where("age > ?", 30)
	s, err := q.Interpolate()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE name = 'o''brien' AND age > 30", s)

	q, _ = newTestQuery()
	q.Select("*").From("users").Where("id = ?")
	_, err = q.Interpolate()
	assert.Error(t, err)
}
