/*
 * Copyright © 2026 Musing Studio LLC.
 *
 * This file is part of WriteFreely.
 *
 * WriteFreely is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License, included
 * in the LICENSE file in this source code package.
 */

package db

import (
	"errors"
	"strconv"
	"strings"
)

// ErrorMarker is what a QuerySqlBuilder prints in place of SQL when it cannot
// be rendered. It must never be sent to a database.
const ErrorMarker = "ERROR: Query type not set/unimplemented"

var (
	ErrQueryTypeNotSet = errors.New("query type not set")
	ErrNoTable         = errors.New("no table set for query")
	ErrEmptyQuery      = errors.New("empty query")
)

// QueryType identifies which statement a QuerySqlBuilder renders.
type QueryType int

const (
	QueryNone QueryType = iota
	QueryCustom
	QuerySelect
	QueryInsert
	QueryReplace
	QueryUpdate
	QueryDelete
)

func (t QueryType) String() string {
	switch t {
	case QueryNone:
		return "none"
	case QueryCustom:
		return "custom"
	case QuerySelect:
		return "select"
	case QueryInsert:
		return "insert"
	case QueryReplace:
		return "replace"
	case QueryUpdate:
		return "update"
	case QueryDelete:
		return "delete"
	default:
		return "query(" + strconv.Itoa(int(t)) + ")"
	}
}

type JoinType string

const (
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinInner JoinType = "INNER"
	JoinOuter JoinType = "OUTER"
)

// Valid reports whether j is one of the supported join kinds. Kinds are
// matched exactly, so "left" is not valid.
func (j JoinType) Valid() bool {
	switch j {
	case JoinLeft, JoinRight, JoinInner, JoinOuter:
		return true
	}
	return false
}

type Join struct {
	Type  JoinType
	Table string
	On    string
}

// Limit is stored offset first, the same order it is rendered in.
type Limit struct {
	Offset int
	Count  int
}

// QuerySqlBuilder holds the clauses of one DML statement. Every clause is a
// raw SQL fragment; nothing is quoted or validated here.
type QuerySqlBuilder struct {
	Dialect   DialectType
	Type      QueryType
	Fields    []string
	Table     string
	Where     []string
	Values    []string
	Joins     []Join
	OrderBy   []string
	GroupBy   []string
	Limit     *Limit
	ForUpdate bool
	Custom    string
}

func (b *QuerySqlBuilder) ToSQL() (string, error) {
	if b.Type == QueryCustom {
		return b.Custom, nil
	}
	if b.Type != QueryNone && b.Table == "" {
		return "", ErrNoTable
	}

	var str strings.Builder

	switch b.Type {
	case QuerySelect:
		str.WriteString("SELECT ")
		str.WriteString(strings.Join(b.Fields, ", "))
		str.WriteString(" FROM ")
		str.WriteString(b.Table)
		str.WriteString(b.sqlJoin())
		str.WriteString(b.sqlWhere())
		str.WriteString(b.sqlGroupBy())
		str.WriteString(b.sqlOrderBy())
		str.WriteString(b.sqlLimit())
		if b.ForUpdate {
			str.WriteString(" FOR UPDATE")
		}
	case QueryDelete:
		str.WriteString("DELETE ")
		if len(b.Fields) > 0 {
			str.WriteString(strings.Join(b.Fields, ", "))
			str.WriteString(" ")
		}
		str.WriteString("FROM ")
		str.WriteString(b.Table)
		str.WriteString(b.sqlJoin())
		str.WriteString(b.sqlWhere())
		str.WriteString(b.sqlLimit())
	case QueryInsert, QueryReplace:
		str.WriteString(strings.ToUpper(b.Type.String()))
		str.WriteString(" INTO ")
		str.WriteString(b.Table)
		str.WriteString(" SET ")
		str.WriteString(strings.Join(b.Values, ","))
		str.WriteString(b.sqlJoin())
	case QueryUpdate:
		// Joins are accepted on updates but not rendered.
		str.WriteString("UPDATE ")
		str.WriteString(b.Table)
		str.WriteString(" SET ")
		str.WriteString(strings.Join(b.Values, ", "))
		str.WriteString(b.sqlWhere())
		str.WriteString(b.sqlOrderBy())
		str.WriteString(b.sqlLimit())
	default:
		return "", ErrQueryTypeNotSet
	}

	return str.String(), nil
}

// String returns the rendered SQL, or ErrorMarker when the builder can't be
// rendered.
func (b *QuerySqlBuilder) String() string {
	s, err := b.ToSQL()
	if err != nil {
		return ErrorMarker
	}
	return s
}

func (b *QuerySqlBuilder) sqlWhere() string {
	if len(b.Where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.Where, " AND ")
}

func (b *QuerySqlBuilder) sqlLimit() string {
	if b.Limit == nil {
		return ""
	}
	return " LIMIT " + strconv.Itoa(b.Limit.Offset) + "," + strconv.Itoa(b.Limit.Count)
}

func (b *QuerySqlBuilder) sqlOrderBy() string {
	if len(b.OrderBy) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(b.OrderBy, ", ")
}

func (b *QuerySqlBuilder) sqlGroupBy() string {
	if len(b.GroupBy) == 0 {
		return ""
	}
	return " GROUP BY " + strings.Join(b.GroupBy, ", ")
}

func (b *QuerySqlBuilder) sqlJoin() string {
	if len(b.Joins) == 0 {
		return ""
	}
	var str strings.Builder
	for _, j := range b.Joins {
		str.WriteString(" ")
		str.WriteString(string(j.Type))
		str.WriteString(" JOIN ")
		str.WriteString(j.Table)
		str.WriteString(" ON ")
		str.WriteString(j.On)
	}
	return str.String()
}

// Clause names the builder calls that only make sense for some query types.
type Clause int

const (
	ClauseFrom Clause = iota
	ClauseInto
	ClauseSet
	ClauseJoin
)

var clauseTypes = map[Clause][]QueryType{
	ClauseFrom: {QuerySelect, QueryDelete},
	ClauseInto: {QueryUpdate, QueryInsert, QueryReplace},
	ClauseSet:  {QueryInsert, QueryUpdate},
	ClauseJoin: {QuerySelect, QueryUpdate, QueryDelete},
}

// Allows reports whether clause c may be used on a query of type t.
func (t QueryType) Allows(c Clause) bool {
	for _, qt := range clauseTypes[c] {
		if qt == t {
			return true
		}
	}
	return false
}
