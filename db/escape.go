/*
 * Copyright © 2019-2022 A Bunch Tell LLC.
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
	"fmt"
	"strconv"
	"strings"
	"time"
)

type EscapeContext int

const (
	EscapeSimple EscapeContext = iota
)

func (_ EscapeContext) SQLEscape(d DialectType, s string) (string, error) {
	builder := strings.Builder{}
	switch d {
	case DialectSQLite, DialectPostgres:
		builder.WriteRune('\'')
		for _, c := range s {
			if c == '\'' {
				builder.WriteString("''")
			} else {
				builder.WriteRune(c)
			}
		}
		builder.WriteRune('\'')
	case DialectMySQL:
		builder.WriteRune('\'')
		for _, c := range s {
			switch c {
			case 0:
				builder.WriteString("\\0")
			case '\'':
				builder.WriteString("\\'")
			case '"':
				builder.WriteString("\\\"")
			case '\b':
				builder.WriteString("\\b")
			case '\n':
				builder.WriteString("\\n")
			case '\r':
				builder.WriteString("\\r")
			case '\t':
				builder.WriteString("\\t")
			case '\\':
				builder.WriteString("\\\\")
			default:
				builder.WriteRune(c)
			}
		}
		builder.WriteRune('\'')
	default:
		return "", fmt.Errorf("unexpected dialect: %d", d)
	}
	return builder.String(), nil
}

// Literal renders v as an SQL literal for the given dialect.
func (ctx EscapeContext) Literal(d DialectType, v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if d == DialectPostgres {
			return strings.ToUpper(strconv.FormatBool(val)), nil
		}
		if val {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(val), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case string:
		return ctx.SQLEscape(d, val)
	case []byte:
		return ctx.SQLEscape(d, string(val))
	case time.Time:
		return ctx.SQLEscape(d, val.Format("2006-01-02 15:04:05"))
	case fmt.Stringer:
		return ctx.SQLEscape(d, val.String())
	default:
		return ctx.SQLEscape(d, fmt.Sprint(val))
	}
}

// Interpolate replaces the placeholders in query with args rendered as
// literals. Placeholders are ? for every dialect, and additionally $n for
// Postgres. Quoted strings and identifiers are left untouched.
//
// The result is meant for logs and dry runs; statements sent to a database
// should keep using bound parameters.
func Interpolate(d DialectType, query string, args []interface{}) (string, error) {
	var (
		str   strings.Builder
		quote rune
		next  int
		used  = make(map[int]bool)
	)
	runes := []rune(query)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if quote != 0 {
			str.WriteRune(c)
			if c == '\\' && d == DialectMySQL && i+1 < len(runes) {
				i++
				str.WriteRune(runes[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			str.WriteRune(c)
		case c == '?':
			if next >= len(args) {
				return "", fmt.Errorf("not enough arguments: placeholder %d of %d", next+1, len(args))
			}
			lit, err := EscapeSimple.Literal(d, args[next])
			if err != nil {
				return "", err
			}
			used[next] = true
			next++
			str.WriteString(lit)
		case c == '$' && d == DialectPostgres && i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9':
			j := i + 1
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(string(runes[i+1 : j]))
			if n < 1 || n > len(args) {
				return "", fmt.Errorf("placeholder $%d out of range: %d arguments", n, len(args))
			}
			lit, err := EscapeSimple.Literal(d, args[n-1])
			if err != nil {
				return "", err
			}
			used[n-1] = true
			str.WriteString(lit)
			i = j - 1
		default:
			str.WriteRune(c)
		}
	}
	if len(used) != len(args) {
		return "", fmt.Errorf("too many arguments: %d given, %d used", len(args), len(used))
	}
	return str.String(), nil
}
