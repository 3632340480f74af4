/*
 * Copyright © 2026 Musing Studio LLC.
 *
 * This file is part of WriteFreely.
 *
 * WriteFreely is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License, included
 * in the LICENSE file in this source code package.
 */

package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/writefreely/fluentdb/driver"
)

// Environment variables that override the configured connection.
const (
	EnvDSN         = "FLUENTDB_DSN"
	EnvDatabaseURL = "DATABASE_URL"
)

// DriverName returns the database/sql driver to open the database with.
func (dc DatabaseCfg) DriverName() (string, error) {
	switch dc.Type {
	case TypeMySQL:
		return "mysql", nil
	case TypePostgres, "postgresql":
		return "postgres", nil
	case TypeSQLite, "sqlite":
		return driver.SQLiteDriverName, nil
	}
	return "", fmt.Errorf("unsupported database type %q", dc.Type)
}

// DataSourceName returns the connection string for the configured database.
func (dc DatabaseCfg) DataSourceName() (string, error) {
	if dc.DSN != "" {
		return dc.DSN, nil
	}
	switch dc.Type {
	case TypeMySQL:
		mc := mysql.NewConfig()
		mc.User = dc.User
		mc.Passwd = dc.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
		mc.DBName = dc.Database
		mc.ParseTime = true
		mc.Loc = time.Local
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN(), nil
	case TypePostgres, "postgresql":
		u := url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port)),
			Path:     "/" + dc.Database,
			RawQuery: "sslmode=disable",
		}
		if dc.User != "" {
			u.User = url.UserPassword(dc.User, dc.Password)
		}
		return u.String(), nil
	case TypeSQLite, "sqlite":
		if dc.FileName == "" {
			return "", fmt.Errorf("no sqlite filename configured")
		}
		return dc.FileName, nil
	}
	return "", fmt.Errorf("unsupported database type %q", dc.Type)
}

// ApplyEnv overrides the configured connection with FLUENTDB_DSN or
// DATABASE_URL, read from the environment or else from the given env files
// (.env when none are given). Missing env files are skipped.
func (cfg *Config) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	vals := map[string]string{}
	if len(existing) > 0 {
		var err error
		vals, err = godotenv.Read(existing...)
		if err != nil {
			return err
		}
	}

	lookup := func(k string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return vals[k]
	}
	dsn := lookup(EnvDSN)
	if dsn == "" {
		dsn = lookup(EnvDatabaseURL)
	}
	if dsn == "" {
		return nil
	}
	cfg.Database.DSN = dsn
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		cfg.Database.Type = TypePostgres
	}
	return nil
}
