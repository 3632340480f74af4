/*
 * Copyright © 2026 Musing Studio LLC.
 *
 * This file is part of WriteFreely.
 *
 * WriteFreely is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License, included
 * in the LICENSE file in this source code package.
 */

// Package config holds the connection and logging settings of the fluentdb
// command, stored as an ini file.
package config

import (
	"time"

	"gopkg.in/ini.v1"
)

const (
	FileName = "config.ini"
)

const (
	TypeMySQL    = "mysql"
	TypeSQLite   = "sqlite3"
	TypePostgres = "postgres"
)

type (
	DatabaseCfg struct {
		Type     string `ini:"type"`
		FileName string `ini:"filename"`
		User     string `ini:"username"`
		Password string `ini:"password"`
		Database string `ini:"database"`
		Host     string `ini:"host"`
		Port     int    `ini:"port"`

		// DSN, when set, is passed to the driver as is and the fields above
		// are ignored except for Type.
		DSN string `ini:"dsn"`
	}

	LogCfg struct {
		Queries     bool `ini:"log_queries"`
		Params      bool `ini:"log_params"`
		SlowQueryMS int  `ini:"slow_query_ms"`
	}

	Config struct {
		Database DatabaseCfg `ini:"database"`
		Log      LogCfg      `ini:"log"`
	}
)

func New() *Config {
	c := &Config{
		Log: LogCfg{
			Queries:     true,
			SlowQueryMS: 500,
		},
	}
	c.UseMySQL(true)
	return c
}

// UseMySQL resets the Config's Database to use default values for a MySQL setup.
func (cfg *Config) UseMySQL(fresh bool) {
	cfg.Database.Type = TypeMySQL
	if fresh {
		cfg.Database.Host = "localhost"
		cfg.Database.Port = 3306
	}
}

// UseSQLite resets the Config's Database to use default values for a SQLite setup.
func (cfg *Config) UseSQLite(fresh bool) {
	cfg.Database.Type = TypeSQLite
	if fresh {
		cfg.Database.FileName = "fluentdb.db"
	}
}

// UsePostgres resets the Config's Database to use default values for a
// PostgreSQL setup.
func (cfg *Config) UsePostgres(fresh bool) {
	cfg.Database.Type = TypePostgres
	if fresh {
		cfg.Database.Host = "localhost"
		cfg.Database.Port = 5432
	}
}

// SlowThreshold is the configured slow query threshold, zero when disabled.
func (lc LogCfg) SlowThreshold() time.Duration {
	if lc.SlowQueryMS <= 0 {
		return 0
	}
	return time.Duration(lc.SlowQueryMS) * time.Millisecond
}

func Load(fname string) (*Config, error) {
	if fname == "" {
		fname = FileName
	}
	cfg, err := ini.Load(fname)
	if err != nil {
		return nil, err
	}

	// Parse INI file
	uc := &Config{}
	err = cfg.MapTo(uc)
	if err != nil {
		return nil, err
	}
	return uc, nil
}

func Save(uc *Config, fname string) error {
	cfg := ini.Empty()
	err := ini.ReflectFrom(cfg, uc)
	if err != nil {
		return err
	}

	if fname == "" {
		fname = FileName
	}
	return cfg.SaveTo(fname)
}
