// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rundb gives read-only access to the g2p run conditions database.
//
// Conditions of the left arm are stored in the AnaInfoL table,
// conditions of the right arm (runs 20000 and above) in AnaInfoR.
package rundb // import "github.com/go-lpc/g2p/rundb"

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const timeout = 5 * time.Second

var (
	sqliteName = "sqlite3"

	ErrColumn = errors.New("rundb: invalid column name")
)

// DB exposes convenience methods to retrieve the conditions of a run.
type DB struct {
	db   *sql.DB
	name string
}

// Open opens a connection to the run database, with the given driver
// and data source name.
func Open(driver, dsn string) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("rundb: could not open %s db: %w", driver, err)
	}

	err = ping(db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, name: driver}, nil
}

// OpenFile opens the run database stored in the fname SQLite file.
// The database is opened read-only.
func OpenFile(fname string) (*DB, error) {
	_, err := os.Stat(fname)
	if err != nil {
		return nil, fmt.Errorf("rundb: could not stat run db file: %w", err)
	}
	return Open(sqliteName, "file:"+fname+"?mode=ro")
}

// MySQL returns the data source name of a MySQL run database.
func MySQL(usr, pwd, host, dbname string) string {
	cfg := mysql.NewConfig()
	cfg.User = usr
	cfg.Passwd = pwd
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = dbname
	return cfg.FormatDSN()
}

func ping(db *sql.DB, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("rundb: could not ping %s db: %w", name, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

var reColumn = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Lookup returns the raw value stored in column for the provided run.
// Lookup returns nil when the run has no entry or when the table of the
// run has no such column.
func (db *DB) Lookup(ctx context.Context, run int, column string) (any, error) {
	if !reColumn.MatchString(column) {
		return nil, fmt.Errorf("%w %q", ErrColumn, column)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := db.hasColumn(ctx, Table(run), column)
	if err != nil {
		return nil, fmt.Errorf("rundb: could not query columns for run %d: %w", run, err)
	}
	if !ok {
		return nil, nil
	}

	rows, err := db.db.QueryContext(
		ctx,
		"SELECT "+column+" FROM "+Table(run)+" WHERE RunNumber=?",
		run,
	)
	if err != nil {
		return nil, fmt.Errorf("rundb: could not query %s for run %d: %w", column, run, err)
	}
	defer rows.Close()

	var v any
	if rows.Next() {
		err = rows.Scan(&v)
		if err != nil {
			return nil, fmt.Errorf("rundb: could not get %s value for run %d: %w", column, run, err)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rundb: could not scan db for %s: %w", column, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rundb: context error while retrieving %s: %w", column, err)
	}

	return v, nil
}

// hasColumn reports whether table has the provided column.
// Column names are matched case-insensitively, as SQL identifiers are.
func (db *DB) hasColumn(ctx context.Context, table, column string) (bool, error) {
	rows, err := db.db.QueryContext(ctx, "SELECT * FROM "+table+" WHERE 1=0")
	if err != nil {
		return false, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return false, err
	}
	for _, name := range cols {
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, nil
}

// Conditions returns the conditions of the provided run.
//
// Fields missing from the database, or holding a value that can not be
// converted to the field type, are set to their sentinel value.
// An error is only returned when the database could not be queried.
func (db *DB) Conditions(ctx context.Context, run int) (*Conditions, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := db.db.QueryContext(
		ctx,
		"SELECT * FROM "+Table(run)+" WHERE RunNumber=?",
		run,
	)
	if err != nil {
		return nil, fmt.Errorf("rundb: could not query conditions of run %d: %w", run, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("rundb: could not get columns of run %d: %w", run, err)
	}

	var vals map[string]any
	if rows.Next() {
		var (
			raw  = make([]any, len(cols))
			ptrs = make([]any, len(cols))
		)
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		err = rows.Scan(ptrs...)
		if err != nil {
			return nil, fmt.Errorf("rundb: could not scan conditions of run %d: %w", run, err)
		}
		vals = make(map[string]any, len(cols))
		for i, name := range cols {
			vals[name] = raw[i]
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rundb: could not scan db for run %d: %w", run, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rundb: context error while retrieving run %d: %w", run, err)
	}

	return newConditions(run, vals), nil
}
