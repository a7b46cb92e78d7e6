// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	// enable the pq driver
	_ "github.com/lib/pq"
	// enable the pure-go sqlite driver
	_ "modernc.org/sqlite"
)

const (
	driverPostgres = "postgres"
	driverSqlite   = "sqlite"
)

func init() {
	sqlx.BindDriver(driverSqlite, sqlx.QUESTION)
}

// SQLStore abstracts access to the database.
type SQLStore struct {
	db     *sqlx.DB
	logger logrus.FieldLogger
}

// New creates and initializes a new SQLStore instance. It takes a database connection string (DSN)
// and a logger instance. Postgres DSNs (postgres://...) and sqlite DSNs (sqlite://path/to/file.db)
// are supported. It returns an initialized SQLStore or an error if the connection to the database fails.
func New(dsn string, logger logrus.FieldLogger) (*SQLStore, error) {
	dbURL, err := url.Parse(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse dsn as an url")
	}

	var db *sqlx.DB
	switch strings.ToLower(dbURL.Scheme) {
	case "postgres", "postgresql":
		db, err = sqlx.Connect(driverPostgres, dbURL.String())
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to postgres database")
		}
	case "sqlite", "sqlite3":
		path := dbURL.Host + dbURL.Path
		if dbURL.Opaque != "" {
			path = dbURL.Opaque
		}
		db, err = sqlx.Connect(driverSqlite, path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to sqlite database")
		}
		// sqlite permits a single writer at a time.
		db.SetMaxOpenConns(1)
	default:
		return nil, errors.Errorf("unsupported database scheme %q", dbURL.Scheme)
	}

	return &SQLStore{
		db,
		logger,
	}, nil
}

// Close closes the underlying database.
func (sqlStore *SQLStore) Close() error {
	return sqlStore.db.Close()
}

// get queries for a single row, writing the result into dest.
func (sqlStore *SQLStore) get(q sqlx.Queryer, dest interface{}, query string, args ...interface{}) error {
	return sqlx.Get(q, dest, sqlStore.db.Rebind(query), args...)
}

// builder is satisfied by every squirrel.*Builder type.
type builder interface {
	ToSql() (string, []interface{}, error)
}

// getBuilder queries for a single row, building the sql, and writing the
// result into dest.
func (sqlStore *SQLStore) getBuilder(q sqlx.Queryer, dest interface{}, b builder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build sql")
	}

	return sqlStore.get(q, dest, query, args...)
}

// selectBuilder queries for any number of rows, building the sql, and
// writing the result into the slice dest.
func (sqlStore *SQLStore) selectBuilder(q sqlx.Queryer, dest interface{}, b builder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build sql")
	}

	return sqlx.Select(q, dest, sqlStore.db.Rebind(query), args...)
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// execBuilder executes a write query, building the sql.
func (sqlStore *SQLStore) execBuilder(e execer, b builder) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build sql")
	}

	return e.Exec(sqlStore.db.Rebind(query), args...)
}

func (sqlStore *SQLStore) beginTransaction() (*Transaction, error) {
	tx, err := sqlStore.db.BeginTxx(context.Background(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}

	return &Transaction{
		Tx:     tx,
		logger: sqlStore.logger,
	}, nil
}

// Transaction is a wrapper around *sqlx.Tx providing convenience methods.
type Transaction struct {
	*sqlx.Tx
	logger    logrus.FieldLogger
	committed bool
}

// Commit commits the pending transaction.
func (t *Transaction) Commit() error {
	err := t.Tx.Commit()
	if err != nil {
		return errors.Wrap(err, "failed to commit the transaction")
	}
	t.committed = true
	return nil
}

// RollbackUnlessCommitted rolls the transaction back unless Commit succeeded.
func (t *Transaction) RollbackUnlessCommitted() {
	if t.committed {
		return
	}
	err := t.Tx.Rollback()
	if err != nil {
		t.logger.WithError(err).Error("Failed to roll back uncommitted transaction")
	}
}

// tableExists determines if the given table name exists in the database.
func (sqlStore *SQLStore) tableExists(tableName string) (bool, error) {
	var tableExists bool

	query := "SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?)"
	if sqlStore.db.DriverName() == driverSqlite {
		query = "SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND lower(name) = ?)"
	}

	err := sqlStore.get(sqlStore.db, &tableExists, query, strings.ToLower(tableName))
	if err != nil {
		return false, errors.Wrapf(err, "failed to check if %s table exists", tableName)
	}

	return tableExists, nil
}
