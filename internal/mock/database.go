// Package mock contains utilities for tests.
package mock

import (
	"context"
	"database/sql"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// Connection is the mock version for database.Connection.
type Connection struct {
	db      *sql.DB
	SQLMock sqlmock.Sqlmock
}

func (m Connection) CreateContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Second)
}

func (m Connection) DB() *sql.DB {
	return m.db
}

func (m Connection) Close() {
	_ = m.DB().Close()
}

// MustCreateConnectionMock creates a Connection whose queries must run in the order they are expected.
func MustCreateConnectionMock() Connection {
	db, mock, err := sqlmock.New()
	if err != nil {
		panic(err)
	}
	return Connection{
		db:      db,
		SQLMock: mock,
	}
}

// MustCreateUnorderedConnectionMock creates a Connection for code issuing queries concurrently.
func MustCreateUnorderedConnectionMock() Connection {
	dbConn := MustCreateConnectionMock()
	dbConn.SQLMock.MatchExpectationsInOrder(false)
	return dbConn
}

// DBResultOption registers an expectation on the mocked connection.
type DBResultOption func(dbConn Connection)

func MockDBResults(dbConn Connection, opts ...DBResultOption) {
	for _, opt := range opts {
		opt(dbConn)
	}
}
