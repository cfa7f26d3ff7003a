// Package database contains useful functions to handle database operations, as create connections,
// close resources, run schema migrations and also helpers to parse result into structs.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"reflect"
	"time"

	"clinic-booking/internal/configs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const uniqueViolationCode = "23505"

type defaultConnection struct {
	db *sql.DB
}

// Connection holds a DB instance.
type Connection interface {
	DB() *sql.DB
	CreateContext(ctx context.Context) (context.Context, context.CancelFunc)
	Close()
}

// DB gets the DB instance associated to the connection.
func (d *defaultConnection) DB() *sql.DB {
	return d.db
}

// CreateContext creates a new context based on the given one, with a default timeout.
func (d *defaultConnection) CreateContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := 5 * time.Second
	return context.WithTimeout(ctx, timeout)
}

// NewConnection creates a new DB instance based on the given configurations. If the configuration
// asks for it, pending schema migrations are applied before returning.
func NewConnection(config configs.Config) (Connection, error) {
	db, err := sql.Open(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("could not create a connection: %w", err)
	}
	db.SetConnMaxLifetime(time.Minute * 3)
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("database is not reachable: %w", err)
	}
	if config.RunMigrations() {
		if err = Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &defaultConnection{db: db}, nil
}

// Migrate applies the embedded migrations to the given database.
func Migrate(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not read migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("database schema is up to date")
	return nil
}

// Close closes the DB connection.
func (d *defaultConnection) Close() {
	if err := d.DB().Close(); err != nil {
		log.Error().Err(err).Msg("could not close the database connection")
		return
	}
	log.Info().Msg("database connection released successfully")
}

// CloseRows closes the given rows.
func CloseRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Error().Err(err).Msg("could not close the given rows")
	}
}

// WithTx runs fn inside a transaction, committing when fn succeeds and rolling back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback the transaction")
		}
		return err
	}
	return tx.Commit()
}

// IsUniqueViolation checks if the given error was raised by a unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}

// TransformRow transforms the current row given by the into the given struct.
// The transformation is performed by reflection, using a field tag called dbfield for that.
func TransformRow(rows *sql.Rows, model interface{}) error {
	modelType := reflect.TypeOf(model).Elem()
	modelValue := reflect.ValueOf(model)
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	values := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		found := false
		for i := 0; i < modelType.NumField(); i++ {
			field := modelType.Field(i)
			if field.Tag.Get("dbfield") != column {
				continue
			}
			values = append(values, modelValue.Elem().Field(i).Addr().Interface())
			found = true
			break
		}
		if !found {
			return fmt.Errorf("column %s has no matching field in %s", column, modelType.Name())
		}
	}
	return rows.Scan(values...)
}
