package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clinic-booking/internal/database"

	"github.com/google/uuid"
)

const (
	findUserByUUIDQuery    = "SELECT id, uuid, name, email FROM tb_user WHERE uuid = $1"
	findUserByEmailQuery   = "SELECT id, uuid, name, email FROM tb_user WHERE lower(email) = lower($1)"
	checkUserPasswordQuery = "SELECT id, password FROM tb_user WHERE lower(email) = lower($1)"
	insertUserQuery        = "INSERT INTO tb_user (uuid, name, email, password, created_at, updated_at) VALUES ($1, $2, $3, $4, now(), now())"
)

// Repository provides access to auth data.
type Repository interface {

	// FindUserByUUID finds a user by its UUID.
	FindUserByUUID(ctx context.Context, uuid uuid.UUID) (*User, error)

	// FindUserByEmail finds a user by its email.
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	// CheckUserPassword checks if the stored password is equals to the given password.
	CheckUserPassword(ctx context.Context, email string, password string) (bool, error)

	// InsertUser inserts a new user.
	InsertUser(ctx context.Context, user User) error
}

type defaultRepository struct {
	dbConn database.Connection
}

func newRepository(dbConn database.Connection) Repository {
	return &defaultRepository{dbConn: dbConn}
}

// findUser runs a query expected to return at most one user.
func (d defaultRepository) findUser(ctx context.Context, query string, param interface{}) (*User, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, query, param)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	if !rows.Next() {
		return nil, rows.Err()
	}
	user := new(User)
	if err = database.TransformRow(rows, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (d defaultRepository) FindUserByUUID(ctx context.Context, uuid uuid.UUID) (*User, error) {
	return d.findUser(ctx, findUserByUUIDQuery, uuid.String())
}

func (d defaultRepository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return d.findUser(ctx, findUserByEmailQuery, email)
}

func (d defaultRepository) CheckUserPassword(ctx context.Context, email string, password string) (bool, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	row := d.dbConn.DB().QueryRowContext(ctx, checkUserPasswordQuery, email)
	var id int64
	var hashedPass string
	if err := row.Scan(&id, &hashedPass); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return ComparePasswords(hashedPass, password), nil
}

func (d defaultRepository) InsertUser(ctx context.Context, user User) error {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	result, err := d.dbConn.DB().ExecContext(ctx, insertUserQuery, user.UUID, user.Name, user.Email, user.Password)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user not inserted")
	}
	return nil
}
