package auth

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"clinic-booking/internal/configs"
	"clinic-booking/internal/logging"
	"clinic-booking/internal/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const plainTestPassword = "s3cret-pass"

var (
	logger             = logging.Nop()
	hashedTestPassword = mustEncryptPassword(plainTestPassword)
)

func mustEncryptPassword(pass string) string {
	hash, err := EncryptPassword(pass)
	if err != nil {
		panic(err)
	}
	return hash
}

type mockAuthorizer struct {
	mockValidateToken        func(ctx context.Context, token string) (*User, error)
	mockRefreshTokens        func(ctx context.Context, tokens Tokens) (*Tokens, error)
	mockGetAuthenticatedUser func(ctx context.Context) (User, error)
}

func (m mockAuthorizer) ValidateToken(ctx context.Context, token string) (*User, error) {
	return m.mockValidateToken(ctx, token)
}

func (m mockAuthorizer) RefreshTokens(ctx context.Context, tokens Tokens) (*Tokens, error) {
	return m.mockRefreshTokens(ctx, tokens)
}

func (m mockAuthorizer) GetAuthenticatedUser(ctx context.Context) (User, error) {
	return m.mockGetAuthenticatedUser(ctx)
}

func userColumns() []string {
	return []string{"id", "uuid", "name", "email"}
}

func withFindUserByEmailResult(rows *sqlmock.Rows) mock.DBResultOption {
	return func(dbConn mock.Connection) {
		dbConn.SQLMock.ExpectQuery(regexp.QuoteMeta(findUserByEmailQuery)).WithArgs(sqlmock.AnyArg()).WillReturnRows(rows)
	}
}

func withFindUserByEmailError() mock.DBResultOption {
	return func(dbConn mock.Connection) {
		dbConn.SQLMock.ExpectQuery(regexp.QuoteMeta(findUserByEmailQuery)).WithArgs(sqlmock.AnyArg()).WillReturnError(sql.ErrConnDone)
	}
}

func withCheckUserPasswordResult(rows *sqlmock.Rows) mock.DBResultOption {
	return func(dbConn mock.Connection) {
		dbConn.SQLMock.ExpectQuery(regexp.QuoteMeta(checkUserPasswordQuery)).WithArgs(sqlmock.AnyArg()).WillReturnRows(rows)
	}
}

func withCheckUserPasswordError() mock.DBResultOption {
	return func(dbConn mock.Connection) {
		dbConn.SQLMock.ExpectQuery(regexp.QuoteMeta(checkUserPasswordQuery)).WithArgs(sqlmock.AnyArg()).WillReturnError(sql.ErrConnDone)
	}
}

func withFindUserByUUIDResult(rows *sqlmock.Rows) mock.DBResultOption {
	return func(dbConn mock.Connection) {
		dbConn.SQLMock.ExpectQuery(regexp.QuoteMeta(findUserByUUIDQuery)).WithArgs(sqlmock.AnyArg()).WillReturnRows(rows)
	}
}

func withInsertUserResult() mock.DBResultOption {
	return func(dbConn mock.Connection) {
		dbConn.SQLMock.ExpectExec(regexp.QuoteMeta(insertUserQuery)).WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	}
}

func withInsertUserError(err error) mock.DBResultOption {
	return func(dbConn mock.Connection) {
		dbConn.SQLMock.ExpectExec(regexp.QuoteMeta(insertUserQuery)).WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).WillReturnError(err)
	}
}

func mockUser() User {
	return User{ID: 1, UUID: uuid.MustParse("5b1f9b8e-3d0a-4c55-9f27-4f7a0c1b2d3e"), Name: "Ana Souza", Email: "owner@clinic.com"}
}

func mockUserRow() *sqlmock.Rows {
	user := mockUser()
	return sqlmock.NewRows(userColumns()).AddRow(user.ID, user.UUID.String(), user.Name, user.Email)
}

func serve(router http.Handler, method, target string, body interface{}, authHeader string) *http.Response {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewBuffer(payload))
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder.Result()
}

func TestAuthenticate(t *testing.T) {
	config := configs.MustLoad("./../../test/testdata/config_valid.json")
	tests := []struct {
		name          string
		dbMockOptions []mock.DBResultOption
		credentials   Credentials
		want          int
	}{
		{
			name: "should authenticate the user",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByEmailResult(mockUserRow()),
				withCheckUserPasswordResult(sqlmock.NewRows([]string{"id", "password"}).AddRow(1, hashedTestPassword)),
			},
			credentials: Credentials{Email: "owner@clinic.com", Password: plainTestPassword},
			want:        http.StatusOK,
		},
		{
			name: "should not authenticate the user because the user was not found",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByEmailResult(sqlmock.NewRows(userColumns())),
			},
			credentials: Credentials{Email: "owner@clinic.com", Password: plainTestPassword},
			want:        http.StatusUnauthorized,
		},
		{
			name: "should not authenticate the user because the given password is invalid",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByEmailResult(mockUserRow()),
				withCheckUserPasswordResult(sqlmock.NewRows([]string{"id", "password"}).AddRow(1, hashedTestPassword)),
			},
			credentials: Credentials{Email: "owner@clinic.com", Password: "wrong-pass"},
			want:        http.StatusUnauthorized,
		},
		{
			name:          "should not authenticate the user due to missing password",
			dbMockOptions: nil,
			credentials:   Credentials{Email: "owner@clinic.com"},
			want:          http.StatusBadRequest,
		},
		{
			name: "should not authenticate the user due to a database error while searching for the user",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByEmailError(),
			},
			credentials: Credentials{Email: "owner@clinic.com", Password: plainTestPassword},
			want:        http.StatusInternalServerError,
		},
		{
			name: "should not authenticate the user due to a database error while searching for the user password",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByEmailResult(mockUserRow()),
				withCheckUserPasswordError(),
			},
			credentials: Credentials{Email: "owner@clinic.com", Password: plainTestPassword},
			want:        http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dbConn := mock.MustCreateConnectionMock()
			defer dbConn.Close()
			router := chi.NewRouter()
			Setup(router, logger, config, dbConn)
			mock.MockDBResults(dbConn, tt.dbMockOptions...)

			response := serve(router, "POST", "/api/v1/auth/login", tt.credentials, "")
			if response.StatusCode != tt.want {
				t.Errorf("response status is incorrect, got %d, want %d", response.StatusCode, tt.want)
			}
			if tt.want != http.StatusOK {
				return
			}
			tokens := new(Tokens)
			if err := json.NewDecoder(response.Body).Decode(tokens); err != nil {
				t.Fatalf("could not decode tokens: %v", err)
			}
			if _, err := ParseToken(tokens.AccessToken, config.PrivateKey().PublicKey, AccessTokenType); err != nil {
				t.Errorf("the access token is not valid: %v", err)
			}
		})
	}
}

func TestAuthenticateRateLimit(t *testing.T) {
	config := configs.MustLoad("./../../test/testdata/config_valid.json")
	dbConn := mock.MustCreateConnectionMock()
	defer dbConn.Close()
	router := chi.NewRouter()
	Setup(router, logger, config, dbConn)

	for i := 0; i < config.LoginRatePerMinute(); i++ {
		response := serve(router, "POST", "/api/v1/auth/login", Credentials{}, "")
		if response.StatusCode != http.StatusBadRequest {
			t.Fatalf("attempt %d status is incorrect, got %d, want %d", i, response.StatusCode, http.StatusBadRequest)
		}
	}
	response := serve(router, "POST", "/api/v1/auth/login", Credentials{}, "")
	if response.StatusCode != http.StatusTooManyRequests {
		t.Errorf("response status is incorrect, got %d, want %d", response.StatusCode, http.StatusTooManyRequests)
	}
}

func TestSignUp(t *testing.T) {
	config := configs.MustLoad("./../../test/testdata/config_valid.json")
	valid := SignUp{Name: "Ana Souza", Email: "Owner@Clinic.com", Password: plainTestPassword}
	tests := []struct {
		name          string
		dbMockOptions []mock.DBResultOption
		signUp        SignUp
		want          int
	}{
		{
			name: "should register the user",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByEmailResult(sqlmock.NewRows(userColumns())),
				withInsertUserResult(),
			},
			signUp: valid,
			want:   http.StatusCreated,
		},
		{
			name: "should not register the user because the email is taken",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByEmailResult(mockUserRow()),
			},
			signUp: valid,
			want:   http.StatusConflict,
		},
		{
			name: "should not register the user because a concurrent sign up took the email",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByEmailResult(sqlmock.NewRows(userColumns())),
				withInsertUserError(&pq.Error{Code: "23505"}),
			},
			signUp: valid,
			want:   http.StatusConflict,
		},
		{
			name: "should not register the user due to a database error",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByEmailResult(sqlmock.NewRows(userColumns())),
				withInsertUserError(sql.ErrConnDone),
			},
			signUp: valid,
			want:   http.StatusInternalServerError,
		},
		{
			name:   "should not register the user due to a short password",
			signUp: SignUp{Name: "Ana Souza", Email: "owner@clinic.com", Password: "short"},
			want:   http.StatusBadRequest,
		},
		{
			name:   "should not register the user due to an invalid email",
			signUp: SignUp{Name: "Ana Souza", Email: "not-an-email", Password: plainTestPassword},
			want:   http.StatusBadRequest,
		},
		{
			name:   "should not register the user due to a missing name",
			signUp: SignUp{Email: "owner@clinic.com", Password: plainTestPassword},
			want:   http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dbConn := mock.MustCreateConnectionMock()
			defer dbConn.Close()
			router := chi.NewRouter()
			Setup(router, logger, config, dbConn)
			mock.MockDBResults(dbConn, tt.dbMockOptions...)

			response := serve(router, "POST", "/api/v1/auth/signup", tt.signUp, "")
			if response.StatusCode != tt.want {
				t.Errorf("response status is incorrect, got %d, want %d", response.StatusCode, tt.want)
			}
			if err := dbConn.SQLMock.ExpectationsWereMet(); err != nil {
				t.Errorf("database expectations were not met: %v", err)
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	config := configs.MustLoad("./../../test/testdata/config_valid.json")
	tokens := MustGenerateTokens(config.PrivateKey(), mockUser())
	tests := []struct {
		name          string
		dbMockOptions []mock.DBResultOption
		tokens        Tokens
		want          int
	}{
		{
			name: "should refresh the tokens",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByUUIDResult(mockUserRow()),
			},
			tokens: *tokens,
			want:   http.StatusOK,
		},
		{
			name: "should not refresh the tokens because the user no longer exists",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByUUIDResult(sqlmock.NewRows(userColumns())),
			},
			tokens: *tokens,
			want:   http.StatusUnauthorized,
		},
		{
			name:   "should not refresh the tokens with an access token",
			tokens: Tokens{AccessToken: tokens.AccessToken, RefreshToken: tokens.AccessToken, GrantType: "refresh_token"},
			want:   http.StatusUnauthorized,
		},
		{
			name:   "should not refresh the tokens with a forged token",
			tokens: Tokens{AccessToken: tokens.AccessToken, RefreshToken: "forged", GrantType: "refresh_token"},
			want:   http.StatusUnauthorized,
		},
		{
			name:   "should not refresh the tokens due to an invalid grant type",
			tokens: Tokens{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken, GrantType: "password"},
			want:   http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dbConn := mock.MustCreateConnectionMock()
			defer dbConn.Close()
			router := chi.NewRouter()
			Setup(router, logger, config, dbConn)
			mock.MockDBResults(dbConn, tt.dbMockOptions...)

			response := serve(router, "PUT", "/api/v1/auth/token", tt.tokens, "")
			if response.StatusCode != tt.want {
				t.Errorf("response status is incorrect, got %d, want %d", response.StatusCode, tt.want)
			}
		})
	}
}

func TestGetAuthenticatedUser(t *testing.T) {
	config := configs.MustLoad("./../../test/testdata/config_valid.json")
	tokens := MustGenerateTokens(config.PrivateKey(), mockUser())
	tests := []struct {
		name          string
		dbMockOptions []mock.DBResultOption
		authHeader    string
		want          int
	}{
		{
			name: "should return the authenticated user",
			dbMockOptions: []mock.DBResultOption{
				withFindUserByUUIDResult(mockUserRow()),
			},
			authHeader: fmt.Sprintf("Bearer %s", tokens.AccessToken),
			want:       http.StatusOK,
		},
		{
			name:       "should not accept a refresh token as access token",
			authHeader: fmt.Sprintf("Bearer %s", tokens.RefreshToken),
			want:       http.StatusUnauthorized,
		},
		{
			name: "should not return the user without a token",
			want: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dbConn := mock.MustCreateConnectionMock()
			defer dbConn.Close()
			router := chi.NewRouter()
			Setup(router, logger, config, dbConn)
			mock.MockDBResults(dbConn, tt.dbMockOptions...)

			response := serve(router, "GET", "/api/v1/auth/me", nil, tt.authHeader)
			if response.StatusCode != tt.want {
				t.Errorf("response status is incorrect, got %d, want %d", response.StatusCode, tt.want)
			}
			if tt.want != http.StatusOK {
				return
			}
			user := make(map[string]interface{})
			_ = json.NewDecoder(response.Body).Decode(&user)
			if user["email"] != mockUser().Email {
				t.Errorf("user email is incorrect, got %v, want %s", user["email"], mockUser().Email)
			}
			if _, exposed := user["password"]; exposed {
				t.Errorf("the password hash must not be exposed")
			}
		})
	}
}
