package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/configs"
	"clinic-booking/internal/database"

	"github.com/google/uuid"
)

// Authenticator determines the methods available to users get authenticated.
type Authenticator interface {

	// Authenticate authenticates a user by its credentials and returns a JWT tokens, otherwise an error.
	Authenticate(ctx context.Context, credentials Credentials) (*Tokens, error)

	// SignUp registers a new user.
	SignUp(ctx context.Context, signUp SignUp) (*User, error)
}

// Authorizer determines the methods used to authorize a user to perform some action.
type Authorizer interface {

	// ValidateToken validates the given access token, returning the user associated to it.
	ValidateToken(ctx context.Context, token string) (*User, error)

	// RefreshTokens generates new tokens based on the given refresh token.
	RefreshTokens(ctx context.Context, tokens Tokens) (*Tokens, error)

	// GetAuthenticatedUser gets the authenticated user associated to context.
	GetAuthenticatedUser(ctx context.Context) (User, error)
}

type Service interface {
	Authenticator
	Authorizer
}

type defaultService struct {
	repository Repository
	config     configs.Config
}

// NewService creates a new auth service.
func NewService(config configs.Config, dbConn database.Connection) Service {
	return &defaultService{
		config:     config,
		repository: newRepository(dbConn),
	}
}

func (d defaultService) Authenticate(ctx context.Context, credentials Credentials) (*Tokens, error) {
	if err := credentials.Validate(); err != nil {
		return nil, err
	}
	user, err := d.repository.FindUserByEmail(ctx, credentials.Email)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if user == nil {
		return nil, NewUnauthorizedError()
	}
	isValidCredentials, err := d.repository.CheckUserPassword(ctx, credentials.Email, credentials.Password)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if !isValidCredentials {
		return nil, NewUnauthorizedError()
	}
	return GenerateTokens(d.config.PrivateKey(), *user)
}

func (d defaultService) SignUp(ctx context.Context, signUp SignUp) (*User, error) {
	if err := signUp.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(signUp.Email))
	existing, err := d.repository.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if existing != nil {
		return nil, apierrors.NewAPIError(apierrors.WithDetail(ErrEmailAlreadyTaken), apierrors.WithHTTPStatusCode(http.StatusConflict))
	}
	hash, err := EncryptPassword(signUp.Password)
	if err != nil {
		return nil, err
	}
	user := User{
		UUID:     uuid.New(),
		Name:     strings.TrimSpace(signUp.Name),
		Email:    email,
		Password: hash,
	}
	if err = d.repository.InsertUser(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apierrors.NewAPIError(apierrors.WithDetail(ErrEmailAlreadyTaken), apierrors.WithHTTPStatusCode(http.StatusConflict))
		}
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return &user, nil
}

// userFromToken resolves the subject of a verified token.
func (d defaultService) userFromToken(ctx context.Context, token string, typ string) (*User, error) {
	parsedToken, err := ParseToken(token, d.config.PrivateKey().PublicKey, typ)
	if err != nil {
		return nil, NewUnauthorizedError()
	}
	if !time.Now().Before(parsedToken.Expiration()) {
		return nil, NewUnauthorizedError()
	}
	subject, err := uuid.Parse(parsedToken.Subject())
	if err != nil {
		return nil, NewUnauthorizedError()
	}
	user, err := d.repository.FindUserByUUID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if user == nil {
		return nil, NewUnauthorizedError()
	}
	return user, nil
}

func (d defaultService) ValidateToken(ctx context.Context, token string) (*User, error) {
	user, err := d.userFromToken(ctx, strings.TrimPrefix(token, "Bearer "), AccessTokenType)
	if err != nil {
		return nil, NewUnauthorizedError()
	}
	return user, nil
}

func (d defaultService) RefreshTokens(ctx context.Context, tokens Tokens) (*Tokens, error) {
	if err := tokens.Validate(); err != nil {
		return nil, err
	}
	user, err := d.userFromToken(ctx, tokens.RefreshToken, RefreshTokenType)
	if err != nil {
		return nil, err
	}
	return GenerateTokens(d.config.PrivateKey(), *user)
}

func (d defaultService) GetAuthenticatedUser(ctx context.Context) (User, error) {
	user, isUser := ctx.Value(UserContextKey).(User)
	if !isUser {
		return User{}, NewUnauthorizedError()
	}
	return user, nil
}
