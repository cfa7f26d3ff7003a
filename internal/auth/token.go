package auth

import (
	"crypto"
	"crypto/rsa"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/lestrrat-go/jwx/jws"
	"github.com/lestrrat-go/jwx/jwt"
)

const (
	EncryptionAlgorithmDefault = jwa.RS512
	IssuerDefault              = "clinic_booking"
	AudienceDefault            = "clinic_booking"
	AccessTokenType            = "access"
	RefreshTokenType           = "refresh"
	AccessTokenExpiration      = 15 * time.Minute
	RefreshTokenExpiration     = 24 * time.Hour

	tokenTypeClaim = "typ"
)

// TokenOption determines the Functional Options used to create a new Token.
type TokenOption func(token jwt.Token) error

func defaultTokenOptions(typ string, expiration time.Duration, opts []TokenOption) []TokenOption {
	return append([]TokenOption{
		WithIssuer(IssuerDefault),
		WithType(typ),
		WithAudience([]string{AudienceDefault}),
		WithJTI(),
		WithIssuedAt(),
		WithExpiration(expiration),
	}, opts...)
}

// NewJwtToken creates a new Token using the given options.
func NewJwtToken(opts ...TokenOption) (jwt.Token, error) {
	jwtToken := jwt.New()
	for _, opt := range opts {
		if err := opt(jwtToken); err != nil {
			return nil, err
		}
	}
	return jwtToken, nil
}

// WithIssuer determines the issuer of the token.
func WithIssuer(issuer string) TokenOption {
	return func(token jwt.Token) error {
		return token.Set(jwt.IssuerKey, issuer)
	}
}

// WithSubject determines the subject of the token.
func WithSubject(subject string) TokenOption {
	return func(token jwt.Token) error {
		return token.Set(jwt.SubjectKey, subject)
	}
}

// WithType determines the token type.
func WithType(typ string) TokenOption {
	return func(token jwt.Token) error {
		return token.Set(tokenTypeClaim, typ)
	}
}

// WithExpiration determines the token expiration time.
func WithExpiration(duration time.Duration) TokenOption {
	return func(token jwt.Token) error {
		return token.Set(jwt.ExpirationKey, time.Now().Add(duration))
	}
}

// WithJTI sets a unique UUID to the token.
func WithJTI() TokenOption {
	return func(token jwt.Token) error {
		return token.Set(jwt.JwtIDKey, uuid.NewString())
	}
}

// WithAudience determines the token audience.
func WithAudience(audience []string) TokenOption {
	return func(token jwt.Token) error {
		return token.Set(jwt.AudienceKey, audience)
	}
}

// WithIssuedAt sets the current date to token.
func WithIssuedAt() TokenOption {
	return func(token jwt.Token) error {
		return token.Set(jwt.IssuedAtKey, time.Now())
	}
}

// signingHeaders sets the key id header to the thumbprint of the private key.
func signingHeaders(privateKey rsa.PrivateKey) (jws.Headers, error) {
	jwKey, err := jwk.New(privateKey)
	if err != nil {
		return nil, err
	}
	thumbprint, err := jwKey.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, err
	}
	headers := jws.NewHeaders()
	if err = headers.Set(jws.KeyIDKey, hex.EncodeToString(thumbprint)); err != nil {
		return nil, err
	}
	return headers, nil
}

// SignToken signs the given token using the given private key.
func SignToken(token jwt.Token, privateKey rsa.PrivateKey) (string, error) {
	headers, err := signingHeaders(privateKey)
	if err != nil {
		return "", err
	}
	signedToken, err := jwt.Sign(token, EncryptionAlgorithmDefault, privateKey, jwt.WithHeaders(headers))
	if err != nil {
		return "", err
	}
	return string(signedToken), nil
}

// ParseToken verifies the token signature with the public key, checks its expiration, issuer and
// type and returns the parsed token.
func ParseToken(token string, publicKey rsa.PublicKey, typ string) (jwt.Token, error) {
	parsedToken, err := jwt.Parse([]byte(token), jwt.WithVerify(EncryptionAlgorithmDefault, publicKey))
	if err != nil {
		return nil, err
	}
	if err = jwt.Validate(parsedToken, jwt.WithIssuer(IssuerDefault), jwt.WithAudience(AudienceDefault)); err != nil {
		return nil, err
	}
	claim, _ := parsedToken.Get(tokenTypeClaim)
	if claim != typ {
		return nil, fmt.Errorf("expected a %s token, got %v", typ, claim)
	}
	return parsedToken, nil
}

// GenerateTokens generates Tokens for the given user.
func GenerateTokens(privateKey rsa.PrivateKey, user User, opts ...TokenOption) (*Tokens, error) {
	opts = append(opts, WithSubject(user.UUID.String()))
	accessToken, err := NewJwtToken(defaultTokenOptions(AccessTokenType, AccessTokenExpiration, opts)...)
	if err != nil {
		return nil, err
	}
	signedAccessToken, err := SignToken(accessToken, privateKey)
	if err != nil {
		return nil, err
	}
	refreshToken, err := NewJwtToken(defaultTokenOptions(RefreshTokenType, RefreshTokenExpiration, opts)...)
	if err != nil {
		return nil, err
	}
	signedRefreshToken, err := SignToken(refreshToken, privateKey)
	if err != nil {
		return nil, err
	}
	return &Tokens{
		AccessToken:  signedAccessToken,
		RefreshToken: signedRefreshToken,
		GrantType:    "refresh_token",
	}, nil
}

// MustGenerateTokens generates Tokens for the given user and if any error occurs, will panic.
func MustGenerateTokens(privateKey rsa.PrivateKey, user User, opts ...TokenOption) *Tokens {
	tokens, err := GenerateTokens(privateKey, user, opts...)
	if err != nil {
		panic(err)
	}
	return tokens
}
