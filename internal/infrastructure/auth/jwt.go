// Package auth - вход администратора и проверка bearer-токенов (JWT HS256).
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"smartdeals/pkg/errcodes"
)

const issuer = "smartdeals"

type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Issuer выдаёт токены единственному администратору из конфигурации.
type Issuer struct {
	username string
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewIssuer(username, password, secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		username: username,
		password: password,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

func (i *Issuer) Login(username, password string) (Token, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(i.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(i.password)) == 1

	if !userOK || !passOK {
		return Token{}, failure.NewUnauthorizedError(
			"credentials mismatch",
			failure.WithCode(errcodes.CredentialsMismatch),
			failure.WithDescription("Invalid credentials"),
		)
	}

	now := i.now()
	expiresAt := now.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("token.SignedString: %w", err)
	}

	return Token{
		Value:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify возвращает имя администратора из валидного токена.
func (i *Issuer) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)

	switch {
	case err == nil && claims.Subject != "":
		return claims.Subject, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", failure.NewUnauthorizedError(
			err.Error(),
			failure.WithCode(errcodes.AccessTokenExpired),
			failure.WithDescription("Access token expired"),
		)
	default:
		msg := "empty subject"
		if err != nil {
			msg = err.Error()
		}

		return "", failure.NewUnauthorizedError(
			msg,
			failure.WithCode(errcodes.AccessTokenInvalid),
			failure.WithDescription("Access token invalid"),
		)
	}
}
