// Package mw holds echo middleware shared by every route group.
package mw

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	userIDKey   = "userID"
	userNameKey = "userName"
)

// Claims is the session token issued by the web app's auth layer.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth rejects requests without a valid HS256 bearer token and stores the
// caller's id and display name in echo.Context.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, ok := bearer(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if err := authenticate(c, secret, tokenStr); err != nil {
				log.Debug().Err(err).Msg("JWT verification failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			return next(c)
		}
	}
}

// OptionalJWTAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalJWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tokenStr, ok := bearer(c); ok {
				if err := authenticate(c, secret, tokenStr); err != nil {
					log.Debug().Err(err).Msg("ignoring invalid optional token")
				}
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated caller, if any.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	return id, ok
}

// UserName returns the caller's display name; empty when the token had none.
func UserName(c echo.Context) string {
	name, _ := c.Get(userNameKey).(string)
	return name
}

// SignToken issues a token accepted by JWTAuth.
func SignToken(secret []byte, userID uuid.UUID, name string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = userID.String()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Name: name, RegisteredClaims: claims}).SignedString(secret)
}

func bearer(c echo.Context) (string, bool) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return tok, tok != ""
}

func authenticate(c echo.Context, secret []byte, tokenStr string) error {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return errors.New("subject is not a user id")
	}

	c.Set(userIDKey, id)
	c.Set(userNameKey, claims.Name)
	return nil
}
