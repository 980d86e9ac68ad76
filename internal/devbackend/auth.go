package devbackend

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	ctxAccountKey  = "account"
	bearerScheme   = "bearer"
	wwwAuthHeader  = "WWW-Authenticate"
	wwwAuthBearer  = "Bearer"
	msgBadCredents = "Could not validate credentials"
)

// tokenClaims mirrors what the SAMARTH API puts in its access tokens.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (t tokenIssuer) issue(username, role string) (string, error) {
	now := t.now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t tokenIssuer) parse(raw string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// auth validates the bearer token, resolves the account it names and injects
// it into the context.
func auth(tokens tokenIssuer, store *Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			unauthorized := func() error {
				c.Response().Header().Set(wwwAuthHeader, wwwAuthBearer)
				return echo.NewHTTPError(http.StatusUnauthorized, msgBadCredents)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
				return unauthorized()
			}

			claims, err := tokens.parse(parts[1])
			if err != nil || claims.Subject == "" {
				return unauthorized()
			}

			acc, ok := store.AccountByUsername(claims.Subject)
			if !ok {
				return unauthorized()
			}
			if !acc.IsActive {
				return echo.NewHTTPError(http.StatusBadRequest, "Inactive user")
			}

			c.Set(ctxAccountKey, acc)
			return next(c)
		}
	}
}

// requireRole rejects callers whose account role is not listed.
func requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc := currentAccount(c)
			for _, r := range roles {
				if acc.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Not authorized")
		}
	}
}
