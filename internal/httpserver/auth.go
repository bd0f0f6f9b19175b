package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// RequireUser validates the bearer token issued by the external auth
// service and stores the numeric user id in the echo context. This
// module never issues or refreshes tokens.
func RequireUser(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == "" || raw == header {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
				if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set("user_id", claims.Subject)
			return next(c)
		}
	}
}

// GetUserID reads the user id placed in the context by RequireUser.
func GetUserID(c echo.Context) (uint, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return 0, errors.New("unauthorized")
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("unauthorized")
	}
	return uint(id), nil
}
