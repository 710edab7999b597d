package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopapi/internal/session"
)

// RequireSession guards a route group behind a valid session cookie. On
// success the resolved user is set on the echo context under "user" and
// "userID"; on failure the request is short-circuited with 401.
func RequireSession(sessions *session.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
			}

			user, err := sessions.Validate(cookie.Value)
			if err != nil {
				if errors.Is(err, session.ErrUnauthorized) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
			}

			c.Set("user", user)
			c.Set("userID", user.ID)
			return next(c)
		}
	}
}
