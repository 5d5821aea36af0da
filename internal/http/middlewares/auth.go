package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow.dev/taskflow/internal/identity"
	repository "taskflow.dev/taskflow/internal/repositories"
)

const UserIDKey = "userID"

// Auth validates the bearer token and resolves the caller. Users are
// provisioned on first authenticated sighting so foreign keys always have a
// row to point at; the identity provider remains the source of truth for
// credentials.
func Auth(verifier *identity.Verifier, users *repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := identity.FromAuthHeader(c.Request().Header.Get("Authorization"))
			if err != nil {
				return unauthorized(c)
			}

			claims, err := verifier.Parse(token)
			if err != nil {
				return unauthorized(c)
			}

			if err := users.Ensure(c.Request().Context(), claims.UserID, claims.Username); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve user")
			}

			c.Set(UserIDKey, claims.UserID)
			return next(c)
		}
	}
}

// unauthorized carries the requested path back so a client can resume where
// it was after authenticating.
func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"message": "authentication required",
		"next":    c.Request().URL.Path,
	})
}
