package middleware

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/service"
)

// Context keys set by the auth middlewares.
const (
	ClaimsKey    = "claims"
	UserIDKey    = "userID"
	SessionIDKey = "sessionID"
)

// JWT parses "Authorization: Bearer <token>" into *models.Claims under ClaimsKey.
func JWT(tokens service.TokenGenerator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: ClaimsKey,
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			return tokens.ValidateToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, echojwt.ErrJWTMissing) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing").SetInternal(err)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token").SetInternal(err)
		},
	})
}

// Session rejects tokens whose session was signed out and exposes the
// caller's user id and session id to handlers. It must run after JWT.
func Session(auth service.AuthGenerator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(*models.Claims)
			if !ok {
				log.Error().Msgf("[middleware.Session] unexpected claims type %T in context", c.Get(ClaimsKey))
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			session, err := auth.VerifySession(c.Request().Context(), claims)
			if err != nil {
				if errors.Is(err, repository.ErrSessionNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Session expired or signed out").SetInternal(err)
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify session").SetInternal(err)
			}

			c.Set(UserIDKey, session.UserID)
			c.Set(SessionIDKey, session.SessionID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id set by Session.
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(UserIDKey).(int64)
	return id, ok && id > 0
}

// SessionID returns the current session id set by Session.
func SessionID(c echo.Context) string {
	id, _ := c.Get(SessionIDKey).(string)
	return id
}
