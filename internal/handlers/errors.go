package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/middleware"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/repository"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/service"
)

// httpError maps service and repository errors to HTTP responses. Anything
// unrecognised becomes a 500 with a generic message; the cause stays internal.
func httpError(op string, err error) *echo.HTTPError {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials").SetInternal(err)
	case errors.Is(err, repository.ErrUserExists):
		return echo.NewHTTPError(http.StatusConflict, "Email is already registered").SetInternal(err)
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can modify this post").SetInternal(err)
	case errors.Is(err, repository.ErrPostNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Post not found").SetInternal(err)
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated").SetInternal(err)
	}

	log.Error().Err(err).Msgf("[%s] unexpected error", op)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusBadRequest {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

func currentUserID(c echo.Context) (int64, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		log.Error().Msg("[handlers] userID missing from context, auth middleware not applied")
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return userID, nil
}

func postIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}
	return id, nil
}
