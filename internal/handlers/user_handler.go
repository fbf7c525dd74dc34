package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/middleware"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
	"github.com/SimpnicServerTeam/scs-blog-server/internal/service"
)

type UserHandler struct {
	AuthService service.AuthGenerator
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authService service.AuthGenerator) *UserHandler {
	return &UserHandler{AuthService: authService}
}

func sessionMeta(c echo.Context) models.SessionMeta {
	return models.SessionMeta{
		Host:      c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

// Signup registers a new user and returns a token for the first session.
func (h *UserHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.AuthService.Signup(c.Request().Context(), req, sessionMeta(c))
	if err != nil {
		return httpError("UserHandler.Signup", err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Signin exchanges email and password for a token.
func (h *UserHandler) Signin(c echo.Context) error {
	var req models.SigninRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.AuthService.Signin(c.Request().Context(), req, sessionMeta(c))
	if err != nil {
		return httpError("UserHandler.Signin", err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	info, err := h.AuthService.Me(c.Request().Context(), userID)
	if err != nil {
		return httpError("UserHandler.Me", err)
	}
	return c.JSON(http.StatusOK, info)
}

// ChangePassword replaces the password and signs out every other session.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req models.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.AuthService.ChangePassword(c.Request().Context(), userID, middleware.SessionID(c), req); err != nil {
		return httpError("UserHandler.ChangePassword", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed"})
}

// Signout ends the current session.
func (h *UserHandler) Signout(c echo.Context) error {
	if err := h.AuthService.Signout(c.Request().Context(), middleware.SessionID(c)); err != nil {
		return httpError("UserHandler.Signout", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully signed out"})
}

// SignoutAll ends every other session of the caller.
func (h *UserHandler) SignoutAll(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	removed, err := h.AuthService.SignoutAll(c.Request().Context(), userID, middleware.SessionID(c))
	if err != nil {
		return httpError("UserHandler.SignoutAll", err)
	}

	log.Info().Int64("userID", userID).Int64("sessions", removed).Msg("[UserHandler.SignoutAll] signed out other sessions")
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully signed out other sessions", "sessionsSignedOut": removed})
}
