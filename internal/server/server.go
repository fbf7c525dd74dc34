package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/logger"
)

const liveMessage = "server is active & Working hard!! fighto"

// New creates and configures an Echo app instance
func New() (*echo.Echo, error) {
	validator, err := NewRequestValidator()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = validator

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/test", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": liveMessage})
	})
	return e, nil
}
