package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Message string `json:"message"`
}

// Health handles GET /api/health and GET /api/health/admin.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Message: "Server is running"})
}
