package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness; always 200
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Universal Comments API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
