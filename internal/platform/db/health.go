package db

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler reports liveness of the API and its database connection.
func HealthHandler(client *mongo.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		status := http.StatusOK
		if err := client.Ping(ctx, nil); err != nil {
			dbStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}

		return c.JSON(status, map[string]string{
			"status":   "ok",
			"database": dbStatus,
		})
	}
}
