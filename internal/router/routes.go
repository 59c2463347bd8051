package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/engagesphere/api/internal/config"
	"github.com/octobees/engagesphere/api/internal/handler"
	middlewarepkg "github.com/octobees/engagesphere/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Customers *handler.CustomersHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/customers", handlers.Customers.List, middlewarepkg.RateLimiter(cfg.RateLimitCustomers))
}
