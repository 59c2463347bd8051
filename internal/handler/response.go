package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success writes data as the JSON body; a zero status means 200.
func Success(c echo.Context, status int, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, data)
}

// Error writes {"error": message}; a zero status means 500.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Error: message})
}
