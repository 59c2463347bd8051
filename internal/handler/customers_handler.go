package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/octobees/engagesphere/api/internal/dto"
	"github.com/octobees/engagesphere/api/internal/service"
)

// CustomersHandler exposes the customer directory.
type CustomersHandler struct {
	service *service.CustomersService
}

// NewCustomersHandler creates a new handler instance.
func NewCustomersHandler(service *service.CustomersService) *CustomersHandler {
	return &CustomersHandler{service: service}
}

// List handles GET /customers requests.
func (h *CustomersHandler) List(c echo.Context) error {
	params := c.QueryParams()
	query := dto.ListQuery{
		Page:     queryValue(params, "page"),
		Limit:    queryValue(params, "limit"),
		Size:     queryValue(params, "size"),
		Industry: queryValue(params, "industry"),
	}

	ctx := c.Request().Context()
	result, err := h.service.ListCustomers(ctx, query)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return Error(c, http.StatusBadRequest, verr.Message)
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("list customers failed")
		return Error(c, http.StatusInternalServerError, "failed to list customers")
	}

	return Success(c, http.StatusOK, result)
}

// queryValue returns nil when key is absent so that "?page=" stays distinguishable from no page.
func queryValue(params url.Values, key string) *string {
	values, ok := params[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
