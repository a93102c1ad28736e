package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/proconnect/backend/internal/middleware"
	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// httpError maps a service error onto an HTTP status.
func httpError(err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

func success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"data":    data,
	})
}

func paginated(c echo.Context, data interface{}, p models.Pagination) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    data,
		"meta": echo.Map{
			"currentPage":     p.Page,
			"totalPages":      p.Pages,
			"totalItems":      p.Total,
			"itemsPerPage":    p.Limit,
			"hasNextPage":     p.HasNext(),
			"hasPreviousPage": p.Page > 1,
		},
	})
}

// bindAndValidate decodes the body into req and runs the installed validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

func currentAccount(c echo.Context) (models.AccountRef, error) {
	ref, ok := middleware.CurrentAccount(c)
	if !ok {
		return models.AccountRef{}, echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}
	return ref, nil
}

func uintParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

func objectIDParam(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := services.ParseObjectID(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// accountParam reads an account reference from a ":type/:id" route pair.
func accountParam(c echo.Context) (models.AccountRef, error) {
	id, err := uintParam(c, "id")
	if err != nil {
		return models.AccountRef{}, err
	}
	switch c.Param("type") {
	case "users":
		return models.UserRef(id), nil
	case "companies":
		return models.CompanyRef(id), nil
	}
	return models.AccountRef{}, echo.NewHTTPError(http.StatusBadRequest, "Unknown account type")
}

func pageQuery(c echo.Context, defaultLimit int) models.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return models.NewPage(page, limit, defaultLimit)
}
