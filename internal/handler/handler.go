package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"financetracker/internal/auth"
	"financetracker/internal/errors"
)

// IdentityContextKey is the echo.Context key holding the authenticated *auth.Identity.
const IdentityContextKey = "identity"

func currentIdentity(c echo.Context) *auth.Identity {
	identity, _ := c.Get(IdentityContextKey).(*auth.Identity)
	return identity
}

// httpError converts a domain error into an echo error carrying the JSON body.
func httpError(err error) *echo.HTTPError {
	mapped := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return httpError(errors.Invalid("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return httpError(errors.Invalid(err.Error()))
	}
	return nil
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}
