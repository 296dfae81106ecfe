package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dndvault/character-api/internal/api/middleware"
	"github.com/dndvault/character-api/internal/core/domain"
)

// ctxUser extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: presence of both id
// and email proves the middleware ran and the provider vouched for them.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserKey).(*domain.User)
	if user == nil || user.ID == "" || user.Email == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		if errors.Is(err, domain.ErrInvalidCharacter) {
			return echo.NewHTTPError(http.StatusBadRequest, domain.ErrInvalidSpellSlot.Error()).SetInternal(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
