package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dndvault/character-api/internal/api/metrics"
	"github.com/dndvault/character-api/internal/core/domain"
	"github.com/dndvault/character-api/internal/core/ports"
)

// ShareHandler serves shared characters to anonymous readers.
type ShareHandler struct {
	service ports.CharacterService
}

func NewShareHandler(service ports.CharacterService) *ShareHandler {
	return &ShareHandler{service: service}
}

// Resolve handles GET /share/:token. No authentication is required; the
// token itself is the credential.
//
// @Summary      View a shared character
// @Tags         sharing
// @Produce      json
// @Param        token  path      string  true  "Share token (UUID)"
// @Success      200    {object}  sharedCharacterResponse
// @Failure      400    {object}  apierror.Response
// @Failure      404    {object}  apierror.Response
// @Failure      500    {object}  apierror.Response
// @Router       /share/{token} [get]
func (h *ShareHandler) Resolve(c echo.Context) error {
	shared, err := h.service.ResolveShareToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		metrics.ShareResolutionsTotal.WithLabelValues(resolutionResult(err)).Inc()
		return err
	}

	metrics.ShareResolutionsTotal.WithLabelValues("found").Inc()
	return c.JSON(http.StatusOK, toSharedResponse(shared))
}

func resolutionResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidShareToken):
		return "invalid"
	case errors.Is(err, domain.ErrCharacterNotFound):
		return "not_found"
	default:
		return "error"
	}
}
