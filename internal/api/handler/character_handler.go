package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dndvault/character-api/internal/api/metrics"
	"github.com/dndvault/character-api/internal/core/ports"
)

// CharacterHandler handles HTTP requests for the caller's own characters.
// Every route sits behind the Auth middleware; failures are returned to the
// shared error handler for classification.
type CharacterHandler struct {
	service ports.CharacterService
}

func NewCharacterHandler(service ports.CharacterService) *CharacterHandler {
	return &CharacterHandler{service: service}
}

// List handles GET /characters.
//
// @Summary      List my characters
// @Description  Returns every character owned by the caller, newest first.
// @Tags         characters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   characterResponse
// @Failure      401  {object}  apierror.Response
// @Failure      500  {object}  apierror.Response
// @Failure      503  {object}  apierror.Response
// @Router       /characters [get]
func (h *CharacterHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	chars, err := h.service.List(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(chars))
}

// Create handles POST /characters.
//
// @Summary      Create a character
// @Description  level, hp_current and hp_max default to 1; spell_slots and spells_known default to empty.
// @Tags         characters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCharacterRequest  true  "Character"
// @Success      201   {object}  characterResponse
// @Failure      400   {object}  apierror.Response
// @Failure      401   {object}  apierror.Response
// @Failure      500   {object}  apierror.Response
// @Failure      503   {object}  apierror.Response
// @Router       /characters [post]
func (h *CharacterHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createCharacterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), user, toCreateInput(req))
	if err != nil {
		return err
	}

	metrics.CharactersCreatedTotal.WithLabelValues(created.ClassName).Inc()
	return c.JSON(http.StatusCreated, toCharacterResponse(created))
}

// Get handles GET /characters/:id.
//
// @Summary      Get one of my characters
// @Tags         characters
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Character ID"
// @Success      200  {object}  characterResponse
// @Failure      401  {object}  apierror.Response
// @Failure      404  {object}  apierror.Response
// @Failure      500  {object}  apierror.Response
// @Failure      503  {object}  apierror.Response
// @Router       /characters/{id} [get]
func (h *CharacterHandler) Get(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	char, err := h.service.Get(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCharacterResponse(char))
}

// Update handles PUT /characters/:id.
//
// @Summary      Update one of my characters
// @Description  Partial update. id, user_id and created_at in the body are ignored.
// @Tags         characters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Character ID"
// @Param        body  body      updateCharacterRequest  true  "Fields to change"
// @Success      200   {object}  characterResponse
// @Failure      400   {object}  apierror.Response
// @Failure      401   {object}  apierror.Response
// @Failure      404   {object}  apierror.Response
// @Failure      500   {object}  apierror.Response
// @Failure      503   {object}  apierror.Response
// @Router       /characters/{id} [put]
func (h *CharacterHandler) Update(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateCharacterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), user, c.Param("id"), toPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCharacterResponse(updated))
}

// Delete handles DELETE /characters/:id.
//
// @Summary      Delete one of my characters
// @Tags         characters
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Character ID"
// @Success      200  {object}  successResponse
// @Failure      401  {object}  apierror.Response
// @Failure      404  {object}  apierror.Response
// @Failure      500  {object}  apierror.Response
// @Failure      503  {object}  apierror.Response
// @Router       /characters/{id} [delete]
func (h *CharacterHandler) Delete(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// IssueShare handles POST /characters/:id/share.
//
// @Summary      Issue a share link
// @Description  Replaces any existing share token. The token grants read-only access for 30 days.
// @Tags         sharing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Character ID"
// @Success      200  {object}  shareTokenResponse
// @Failure      401  {object}  apierror.Response
// @Failure      404  {object}  apierror.Response
// @Failure      500  {object}  apierror.Response
// @Failure      503  {object}  apierror.Response
// @Router       /characters/{id}/share [post]
func (h *CharacterHandler) IssueShare(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	grant, err := h.service.IssueShareToken(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.ShareTokensTotal.WithLabelValues("issued").Inc()
	return c.JSON(http.StatusOK, shareTokenResponse{
		ShareToken: grant.Token,
		ExpiresAt:  grant.ExpiresAt.UTC(),
	})
}

// RevokeShare handles DELETE /characters/:id/share.
//
// @Summary      Revoke the share link
// @Description  Idempotent: succeeds even when no token exists.
// @Tags         sharing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Character ID"
// @Success      200  {object}  successResponse
// @Failure      401  {object}  apierror.Response
// @Failure      500  {object}  apierror.Response
// @Failure      503  {object}  apierror.Response
// @Router       /characters/{id}/share [delete]
func (h *CharacterHandler) RevokeShare(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.RevokeShareToken(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}

	metrics.ShareTokensTotal.WithLabelValues("revoked").Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
