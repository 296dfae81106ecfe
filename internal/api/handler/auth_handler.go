package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dndvault/character-api/internal/api/middleware"
	"github.com/dndvault/character-api/internal/core/domain"
	"github.com/dndvault/character-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt.UTC()}
}

// SignUp creates a new account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  apierror.Response
// @Failure      409   {object}  apierror.Response
// @Failure      500   {object}  apierror.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrUserExists:
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		case domain.ErrInvalidCredentials:
			return echo.NewHTTPError(http.StatusBadRequest, "a valid email and a password of at least 6 characters are required")
		}
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// SignIn authenticates a user and returns a bearer token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Email and password"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  apierror.Response
// @Failure      401   {object}  apierror.Response
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   session.ExpiresAt.UTC(),
		User:        toUserResponse(session.User),
	})
}

// SignOut revokes the bearer token used for this request.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse
// @Failure      401  {object}  apierror.Response
// @Failure      500  {object}  apierror.Response
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	token, _ := c.Get(middleware.TokenKey).(string)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	if err := h.authService.SignOut(c.Request().Context(), token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
