package handler

import (
	"github.com/labstack/echo/v4"

	"promostore/internal/infrastructure/firebase"
	"promostore/internal/usecase"
	"promostore/pkg/errors"
	"promostore/pkg/response"
)

// DevTokenHandler signs short-lived local tokens and creates test users so
// the stack can be exercised without a browser login flow. Only routed in
// development.
type DevTokenHandler struct {
	devTokens      *firebase.DevTokenGenerator
	authClient     *firebase.FirebaseAuthClient
	profileUseCase *usecase.ProfileUseCase
}

func NewDevTokenHandler(
	devTokens *firebase.DevTokenGenerator,
	authClient *firebase.FirebaseAuthClient,
	profileUseCase *usecase.ProfileUseCase,
) *DevTokenHandler {
	return &DevTokenHandler{
		devTokens:      devTokens,
		authClient:     authClient,
		profileUseCase: profileUseCase,
	}
}

type devTokenRequest struct {
	UID string `json:"uid" validate:"required"`
}

type devUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
}

func (h *DevTokenHandler) IssueToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	token, err := h.devTokens.Generate(req.UID)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to sign token", err))
	}

	return response.Success(c, map[string]string{"token": token})
}

// CreateUser registers a Firebase user plus its profile row and hands back a
// local token for it in one call.
func (h *DevTokenHandler) CreateUser(c echo.Context) error {
	var req devUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ctx := c.Request().Context()

	uid, err := h.authClient.CreateUser(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to create user", err))
	}

	if _, err := h.profileUseCase.UpdateProfile(ctx, uid, usecase.UpdateProfileInput{
		FullName: req.FullName,
	}); err != nil {
		return response.Error(c, err)
	}

	token, err := h.devTokens.Generate(uid)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to sign token", err))
	}

	return response.Created(c, map[string]string{"uid": uid, "token": token})
}
