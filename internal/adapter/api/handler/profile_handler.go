package handler

import (
	"github.com/labstack/echo/v4"

	"promostore/internal/usecase"
	"promostore/pkg/response"
)

type ProfileHandler struct {
	profileUseCase *usecase.ProfileUseCase
}

func NewProfileHandler(profileUseCase *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

type updateProfileRequest struct {
	FullName  string `json:"full_name" validate:"required,max=100"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	profile, err := h.profileUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.profileUseCase.UpdateProfile(c.Request().Context(), uid, usecase.UpdateProfileInput{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *ProfileHandler) ListUsers(c echo.Context) error {
	users, err := h.profileUseCase.ListUsers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}
