package handler

import (
	"github.com/labstack/echo/v4"

	"promostore/internal/usecase"
	"promostore/pkg/response"
)

type ContentHandler struct {
	contentUseCase *usecase.ContentUseCase
}

func NewContentHandler(contentUseCase *usecase.ContentUseCase) *ContentHandler {
	return &ContentHandler{
		contentUseCase: contentUseCase,
	}
}

type saveContentRequest struct {
	Content    string `json:"content" validate:"required"`
	OrderIndex int    `json:"order_index"`
}

func (h *ContentHandler) ListBlocks(c echo.Context) error {
	blocks, err := h.contentUseCase.ListBlocks(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, blocks)
}

func (h *ContentHandler) GetBlock(c echo.Context) error {
	block, err := h.contentUseCase.GetBlock(c.Request().Context(), c.Param("key"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, block)
}

func (h *ContentHandler) SaveBlock(c echo.Context) error {
	var req saveContentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	block, err := h.contentUseCase.SaveBlock(c.Request().Context(), c.Param("key"), req.Content, req.OrderIndex)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, block)
}
