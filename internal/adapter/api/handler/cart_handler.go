package handler

import (
	"github.com/labstack/echo/v4"

	"promostore/internal/usecase"
	"promostore/pkg/response"
)

type CartHandler struct {
	cartUseCase *usecase.CartUseCase
}

func NewCartHandler(cartUseCase *usecase.CartUseCase) *CartHandler {
	return &CartHandler{
		cartUseCase: cartUseCase,
	}
}

type addCartItemRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	uid := c.Get("uid").(string)

	items, err := h.cartUseCase.GetCart(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.cartUseCase.AddItem(c.Request().Context(), uid, req.ServiceID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.cartUseCase.UpdateQuantity(c.Request().Context(), uid, c.Param("id"), req.Quantity); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Cart updated"})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.cartUseCase.RemoveItem(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Item removed"})
}
