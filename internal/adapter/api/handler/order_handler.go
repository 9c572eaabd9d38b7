package handler

import (
	"github.com/labstack/echo/v4"

	"promostore/internal/usecase"
	"promostore/pkg/response"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type updateOrderStatusRequest struct {
	Status        string `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=unpaid paid"`
}

// Checkout converts the caller's cart into a new order.
func (h *OrderHandler) Checkout(c echo.Context) error {
	uid := c.Get("uid").(string)

	order, err := h.orderUseCase.Checkout(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	uid := c.Get("uid").(string)

	orders, err := h.orderUseCase.ListUserOrders(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	uid := c.Get("uid").(string)
	isAdmin, _ := c.Get("is_admin").(bool)

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), uid, c.Param("id"), isAdmin)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	orders, err := h.orderUseCase.ListAllOrders(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, orders)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.UpdateStatus(c.Request().Context(), c.Param("id"), usecase.UpdateOrderStatusInput{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}
