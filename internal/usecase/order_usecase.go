package usecase

import (
	"context"
	"encoding/json"

	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	ws "promostore/internal/infrastructure/websocket"
	"promostore/pkg/errors"
	"promostore/pkg/logger"
)

// Seeded into the order's conversation right after checkout.
const orderCreatedMessage = "Order created. An administrator will reply shortly."

type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	serviceRepo repository.ServiceRepository
	chatStore   *ChatStore
	wsManager   *ws.Manager
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	serviceRepo repository.ServiceRepository,
	chatStore *ChatStore,
	wsManager *ws.Manager,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		serviceRepo: serviceRepo,
		chatStore:   chatStore,
		wsManager:   wsManager,
	}
}

// Checkout turns the user's cart into a pending order. Order items, the
// opening chat message and the cart cleanup are best-effort: the order stands
// even when one of them fails.
func (uc *OrderUseCase) Checkout(ctx context.Context, userID string) (*entity.Order, error) {
	cartItems, err := uc.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, errors.BadRequest("Cart is empty", nil)
	}

	var total float64
	orderItems := make([]entity.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		price := 0.0
		if service, err := uc.serviceRepo.GetByID(ctx, item.ServiceID); err == nil {
			price = service.Price
		}
		total += price * float64(item.Quantity)
		orderItems = append(orderItems, entity.OrderItem{
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	order := &entity.Order{
		UserID:        userID,
		TotalAmount:   total,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusUnpaid,
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}
	if err := uc.orderRepo.CreateItems(ctx, orderItems); err != nil {
		logger.Warn("Failed to create items for order %s: %v", order.ID, err)
	} else {
		order.Items = orderItems
	}

	if _, err := uc.chatStore.InsertMessage(ctx, order.ID, userID, orderCreatedMessage, nil); err != nil {
		logger.Warn("Failed to seed chat for order %s: %v", order.ID, err)
	}

	if err := uc.cartRepo.DeleteByUser(ctx, userID); err != nil {
		logger.Warn("Failed to clear cart for user %s: %v", userID, err)
	}

	return order, nil
}

// GetOrder returns an order with its items. Non-admins only see their own.
func (uc *OrderUseCase) GetOrder(ctx context.Context, userID, orderID string, isAdmin bool) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID && !isAdmin {
		return nil, errors.Forbidden("You do not have access to this order", nil)
	}

	items, err := uc.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		logger.Warn("Failed to load items for order %s: %v", orderID, err)
	} else {
		order.Items = items
	}

	return order, nil
}

func (uc *OrderUseCase) ListUserOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	return uc.orderRepo.ListByUser(ctx, userID)
}

func (uc *OrderUseCase) ListAllOrders(ctx context.Context) ([]entity.Order, error) {
	return uc.orderRepo.List(ctx)
}

type UpdateOrderStatusInput struct {
	Status        string
	PaymentStatus string
}

// UpdateStatus mutates an order's status fields and pushes a notification at
// the owner's open chat sockets.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, orderID string, input UpdateOrderStatusInput) (*entity.Order, error) {
	if input.Status == "" && input.PaymentStatus == "" {
		return nil, errors.BadRequest("Nothing to update", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := uc.orderRepo.UpdateStatus(ctx, orderID, input.Status, input.PaymentStatus); err != nil {
		return nil, err
	}

	if input.Status != "" {
		order.Status = input.Status
	}
	if input.PaymentStatus != "" {
		order.PaymentStatus = input.PaymentStatus
	}

	uc.notifyStatusChange(order)

	return order, nil
}

func (uc *OrderUseCase) notifyStatusChange(order *entity.Order) {
	if uc.wsManager == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":           "order_status",
		"order_id":       order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})
	if err != nil {
		return
	}

	uc.wsManager.SendToUser(order.UserID, payload)
}
