package service

import (
	"context"
	"errors"
	"fmt"

	"food-ordering-api/models"
	"food-ordering-api/payment"
	"food-ordering-api/pricing"
	"food-ordering-api/statemachine"
	"food-ordering-api/storage"
)

// OrderService orchestrates order placement, payment and status transitions.
// It owns all pricing decisions: client-submitted amounts are never trusted.
type OrderService struct {
	store              storage.Store
	gateway            payment.Gateway
	taxRateBasisPoints int64
}

func NewOrderService(store storage.Store, gateway payment.Gateway, taxRateBasisPoints int64) *OrderService {
	return &OrderService{
		store:              store,
		gateway:            gateway,
		taxRateBasisPoints: taxRateBasisPoints,
	}
}

// CartLine is one (menu item, quantity) selection from the client's cart.
// Any price the client sent alongside is discarded before it gets here.
type CartLine struct {
	MenuItemID uint
	Quantity   int
}

type PlaceOrderInput struct {
	UserID          uint
	RestaurantID    uint
	DeliveryAddress string
	PaymentMethod   models.PaymentMethod
	IdempotencyKey  string
	Items           []CartLine
}

// PlaceOrder validates the cart, re-prices it from the catalog, and persists
// the order with its line items atomically. A replayed request carrying the
// same idempotency key returns the originally created order.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	if in.DeliveryAddress == "" {
		return nil, fmt.Errorf("%w: delivery address is required", ErrValidation)
	}
	if !in.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
	}

	if in.IdempotencyKey != "" {
		existing, err := s.store.FindOrderByIdempotencyKey(ctx, in.UserID, in.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	restaurant, err := s.store.GetRestaurant(ctx, in.RestaurantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: restaurant not found", ErrNotFound)
		}
		return nil, err
	}

	// Re-resolve every price from the catalog. The snapshot taken here is
	// what the order keeps forever.
	var (
		items    []models.OrderItem
		subtotal pricing.Cents
	)
	for _, line := range in.Items {
		menuItem, err := s.store.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("%w: menu item %d not found", ErrValidation, line.MenuItemID)
			}
			return nil, err
		}
		if menuItem.RestaurantID != in.RestaurantID {
			return nil, fmt.Errorf("%w: menu item %q belongs to another restaurant", ErrInvalidCart, menuItem.Name)
		}
		if !menuItem.IsAvailable {
			return nil, fmt.Errorf("%w: menu item %q is not available", ErrValidation, menuItem.Name)
		}
		subtotal += menuItem.Price.Mul(line.Quantity)
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   line.Quantity,
			Price:      menuItem.Price,
			Name:       menuItem.Name,
		})
	}

	tax := pricing.Tax(subtotal, s.taxRateBasisPoints)
	order := &models.Order{
		UserID:          in.UserID,
		RestaurantID:    in.RestaurantID,
		Status:          models.StatusPending,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		Subtotal:        subtotal,
		DeliveryFee:     restaurant.DeliveryFee,
		Tax:             tax,
		TotalAmount:     subtotal + restaurant.DeliveryFee + tax,
		DeliveryAddress: in.DeliveryAddress,
		Items:           items,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		order.IdempotencyKey = &key
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) && in.IdempotencyKey != "" {
			// Lost the race against a concurrent replay; the winner's order
			// is the canonical one.
			return s.store.FindOrderByIdempotencyKey(ctx, in.UserID, in.IdempotencyKey)
		}
		return nil, err
	}
	return order, nil
}

// CreatePaymentIntent asks the gateway to open a charge for an order that
// needs an upfront payment step. Gateway failures leave the order exactly as
// it was; the caller may retry.
func (s *OrderService) CreatePaymentIntent(ctx context.Context, orderID, userID uint) (*payment.Intent, error) {
	order, err := s.getOwnedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if !order.PaymentMethod.RequiresIntent() {
		return nil, fmt.Errorf("%w: payment method %q needs no upfront payment", ErrValidation, order.PaymentMethod)
	}
	if order.PaymentStatus != models.PaymentPending {
		return nil, fmt.Errorf("%w: payment already %s", ErrValidation, order.PaymentStatus)
	}

	intent, err := s.gateway.CreateIntent(ctx, order.TotalAmount, order.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		return nil, err
	}
	return intent, nil
}

// VerifyPayment checks the provider's completion callback. Verified payments
// confirm the order; rejected ones mark the payment failed and leave the
// order pending so the customer can retry or cancel.
func (s *OrderService) VerifyPayment(ctx context.Context, orderID, userID uint, intentID, paymentID, signature string) (*models.Order, error) {
	order, err := s.getOwnedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.PaymentIntentID == "" || order.PaymentIntentID != intentID {
		return nil, fmt.Errorf("%w: unknown payment intent for this order", ErrValidation)
	}
	if order.PaymentStatus == models.PaymentCompleted {
		return order, nil
	}

	if err := s.gateway.VerifySignature(intentID, paymentID, signature); err != nil {
		if errors.Is(err, payment.ErrSignatureMismatch) {
			if err := s.store.SetPaymentStatus(ctx, order.ID, models.PaymentFailed); err != nil {
				return nil, err
			}
			return nil, ErrPaymentRejected
		}
		return nil, err
	}

	if err := s.store.SetPaymentStatus(ctx, order.ID, models.PaymentCompleted); err != nil {
		return nil, err
	}
	err = s.store.TransitionStatus(ctx, order.ID, models.StatusPending, models.StatusConfirmed, 0, "Payment verified")
	if err != nil && !errors.Is(err, storage.ErrConflict) {
		return nil, err
	}
	return s.store.GetOrder(ctx, order.ID)
}

// Transition applies a requested status change under the state machine's
// actor rules, with a compare-and-swap so concurrent requests get exactly
// one winner.
func (s *OrderService) Transition(ctx context.Context, orderID uint, target models.OrderStatus, role models.UserRole, actorID uint) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}

	actor := statemachine.ActorCustomer
	if role == models.RoleAdmin {
		actor = statemachine.ActorAdmin
	} else if order.UserID != actorID {
		return nil, fmt.Errorf("%w: this order does not belong to you", ErrForbidden)
	}

	if err := statemachine.CanTransition(order.Status, target, actor); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, err.Error())
	}

	note := fmt.Sprintf("Status changed by %s", actor)
	if err := s.store.TransitionStatus(ctx, orderID, order.Status, target, actorID, note); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrTransitionConflict
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}
	return s.store.GetOrder(ctx, orderID)
}

// ForceStatus is the admin override: it skips the transition table but is
// always recorded in the status history.
func (s *OrderService) ForceStatus(ctx context.Context, orderID uint, target models.OrderStatus, adminID uint, reason string) (*models.Order, error) {
	switch target {
	case models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		models.StatusOutForDelivery, models.StatusDelivered,
		models.StatusCancelled, models.StatusPaymentFailed:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}
	err := s.store.ForceStatus(ctx, orderID, target, adminID, "[ADMIN OVERRIDE] "+reason)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}
	return s.store.GetOrder(ctx, orderID)
}

func (s *OrderService) getOwnedOrder(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: this order does not belong to you", ErrForbidden)
	}
	return order, nil
}
