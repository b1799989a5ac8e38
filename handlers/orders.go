package handlers

import (
	"net/http"
	"strconv"

	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/pricing"
	"food-ordering-api/service"

	"github.com/gin-gonic/gin"
)

// PlaceOrderRequest mirrors the checkout payload. Client-submitted amounts
// (total_amount, item price) are accepted for display reconciliation only;
// the server recomputes everything from the catalog.
type PlaceOrderRequest struct {
	OrderData struct {
		UserID          uint                 `json:"user_id"` // ignored, identity comes from the token
		RestaurantID    uint                 `json:"restaurant_id" binding:"required"`
		TotalAmount     pricing.Cents        `json:"total_amount"` // non-authoritative
		DeliveryAddress string               `json:"delivery_address" binding:"required"`
		PaymentMethod   models.PaymentMethod `json:"payment_method" binding:"required"`
	} `json:"orderData" binding:"required"`
	Items []struct {
		MenuItemID uint          `json:"menu_item_id" binding:"required"`
		Quantity   int           `json:"quantity" binding:"required,min=1"`
		Price      pricing.Cents `json:"price"` // non-authoritative
	} `json:"items" binding:"required,min=1"`
}

// PlaceOrder creates a new order for the authenticated customer.
func (h *Handler) PlaceOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	input := service.PlaceOrderInput{
		UserID:          userID,
		RestaurantID:    req.OrderData.RestaurantID,
		DeliveryAddress: req.OrderData.DeliveryAddress,
		PaymentMethod:   req.OrderData.PaymentMethod,
		IdempotencyKey:  c.GetHeader("Idempotency-Key"),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.CartLine{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		})
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
		"items":   order.Items,
	})
}

// GetOrder returns one order with its items. Owner or admin only.
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.store.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order.UserID != middleware.GetUserID(c) && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "This order does not belong to you", "kind": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": order.Items})
}

// GetUserOrders returns all orders of a user. Self or admin only.
func (h *Handler) GetUserOrders(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id", "kind": "validation"})
		return
	}
	userID := uint(id)
	if userID != middleware.GetUserID(c) && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied", "kind": "forbidden"})
		return
	}
	orders, err := h.store.ListOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus drives the order state machine. Admins move orders
// forward; the owning customer may only cancel, and only while the
// cancellation window is open.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orders.Transition(c.Request.Context(), id, req.Status,
		middleware.GetRole(c), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}
