package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/pricing"

	"github.com/gin-gonic/gin"
)

// AdminStats returns dashboard aggregates
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminListOrders returns all orders with full detail, optionally filtered
// by status.
func (h *Handler) AdminListOrders(c *gin.Context) {
	orders, err := h.store.ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type CreateRestaurantRequest struct {
	Name         string        `json:"name" binding:"required"`
	Description  string        `json:"description"`
	Cuisine      string        `json:"cuisine" binding:"required"`
	Image        string        `json:"image"`
	Rating       float64       `json:"rating"`
	DeliveryTime string        `json:"delivery_time"`
	DeliveryFee  pricing.Cents `json:"delivery_fee" binding:"required"`
}

// AdminListRestaurants returns every restaurant, inactive ones included.
func (h *Handler) AdminListRestaurants(c *gin.Context) {
	restaurants, err := h.store.ListAllRestaurants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

// AdminCreateRestaurant adds a restaurant to the catalog
func (h *Handler) AdminCreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	restaurant := models.Restaurant{
		Name:         req.Name,
		Description:  req.Description,
		Cuisine:      req.Cuisine,
		Image:        req.Image,
		Rating:       req.Rating,
		DeliveryTime: req.DeliveryTime,
		DeliveryFee:  req.DeliveryFee,
		IsActive:     true,
	}
	if err := h.store.CreateRestaurant(c.Request.Context(), &restaurant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

// AdminDeactivateRestaurant soft-deactivates a restaurant. Orders keep their
// reference; the restaurant simply stops being listed.
func (h *Handler) AdminDeactivateRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeactivateRestaurant(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deactivated", "restaurant_id": id})
}

type CreateMenuItemRequest struct {
	RestaurantID uint          `json:"restaurant_id" binding:"required"`
	Name         string        `json:"name" binding:"required"`
	Description  string        `json:"description"`
	Price        pricing.Cents `json:"price" binding:"required"`
	Image        string        `json:"image"`
	Category     string        `json:"category"`
}

// AdminCreateMenuItem adds a menu item to a restaurant
func (h *Handler) AdminCreateMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.store.GetRestaurant(c.Request.Context(), req.RestaurantID); err != nil {
		respondError(c, err)
		return
	}
	item := models.MenuItem{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Image:        req.Image,
		Category:     req.Category,
		IsAvailable:  true,
	}
	if err := h.store.CreateMenuItem(c.Request.Context(), &item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item created", "menu_item": item})
}

// AdminUpdateMenuItem edits a menu item (price, availability). Existing order
// snapshots keep their historical prices.
func (h *Handler) AdminUpdateMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	allowed := map[string]bool{"name": true, "description": true, "price": true, "image": true, "category": true, "is_available": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if !allowed[k] {
			continue
		}
		if k == "price" {
			s, ok := v.(string)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"message": "price must be a decimal string like \"12.99\"", "kind": "validation"})
				return
			}
			price, err := pricing.ParseCents(s)
			if err != nil {
				badRequest(c, err)
				return
			}
			update[k] = price
			continue
		}
		update[k] = v
	}
	item, err := h.store.UpdateMenuItem(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "menu_item": item})
}

type ForceOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Reason string             `json:"reason"`
}

// AdminForceOrderStatus lets admin override any order state. The override
// skips the transition table but is always recorded in the status history.
func (h *Handler) AdminForceOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ForceOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.ForceStatus(c.Request.Context(), id, req.Status,
		middleware.GetUserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Order status force-updated by admin",
		"order_id":   order.ID,
		"new_status": order.Status,
	})
}
