package handlers

import (
	"net/http"
	"strconv"

	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id", "kind": "validation"})
		return 0, false
	}
	return uint(id), true
}

// ListRestaurants returns active restaurants, optionally filtered by cuisine
// category (case-insensitive exact match).
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.store.ListRestaurants(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// GetRestaurant returns a single active restaurant
func (h *Handler) GetRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.store.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu returns the available menu items for a restaurant
func (h *Handler) GetMenu(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.store.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	items, err := h.store.ListMenuItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant.Name,
		"count":      len(items),
		"menu":       items,
	})
}

// GetMenuItem returns a single menu item
func (h *Handler) GetMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := h.store.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu_item": item})
}

// GetStateMachineInfo returns the full order state machine for documentation
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{"delivered", "cancelled", "payment_failed"},
		"description":     "Order Lifecycle State Machine",
	})
}
