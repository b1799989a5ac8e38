package handlers

import (
	"errors"
	"log"
	"net/http"

	"food-ordering-api/payment"
	"food-ordering-api/service"
	"food-ordering-api/storage"

	"github.com/gin-gonic/gin"
)

// respondError translates service errors into the {message, kind} envelope.
// Internal details never reach the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, payment.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error(), "kind": "validation"})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error(), "kind": "not_found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error(), "kind": "forbidden"})
	case errors.Is(err, service.ErrInvalidCart):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error(), "kind": "invalid_cart"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error(), "kind": "invalid_transition"})
	case errors.Is(err, service.ErrTransitionConflict):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error(), "kind": "conflict"})
	case errors.Is(err, service.ErrPaymentRejected):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error(), "kind": "payment_rejected"})
	case errors.Is(err, payment.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{
			"message":   "Payment gateway unavailable, please retry",
			"kind":      "gateway_unavailable",
			"retryable": true,
		})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "kind": "internal"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error(), "kind": "validation"})
}
