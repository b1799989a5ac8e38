package handlers

import (
	"net/http"

	"food-ordering-api/middleware"

	"github.com/gin-gonic/gin"
)

type CreatePaymentRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// CreatePayment opens a payment intent with the gateway for an order that
// needs an upfront payment step. A gateway failure leaves the order in its
// prior pending/pending state.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	intent, err := h.orders.CreatePaymentIntent(c.Request.Context(), req.OrderID, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

type VerifyPaymentRequest struct {
	OrderID           uint   `json:"order_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPayment checks the provider's completion callback signature. On
// success the order moves to confirmed; on rejection the payment is marked
// failed and the order stays pending for retry or cancellation.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.VerifyPayment(c.Request.Context(), req.OrderID, middleware.GetUserID(c),
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment verified successfully",
		"order":   order,
	})
}
