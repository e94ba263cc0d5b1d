package api

import (
	"net/http"

	"storefront-service/internal/models"

	"github.com/gin-gonic/gin"
)

// IdempotencyHeader carries a client-chosen checkout key
const IdempotencyHeader = "Idempotency-Key"

type totalsRequest struct {
	Items           []models.CheckoutItem `json:"items"`
	ShippingAddress *models.QuoteAddress  `json:"shippingAddress,omitempty"`
}

type summaryRequest struct {
	Items []models.CheckoutItem `json:"items"`
}

// processCheckout handles order placement
func (h *Handler) processCheckout(c *gin.Context) {
	var sub models.CheckoutSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	result, err := h.checkoutService.ProcessCheckout(c.Request.Context(), sub, c.GetHeader(IdempotencyHeader))
	if err != nil {
		h.respondError(c, err, "Failed to process order")
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// validateCheckout runs the checkout rules without placing an order
func (h *Handler) validateCheckout(c *gin.Context) {
	var sub models.CheckoutSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if _, err := h.checkoutService.Validate(c.Request.Context(), sub); err != nil {
		h.respondError(c, err, "Failed to validate checkout")
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *Handler) calculateTotals(c *gin.Context) {
	var req totalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	quote, err := h.checkoutService.CalculateTotals(c.Request.Context(), req.Items, req.ShippingAddress)
	if err != nil {
		h.respondError(c, err, "Failed to calculate totals")
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *Handler) cartSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	totals, err := h.checkoutService.CartSummary(c.Request.Context(), req.Items)
	if err != nil {
		h.respondError(c, err, "Failed to calculate totals")
		return
	}

	c.JSON(http.StatusOK, totals)
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.checkoutService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get order")
		return
	}

	c.JSON(http.StatusOK, order)
}
