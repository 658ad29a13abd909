package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/faras-store/backend/middleware"
	"github.com/faras-store/backend/services"
)

type PaymentController struct {
	paymentService *services.PaymentService
}

func NewPaymentController(paymentService *services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// CreateIntent requests a payment intent for an order.
func (pc *PaymentController) CreateIntent(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	resp, svcErr := pc.paymentService.RequestIntent(c.Request.Context(), middleware.GetUserID(c), orderUUID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type confirmRequest struct {
	IntentID        string `json:"intent_id" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

// ConfirmPayment submits payment details against an intent.
func (pc *PaymentController) ConfirmPayment(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, svcErr := pc.paymentService.ConfirmPayment(c.Request.Context(),
		middleware.GetUserID(c), orderUUID, req.IntentID,
		services.PaymentDetails{PaymentMethodID: req.PaymentMethodID})
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, resp)
}
