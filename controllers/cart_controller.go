package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/faras-store/backend/middleware"
	"github.com/faras-store/backend/services"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart returns the user's cart with derived totals.
func (cc *CartController) GetCart(c *gin.Context) {
	view, svcErr := cc.cartService.GetCart(c.Request.Context(), middleware.GetUserID(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// AddItem merges quantity into the cart line for the product.
func (cc *CartController) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	view, svcErr := cc.cartService.AddItem(c.Request.Context(), middleware.GetUserID(c), req.ProductID, req.Quantity)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets the exact quantity for a line; zero removes it.
func (cc *CartController) UpdateItem(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	view, svcErr := cc.cartService.SetQuantity(c.Request.Context(), middleware.GetUserID(c), c.Param("productId"), req.Quantity)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveItem drops a line from the cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	view, svcErr := cc.cartService.RemoveItem(c.Request.Context(), middleware.GetUserID(c), c.Param("productId"))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ClearCart empties the user's cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	if svcErr := cc.cartService.Clear(c.Request.Context(), middleware.GetUserID(c)); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
