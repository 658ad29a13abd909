package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/faras-store/backend/repository"
)

// AdminController serves the storefront dashboard counters.
type AdminController struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

func NewAdminController(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *AdminController {
	return &AdminController{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// GetStats returns aggregate counts and paid revenue for the dashboard.
func (ac *AdminController) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	orders, err := ac.orderRepo.CountAll(ctx)
	if err != nil {
		ac.logger.Error("Failed to count orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	revenue, err := ac.orderRepo.PaidRevenue(ctx)
	if err != nil {
		ac.logger.Error("Failed to sum revenue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	products, err := ac.productRepo.Count(ctx)
	if err != nil {
		ac.logger.Error("Failed to count products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	users, err := ac.userRepo.Count(ctx)
	if err != nil {
		ac.logger.Error("Failed to count users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_orders":   orders,
		"paid_revenue":   revenue,
		"total_products": products,
		"total_users":    users,
	})
}
