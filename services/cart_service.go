package services

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/faras-store/backend/cart"
	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/pricing"
	"github.com/faras-store/backend/repository"
)

// CartView is the cart plus its derived totals, as returned to clients.
type CartView struct {
	UserID    string            `json:"user_id"`
	Lines     []models.CartLine `json:"lines"`
	ItemCount int               `json:"item_count"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// CartService owns per-user carts. Line prices are resolved from the
// catalog on every add, so a stored cart never carries client-declared
// prices. Each request loads a snapshot, mutates it through the
// aggregator, and writes it back.
type CartService struct {
	cartRepo repository.CartRepository
	catalog  ProductLookup
	rules    pricing.Rules
	logger   *zap.Logger
}

func NewCartService(cartRepo repository.CartRepository, catalog ProductLookup, rules pricing.Rules, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
		rules:    rules,
		logger:   logger,
	}
}

// GetCart returns the user's cart; a missing cart reads as empty.
func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, *ServiceError) {
	agg, svcErr := s.load(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	return s.view(userID, agg), nil
}

// AddItem merges quantity into the cart line for the product, resolving
// name, image and unit price from the catalog.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*CartView, *ServiceError) {
	if quantity <= 0 {
		return nil, newServiceError(400, "Quantity must be positive", nil)
	}

	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, newServiceError(404, "Product "+productID+" not found", err)
		}
		s.logger.Error("Product lookup failed", zap.String("product_id", productID), zap.Error(err))
		return nil, newServiceError(500, "Failed to resolve product", err)
	}

	agg, svcErr := s.load(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	agg.AddLine(product.ID, product.Name, image, decimal.NewFromFloat(product.Price), quantity)

	return s.save(ctx, userID, agg)
}

// SetQuantity sets the exact quantity for a line; zero or less removes it.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*CartView, *ServiceError) {
	agg, svcErr := s.load(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	agg.SetQuantity(productID, quantity)
	return s.save(ctx, userID, agg)
}

// RemoveItem drops the line for productID; absent lines are a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*CartView, *ServiceError) {
	agg, svcErr := s.load(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	agg.RemoveLine(productID)
	return s.save(ctx, userID, agg)
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) *ServiceError {
	if err := s.cartRepo.DeleteCart(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		return newServiceError(500, "Failed to clear cart", err)
	}
	return nil
}

func (s *CartService) load(ctx context.Context, userID string) (*cart.Aggregator, *ServiceError) {
	stored, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, newServiceError(500, "Failed to load cart", err)
	}
	if stored == nil {
		return cart.New(), nil
	}
	return cart.FromLines(stored.Lines), nil
}

func (s *CartService) save(ctx context.Context, userID string, agg *cart.Aggregator) (*CartView, *ServiceError) {
	if err := s.cartRepo.SaveCart(ctx, &models.Cart{UserID: userID, Lines: agg.Lines()}); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		return nil, newServiceError(500, "Failed to save cart", err)
	}
	return s.view(userID, agg), nil
}

func (s *CartService) view(userID string, agg *cart.Aggregator) *CartView {
	return &CartView{
		UserID:    userID,
		Lines:     agg.Lines(),
		ItemCount: agg.ItemCount(),
		Breakdown: agg.Breakdown(s.rules),
	}
}
