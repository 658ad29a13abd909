package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/repository"
)

type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Benefits      []string `json:"benefits"`
	Ingredients   []string `json:"ingredients"`
	HowToUse      string   `json:"how_to_use" binding:"required"`
	Warnings      string   `json:"warnings"`
	Category      string   `json:"category" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	ComparePrice  float64  `json:"compare_price"`
	Images        []string `json:"images"`
	InStock       *bool    `json:"in_stock"`
	StockQuantity int      `json:"stock_quantity"`
	Featured      bool     `json:"featured"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Benefits      []string `json:"benefits"`
	Ingredients   []string `json:"ingredients"`
	HowToUse      *string  `json:"how_to_use"`
	Warnings      *string  `json:"warnings"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price"`
	ComparePrice  *float64 `json:"compare_price"`
	Images        []string `json:"images"`
	InStock       *bool    `json:"in_stock"`
	StockQuantity *int     `json:"stock_quantity"`
	Featured      *bool    `json:"featured"`
}

const defaultWarnings = "Consult a healthcare professional before use."

// ProductService is the catalog business logic; it is also the
// authoritative price source the order assembler consults.
type ProductService struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

func NewProductService(repo repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// FindByID satisfies ProductLookup for the order and cart services.
func (s *ProductService) FindByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, *ServiceError) {
	products, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, newServiceError(500, "Failed to fetch products", err)
	}
	return products, nil
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, *ServiceError) {
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, newServiceError(404, "Product not found", err)
		}
		return nil, newServiceError(500, "Failed to fetch product", err)
	}
	return product, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, *ServiceError) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, newServiceError(404, "Product not found", err)
		}
		return nil, newServiceError(500, "Failed to fetch product", err)
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, *ServiceError) {
	if !models.IsValidCategory(req.Category) {
		return nil, newServiceError(400, "Unknown category: "+req.Category, nil)
	}

	warnings := req.Warnings
	if warnings == "" {
		warnings = defaultWarnings
	}
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := &models.Product{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Slug:          models.Slugify(req.Name),
		Description:   req.Description,
		Benefits:      req.Benefits,
		Ingredients:   req.Ingredients,
		HowToUse:      req.HowToUse,
		Warnings:      warnings,
		Category:      req.Category,
		Price:         req.Price,
		ComparePrice:  req.ComparePrice,
		Images:        req.Images,
		InStock:       inStock,
		StockQuantity: req.StockQuantity,
		Featured:      req.Featured,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return nil, newServiceError(409, "A product with this name already exists", err)
		}
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, newServiceError(500, "Failed to create product", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("slug", product.Slug),
	)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, *ServiceError) {
	updates := bson.M{}
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = models.Slugify(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Benefits != nil {
		updates["benefits"] = req.Benefits
	}
	if req.Ingredients != nil {
		updates["ingredients"] = req.Ingredients
	}
	if req.HowToUse != nil {
		updates["how_to_use"] = *req.HowToUse
	}
	if req.Warnings != nil {
		updates["warnings"] = *req.Warnings
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			return nil, newServiceError(400, "Unknown category: "+*req.Category, nil)
		}
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, newServiceError(400, "Price must be positive", nil)
		}
		updates["price"] = *req.Price
	}
	if req.ComparePrice != nil {
		updates["compare_price"] = *req.ComparePrice
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}

	if len(updates) == 0 {
		return nil, newServiceError(400, "No fields to update", nil)
	}

	product, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, newServiceError(404, "Product not found", err)
		}
		s.logger.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return nil, newServiceError(500, "Failed to update product", err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return newServiceError(404, "Product not found", err)
		}
		s.logger.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		return newServiceError(500, "Failed to delete product", err)
	}
	return nil
}
