package services

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/repository"
)

type CreatePostRequest struct {
	Title     string `json:"title" binding:"required"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content" binding:"required"`
	Image     string `json:"image"`
	Category  string `json:"category"`
	Author    string `json:"author"`
	Published bool   `json:"published"`
}

type UpdatePostRequest struct {
	Title     *string `json:"title"`
	Excerpt   *string `json:"excerpt"`
	Content   *string `json:"content"`
	Image     *string `json:"image"`
	Category  *string `json:"category"`
	Author    *string `json:"author"`
	Published *bool   `json:"published"`
}

type BlogService struct {
	repo   repository.BlogRepository
	logger *zap.Logger
}

func NewBlogService(repo repository.BlogRepository, logger *zap.Logger) *BlogService {
	return &BlogService{repo: repo, logger: logger}
}

func (s *BlogService) ListPublished(ctx context.Context, category string) ([]models.BlogPost, *ServiceError) {
	posts, err := s.repo.FindPublished(ctx, category)
	if err != nil {
		s.logger.Error("Failed to list blog posts", zap.Error(err))
		return nil, newServiceError(500, "Failed to fetch posts", err)
	}
	return posts, nil
}

func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, *ServiceError) {
	post, err := s.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrPostNotFound {
			return nil, newServiceError(404, "Post not found", err)
		}
		return nil, newServiceError(500, "Failed to fetch post", err)
	}

	// View counting is best-effort; a miss never fails the read.
	if err := s.repo.IncrementViews(ctx, post.ID); err != nil {
		s.logger.Warn("Failed to increment post views", zap.String("post_id", post.ID), zap.Error(err))
	} else {
		post.Views++
	}

	return post, nil
}

func (s *BlogService) Create(ctx context.Context, req *CreatePostRequest) (*models.BlogPost, *ServiceError) {
	post := &models.BlogPost{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Slug:      models.Slugify(req.Title),
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Image:     req.Image,
		Category:  req.Category,
		Author:    req.Author,
		Published: req.Published,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error("Failed to create blog post", zap.Error(err))
		return nil, newServiceError(500, "Failed to create post", err)
	}

	s.logger.Info("Blog post created", zap.String("post_id", post.ID), zap.String("slug", post.Slug))
	return post, nil
}

func (s *BlogService) Update(ctx context.Context, id string, req *UpdatePostRequest) (*models.BlogPost, *ServiceError) {
	updates := bson.M{}
	if req.Title != nil {
		updates["title"] = *req.Title
		updates["slug"] = models.Slugify(*req.Title)
	}
	if req.Excerpt != nil {
		updates["excerpt"] = *req.Excerpt
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Author != nil {
		updates["author"] = *req.Author
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}

	if len(updates) == 0 {
		return nil, newServiceError(400, "No fields to update", nil)
	}

	post, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if err == repository.ErrPostNotFound {
			return nil, newServiceError(404, "Post not found", err)
		}
		s.logger.Error("Failed to update blog post", zap.String("post_id", id), zap.Error(err))
		return nil, newServiceError(500, "Failed to update post", err)
	}
	return post, nil
}

func (s *BlogService) Delete(ctx context.Context, id string) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrPostNotFound {
			return newServiceError(404, "Post not found", err)
		}
		s.logger.Error("Failed to delete blog post", zap.String("post_id", id), zap.Error(err))
		return newServiceError(500, "Failed to delete post", err)
	}
	return nil
}
