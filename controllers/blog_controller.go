package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/faras-store/backend/services"
)

type BlogController struct {
	blogService *services.BlogService
}

func NewBlogController(blogService *services.BlogService) *BlogController {
	return &BlogController{blogService: blogService}
}

// ListPosts returns published posts, optionally filtered by category.
func (bc *BlogController) ListPosts(c *gin.Context) {
	posts, svcErr := bc.blogService.ListPublished(c.Request.Context(), c.Query("category"))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// GetPostBySlug returns a published post and bumps its view counter.
func (bc *BlogController) GetPostBySlug(c *gin.Context) {
	post, svcErr := bc.blogService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost adds a blog post (admin only).
func (bc *BlogController) CreatePost(c *gin.Context) {
	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	post, svcErr := bc.blogService.Create(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost applies a partial update to a post (admin only).
func (bc *BlogController) UpdatePost(c *gin.Context) {
	var req services.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	post, svcErr := bc.blogService.Update(c.Request.Context(), c.Param("id"), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost removes a post (admin only).
func (bc *BlogController) DeletePost(c *gin.Context) {
	if svcErr := bc.blogService.Delete(c.Request.Context(), c.Param("id")); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
