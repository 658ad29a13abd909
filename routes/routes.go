package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/faras-store/backend/controllers"
	"github.com/faras-store/backend/middleware"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth    *controllers.AuthController
	Product *controllers.ProductController
	Blog    *controllers.BlogController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
	Payment *controllers.PaymentController
	Admin   *controllers.AdminController
}

// Register mounts all route groups on the engine.
func Register(router *gin.Engine, ctrl Controllers, jwtSecret string) {
	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "storefront-backend"})
	})

	// Public
	auth := api.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
	}

	products := api.Group("/products")
	{
		products.GET("", ctrl.Product.ListProducts)
		products.GET("/:slug", ctrl.Product.GetProductBySlug)
	}

	blog := api.Group("/blog")
	{
		blog.GET("", ctrl.Blog.ListPosts)
		blog.GET("/:slug", ctrl.Blog.GetPostBySlug)
	}

	// Authenticated customers
	authed := api.Group("", middleware.AuthRequired(jwtSecret))
	{
		authed.GET("/auth/me", ctrl.Auth.Me)

		cart := authed.Group("/cart")
		{
			cart.GET("", ctrl.Cart.GetCart)
			cart.POST("/items", ctrl.Cart.AddItem)
			cart.PUT("/items/:productId", ctrl.Cart.UpdateItem)
			cart.DELETE("/items/:productId", ctrl.Cart.RemoveItem)
			cart.DELETE("", ctrl.Cart.ClearCart)
		}

		orders := authed.Group("/orders")
		{
			orders.POST("", ctrl.Order.CreateOrder)
			orders.GET("", ctrl.Order.GetOrders)
			orders.GET("/:id", ctrl.Order.GetOrderByID)
			orders.POST("/:id/payment-intent", ctrl.Payment.CreateIntent)
			orders.POST("/:id/confirm", ctrl.Payment.ConfirmPayment)
		}
	}

	// Admin only
	admin := api.Group("/admin", middleware.AuthRequired(jwtSecret), middleware.AdminOnly())
	{
		admin.GET("/stats", ctrl.Admin.GetStats)
		admin.GET("/orders", ctrl.Order.GetAllOrders)
		admin.PUT("/orders/:id/status", ctrl.Order.UpdateOrderStatus)

		admin.POST("/products", ctrl.Product.CreateProduct)
		admin.PUT("/products/:id", ctrl.Product.UpdateProduct)
		admin.DELETE("/products/:id", ctrl.Product.DeleteProduct)

		admin.POST("/blog", ctrl.Blog.CreatePost)
		admin.PUT("/blog/:id", ctrl.Blog.UpdatePost)
		admin.DELETE("/blog/:id", ctrl.Blog.DeletePost)
	}
}
