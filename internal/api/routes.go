package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/auth"
	"github.com/prabhata303-del/Dd/internal/catalog"
	"github.com/prabhata303-del/Dd/internal/metrics"
	"github.com/prabhata303-del/Dd/internal/middleware"
	"github.com/prabhata303-del/Dd/internal/orders"
	"github.com/prabhata303-del/Dd/internal/settings"
	"github.com/prabhata303-del/Dd/internal/users"
	"github.com/prabhata303-del/Dd/internal/wishlist"
)

// SetupRoutes wires every endpoint onto the router. Global middleware
// (request id, logging, recovery, CORS, metrics) is applied by the caller
// before this runs.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authService *auth.Service,
	userService *users.Service,
	catalogService *catalog.Service,
	settingsService *settings.Service,
	wishlistService *wishlist.Service,
	orderService *orders.Service,
) {
	requireAuth := middleware.Auth(authService, logger)

	authHandler := NewAuthHandler(authService, userService, logger)
	userHandler := NewUserHandler(userService)
	catalogHandler := NewCatalogHandler(catalogService, settingsService)
	wishlistHandler := NewWishlistHandler(wishlistService, logger)
	orderHandler := NewOrderHandler(orderService, logger)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/google", authHandler.Google)
			authGroup.POST("/signout", requireAuth, authHandler.SignOut)
		}

		usersGroup := apiV1.Group("/users", requireAuth)
		{
			usersGroup.GET("/me", userHandler.Me)
			usersGroup.PUT("/me", userHandler.Update)
			usersGroup.GET("/me/partner", userHandler.Partner)
		}

		catalogGroup := apiV1.Group("/catalog")
		{
			catalogGroup.GET("/dishes", catalogHandler.Dishes)
			catalogGroup.GET("/categories", catalogHandler.Categories)
			catalogGroup.GET("/banners", catalogHandler.Banners)
		}
		apiV1.GET("/settings", catalogHandler.Settings)

		wishlistGroup := apiV1.Group("/wishlist", requireAuth)
		{
			wishlistGroup.GET("", wishlistHandler.List)
			wishlistGroup.POST("", wishlistHandler.Add)
			wishlistGroup.DELETE("/:dishId", wishlistHandler.Remove)
			wishlistGroup.GET("/stream", wishlistHandler.Stream)
		}

		ordersGroup := apiV1.Group("/orders", requireAuth)
		{
			ordersGroup.POST("", orderHandler.Place)
			ordersGroup.GET("", orderHandler.List)
			ordersGroup.POST("/:orderId/cancel", orderHandler.Cancel)
			ordersGroup.GET("/stream", orderHandler.Stream)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("API routes configured")
}
