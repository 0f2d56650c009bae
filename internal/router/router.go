package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/restaurant-api/internal/config"
	"github.com/nsxzhou1114/restaurant-api/internal/controller"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/metrics"
	"github.com/nsxzhou1114/restaurant-api/internal/middleware"
	"github.com/nsxzhou1114/restaurant-api/internal/service"
	"github.com/nsxzhou1114/restaurant-api/pkg/auth"
	"github.com/nsxzhou1114/restaurant-api/pkg/response"
	"github.com/nsxzhou1114/restaurant-api/pkg/validate"
)

// New builds the engine with global middleware and every route
func New(cfg *config.Config, svcs *service.Services) *gin.Engine {
	validate.Register()

	r := gin.New()
	r.Use(logger.GinRecovery())
	r.Use(logger.GinLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.Cors(cfg.App.Cors))

	Setup(r, svcs)
	return r
}

// Setup registers the routes
func Setup(r *gin.Engine, svcs *service.Services) {
	r.GET("/", func(c *gin.Context) {
		response.Success(c, "Welcome to the restaurant review API", nil)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	tokens := svcs.Tokens

	setupUserRoutes(api, svcs, tokens)
	setupRestaurantRoutes(api, svcs, tokens)
	setupFavoriteRoutes(api, svcs, tokens)
	setupCategoryRoutes(api, svcs, tokens)
	setupNotificationRoutes(api, svcs, tokens)
	setupTeaRoutes(api, svcs, tokens)
}

func setupUserRoutes(api *gin.RouterGroup, svcs *service.Services, tokens *auth.TokenManager) {
	userApi := controller.NewUserApi(svcs.Users)

	userRoutes := api.Group("/users")
	{
		userRoutes.POST("/register", userApi.Register)
		userRoutes.POST("/login", userApi.Login)
	}

	authUserRoutes := api.Group("/users", middleware.JWTAuth(tokens, svcs.Users))
	{
		authUserRoutes.POST("/logout", userApi.Logout)
		authUserRoutes.GET("/me", userApi.Me)
	}

	adminUserRoutes := api.Group("/users", middleware.AdminAuth(tokens, svcs.Users))
	{
		adminUserRoutes.DELETE("/:id", userApi.Delete)
	}
}

func setupRestaurantRoutes(api *gin.RouterGroup, svcs *service.Services, tokens *auth.TokenManager) {
	restaurantApi := controller.NewRestaurantApi(svcs.Restaurants, svcs.Reviews)

	restaurantRoutes := api.Group("/restaurants")
	{
		restaurantRoutes.GET("", restaurantApi.List)
		restaurantRoutes.GET("/:id", restaurantApi.Get)
		restaurantRoutes.GET("/:id/reviews", restaurantApi.ListReviews)
	}

	authRestaurantRoutes := api.Group("/restaurants", middleware.JWTAuth(tokens, svcs.Users))
	{
		authRestaurantRoutes.POST("", restaurantApi.Create)
		authRestaurantRoutes.PUT("/:id", restaurantApi.Update)
		authRestaurantRoutes.DELETE("/:id", restaurantApi.Delete)
		authRestaurantRoutes.POST("/:id/reviews", restaurantApi.CreateReview)
	}
}

// setupFavoriteRoutes favorites hang off /restaurants/:id/favorite plus a personal list
func setupFavoriteRoutes(api *gin.RouterGroup, svcs *service.Services, tokens *auth.TokenManager) {
	favoriteApi := controller.NewFavoriteApi(svcs.Favorites)

	favoriteRoutes := api.Group("/restaurants/:id/favorite", middleware.JWTAuth(tokens, svcs.Users))
	{
		favoriteRoutes.GET("", favoriteApi.Check)
		favoriteRoutes.POST("", favoriteApi.Add)
		favoriteRoutes.DELETE("", favoriteApi.Remove)
	}

	api.GET("/favorites", middleware.JWTAuth(tokens, svcs.Users), favoriteApi.List)
}

func setupCategoryRoutes(api *gin.RouterGroup, svcs *service.Services, tokens *auth.TokenManager) {
	categoryApi := controller.NewCategoryApi(svcs.Categories)

	api.GET("/categories", categoryApi.List)

	adminCategoryRoutes := api.Group("/categories", middleware.AdminAuth(tokens, svcs.Users))
	{
		adminCategoryRoutes.POST("", categoryApi.Create)
		adminCategoryRoutes.DELETE("/:id", categoryApi.Delete)
	}
}

func setupNotificationRoutes(api *gin.RouterGroup, svcs *service.Services, tokens *auth.TokenManager) {
	notificationApi := controller.NewNotificationApi(svcs.Notifications)

	authNotificationRoutes := api.Group("/notifications", middleware.JWTAuth(tokens, svcs.Users))
	{
		authNotificationRoutes.GET("", notificationApi.List)
		authNotificationRoutes.GET("/unread-count", notificationApi.UnreadCount)
		authNotificationRoutes.PUT("/read-all", notificationApi.MarkAllRead)
		authNotificationRoutes.PUT("/:id/read", notificationApi.MarkRead)
	}
}

func setupTeaRoutes(api *gin.RouterGroup, svcs *service.Services, tokens *auth.TokenManager) {
	teaApi := controller.NewTeaApi(svcs.Teas)

	teaRoutes := api.Group("/teas")
	{
		teaRoutes.GET("", teaApi.List)
		teaRoutes.GET("/:id", teaApi.Get)
		teaRoutes.GET("/:id/comments", teaApi.ListComments)
	}

	authTeaRoutes := api.Group("/teas", middleware.JWTAuth(tokens, svcs.Users))
	{
		authTeaRoutes.POST("", teaApi.Create)
		authTeaRoutes.PUT("/:id", teaApi.Update)
		authTeaRoutes.DELETE("/:id", teaApi.Delete)
		authTeaRoutes.POST("/:id/comments", teaApi.AddComment)
	}
}
