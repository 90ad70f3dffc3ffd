package routes

import (
	"net/http"
	"time"

	"storefront-client/config"
	"storefront-client/controllers"
	apperrors "storefront-client/errors"
	"storefront-client/middleware"
	"storefront-client/models"
	"storefront-client/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the services the shell routes are bound to
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	Session     *services.SessionService
	Cart        *services.CartService
	CartSync    *services.CartSync
	Checkout    *services.CheckoutService
	Catalog     *services.CatalogService
	Orders      *services.OrderService
	RateLimiter *middleware.RateLimiter
}

// NewRouter builds the gin engine with the shared middleware chain and all routes
func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(d.Config.CORSOrigins)))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.SecurityHeaders())
	if d.RateLimiter != nil {
		r.Use(middleware.RateLimitMiddleware(d.RateLimiter))
	}
	r.Use(apperrors.ErrorMiddleware())

	RegisterRoutes(r, d)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func RegisterRoutes(r *gin.Engine, d Dependencies) {
	sessionController := controllers.NewSessionController(d.Session)
	cartController := controllers.NewCartController(d.Cart, d.CartSync, d.Catalog, d.Checkout)
	catalogController := controllers.NewCatalogController(d.Catalog, d.Orders)
	farmerController := controllers.NewFarmerController(d.Catalog, d.Orders)

	r.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(apperrors.ErrNotFound.Code, apperrors.ErrNotFound)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"session": d.Session.State().String(),
		})
	})

	session := r.Group("/session")
	{
		session.GET("", sessionController.GetSession)
		session.POST("/login", sessionController.Login)
		session.POST("/register", sessionController.Register)
		session.POST("/logout", sessionController.Logout)

		authed := session.Group("")
		authed.Use(middleware.RequireSession(d.Session))
		authed.PATCH("/user", sessionController.UpdateUser)
		authed.PUT("/profile", sessionController.UpdateProfile)
		authed.GET("/profile-image", sessionController.GetProfileImage)
		authed.PUT("/profile-image", sessionController.SetProfileImage)
	}

	// Cart routes belong to the logged-in customer
	cart := r.Group("/cart")
	cart.Use(middleware.RequireRole(d.Session, models.RoleCustomer))
	{
		cart.GET("", cartController.GetCart)
		cart.POST("/items", cartController.AddItem)
		cart.POST("/items/:product_id/increment", cartController.IncrementItem)
		cart.POST("/items/:product_id/decrement", cartController.DecrementItem)
		cart.DELETE("/items/:product_id", cartController.RemoveItem)
		cart.DELETE("", cartController.ClearCart)
		cart.POST("/checkout", cartController.Checkout)
	}

	catalog := r.Group("/catalog")
	{
		catalog.GET("/products", catalogController.ListProducts)
		catalog.GET("/products/:id", catalogController.GetProduct)
		catalog.GET("/categories", catalogController.ListCategories)
	}

	orders := r.Group("/orders")
	orders.Use(middleware.RequireSession(d.Session))
	{
		orders.GET("", catalogController.ListOrders)
		orders.GET("/:id", catalogController.GetOrder)
	}

	farmer := r.Group("/farmer")
	farmer.Use(middleware.RequireRole(d.Session, models.RoleFarmer))
	{
		farmer.GET("/products", farmerController.MyProducts)
		farmer.POST("/products", farmerController.CreateProduct)
		farmer.PUT("/products/:id", farmerController.UpdateProduct)
		farmer.DELETE("/products/:id", farmerController.DeleteProduct)
		farmer.PUT("/orders/:id/status", farmerController.UpdateOrderStatus)
	}
}
