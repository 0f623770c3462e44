package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/shop"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Server is the HTTP front of the storefront.
type Server struct {
	config   *config.Config
	shop     *shop.Service
	sessions *auth.Manager
	logger   *zap.Logger
	router   *gin.Engine
}

func NewServer(cfg *config.Config, svc *shop.Service, sessions *auth.Manager, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Server{
		config:   cfg,
		shop:     svc,
		sessions: sessions,
		logger:   logger,
		router:   router,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) SetupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Public: account and catalog browsing
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", s.register)
			authGroup.POST("/login", s.login)
			authGroup.POST("/logout", s.logout)
		}

		products := v1.Group("/products")
		{
			products.GET("", s.listProducts)
			products.GET("/:id", s.getProduct)
		}

		// Customer routes
		user := v1.Group("", s.requireSession())
		{
			user.GET("/profile", s.getProfile)
			user.PUT("/profile", s.updateProfile)

			cart := user.Group("/cart")
			{
				cart.GET("", s.getCart)
				cart.GET("/count", s.cartCount)
				cart.POST("/items", s.addCartItem)
				cart.PUT("/items/:id", s.updateCartItem)
				cart.DELETE("/items/:id", s.removeCartItem)
			}

			orders := user.Group("/orders")
			{
				orders.POST("", s.createOrder)
				orders.GET("", s.listOrders)
				orders.GET("/:id", s.getOrder)
			}
		}

		// Admin routes
		admin := v1.Group("/admin", s.requireSession(), s.requireAdmin())
		{
			admin.POST("/products", s.adminCreateProduct)
			admin.PUT("/products/:id", s.adminUpdateProduct)
			admin.DELETE("/products/:id", s.adminDeleteProduct)
			admin.GET("/orders", s.adminListOrders)
			admin.PUT("/orders/:id/status", s.adminUpdateOrderStatus)
		}
	}

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Storefront starting", zap.String("address", addr))
	return s.router.Run(addr)
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
