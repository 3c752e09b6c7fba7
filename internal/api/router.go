package api

import (
	"time" // CORS preflight cache

	"storefront/internal/metrics"    // Prometheus collectors
	"storefront/internal/middleware" // Custom middleware
	"storefront/internal/service"    // Business logic

	"github.com/gin-contrib/cors"                             // CORS middleware
	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Metrics registry
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
	"github.com/sirupsen/logrus"                              // Logrus for structured logging
)

// Services bundles the business services the routes depend on
type Services struct {
	Auth      *service.AuthService
	Products  *service.ProductService
	Cart      *service.CartService
	Addresses *service.AddressService
	Checkout  *service.CheckoutService
	Orders    *service.OrderService
}

// RouterConfig holds the HTTP-facing settings
type RouterConfig struct {
	JWTSecret      string
	CORSOrigins    []string
	EntryPage      string
	TrustedProxies []string
}

// Deps is everything NewRouter needs
type Deps struct {
	Config   RouterConfig
	Log      logrus.FieldLogger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // Source for /metrics; nil disables the endpoint
	Services Services
	Checks   map[string]CheckFunc // Readiness checks by dependency name
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "X-Cache"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewRouter wires middleware and routes onto a new gin engine
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		return nil, err
	}
	entry := d.Config.EntryPage
	if entry == "" {
		entry = DefaultEntryPage
	}

	r.Use(cors.New(corsConfig(d.Config.CORSOrigins)))
	r.Use(middleware.RequestLogger(d.Log))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(gin.Recovery())

	// Operational routes
	r.GET("/healthz", LivenessHandler())
	r.GET("/readyz", ReadinessHandler(d.Checks))
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	s := d.Services
	// Public routes
	r.POST("/signup", SignupHandler(s.Auth))                     // Registration endpoint
	r.POST("/login", LoginHandler(s.Auth))                       // Login endpoint
	r.GET("/products", ListProductsHandler(s.Products))          // Catalog
	r.GET("/session", SessionHandler(d.Config.JWTSecret, entry)) // Route guard state

	// User routes (protected by JWT)
	user := r.Group("")
	user.Use(middleware.JWTAuthMiddleware(d.Config.JWTSecret))
	user.GET("/cart", ListCartHandler(s.Cart))                  // List cart lines
	user.POST("/cart", AddToCartHandler(s.Cart))                // Add to cart
	user.PUT("/cart/:itemId", UpdateCartItemHandler(s.Cart))    // Update a line
	user.DELETE("/cart/:itemId", RemoveFromCartHandler(s.Cart)) // Remove a line
	user.GET("/addresses", ListAddressesHandler(s.Addresses))   // List addresses
	user.POST("/addresses", AddAddressHandler(s.Addresses))     // Add address
	user.POST("/checkout", CheckoutHandler(s.Checkout))         // Place order
	user.GET("/orders", ListOrdersHandler(s.Orders))            // Order history

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(d.Config.JWTSecret), middleware.AdminOnlyMiddleware(s.Auth, d.Log))
	admin.GET("/users", ListUsersHandler(s.Auth))             // List users endpoint
	admin.POST("/products", CreateProductHandler(s.Products)) // Create product endpoint

	return r, nil
}
