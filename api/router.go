package api

import (
	"net/http"

	"storefront/api/admin"
	"storefront/api/auth"
	"storefront/api/cart"
	"storefront/api/health"
	"storefront/api/middleware"
	"storefront/api/order"
	"storefront/api/payment"
	"storefront/api/user"
	"storefront/config"
	"storefront/domain/identity"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Controllers groups every HTTP controller the router mounts.
type Controllers struct {
	Health  *health.Controller
	Auth    *auth.Controller
	User    *user.Controller
	Cart    *cart.Controller
	Order   *order.Controller
	Payment *payment.Controller
	Admin   *admin.Controller
}

// Router Route configuration
type Router struct {
	engine      *gin.Engine
	config      *config.Config
	verifier    middleware.TokenVerifier
	controllers Controllers
}

// NewRouter Create route configuration
func NewRouter(cfg *config.Config, verifier middleware.TokenVerifier, controllers Controllers) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	// 请求体中的未知字段一律拒绝
	binding.EnableDecoderDisallowUnknownFields = true

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	// Add middleware (order is important)
	engine.Use(middleware.RequestIDMiddleware())                      // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())                       // 2. Recovery middleware
	engine.Use(middleware.LoggingMiddleware())                        // 3. Logging middleware
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 4. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 5. Rate limiting

	return &Router{
		engine:      engine,
		config:      cfg,
		verifier:    verifier,
		controllers: controllers,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	c := r.controllers
	apiGroup := r.engine.Group("/api")

	customer := apiGroup.Group("",
		middleware.Authenticate(r.verifier, r.config.Auth.UserCookie),
		middleware.RequireRole(identity.RoleCustomer),
	)

	adminPublic := apiGroup.Group("/admin")
	adminGroup := apiGroup.Group("/admin",
		middleware.Authenticate(r.verifier, r.config.Auth.AdminCookie),
		middleware.RequireRole(identity.RoleAdmin),
	)

	c.Health.RegisterRoutes(apiGroup)
	c.Auth.RegisterRoutes(apiGroup)
	c.Auth.RegisterAdminRoutes(adminPublic)
	adminGroup.GET("/verify", c.Auth.Verify)

	c.User.RegisterRoutes(customer)
	c.Cart.RegisterRoutes(customer)
	c.Order.RegisterRoutes(customer)
	c.Payment.RegisterRoutes(apiGroup, customer)
	c.Admin.RegisterRoutes(adminGroup)

	r.engine.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
