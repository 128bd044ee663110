// server/internal/api/routes/routes.go
package routes

import (
	"blood-bank-api-server/config"
	"blood-bank-api-server/internal/api/handlers"
	"blood-bank-api-server/internal/api/middleware"
	"blood-bank-api-server/internal/metrics"
	"blood-bank-api-server/internal/models"
	"blood-bank-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Dependencies are the components the router hands to its handlers.
type Dependencies struct {
	Config    config.Config
	Logger    zerolog.Logger
	Users     middleware.UserFinder
	DB        handlers.Pinger
	Donor     handlers.DonorService
	Recipient handlers.RecipientService
	Admin     handlers.AdminService
	Public    handlers.PublicService
	Hub       *socket.Hub
	Metrics   *metrics.Metrics
	// Gatherer backs GET /metrics. Nil leaves the route unmounted.
	Gatherer prometheus.Gatherer
}

// SetupRouter builds the gin engine with every route mounted under /api.
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger, deps.Metrics))
	router.Use(cors.New(corsConfig(deps.Config.Server)))

	secret := []byte(deps.Config.JWT.Secret)
	authenticate := middleware.Authenticate(secret, deps.Users)

	donorHandler := &handlers.DonorHandler{Service: deps.Donor}
	recipientHandler := &handlers.RecipientHandler{Service: deps.Recipient}
	adminHandler := &handlers.AdminHandler{Service: deps.Admin}
	publicHandler := &handlers.PublicHandler{Service: deps.Public, DB: deps.DB}
	webSocketHandler := &handlers.WebSocketHandler{Hub: deps.Hub, Secret: secret, Users: deps.Users}

	rl := deps.Config.RateLimit
	publicLimiter := middleware.NewRateLimiter(rl.PublicRPS, rl.PublicBurst, rl.IdleTTL)

	router.GET("/", publicHandler.Root)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/health", publicHandler.Health)
		api.GET("/ws", webSocketHandler.ServeWs)

		public := api.Group("/public")
		public.Use(publicLimiter.Limit())
		{
			public.GET("/inventory", publicHandler.GetInventory)
		}

		donor := api.Group("/donor")
		donor.Use(authenticate, middleware.Authorize(models.RoleDonor))
		{
			donor.POST("/donate", donorHandler.Donate)
			donor.GET("/history", donorHandler.History)
			donor.GET("/eligibility", donorHandler.Eligibility)
		}

		recipient := api.Group("/recipient")
		recipient.Use(authenticate, middleware.Authorize(models.RoleRecipient))
		{
			recipient.POST("/request", recipientHandler.RequestBlood)
			recipient.GET("/my-requests", recipientHandler.MyRequests)
			recipient.GET("/approved-requests", recipientHandler.ApprovedRequests)
		}

		admin := api.Group("/admin")
		admin.Use(authenticate, middleware.Authorize(models.RoleAdmin))
		{
			admin.GET("/requests", adminHandler.GetRequests)
			admin.PUT("/request/:id", adminHandler.UpdateRequestStatus)
			admin.GET("/inventory", adminHandler.GetInventory)
			admin.GET("/public-inventory", adminHandler.GetPublicInventory)
			admin.GET("/analytics", adminHandler.GetAnalytics)
			admin.POST("/seed", adminHandler.Seed)
		}
	}

	return router
}

func corsConfig(cfg config.ServerConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(cfg.CORSOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSOrigins
	}
	return c
}
