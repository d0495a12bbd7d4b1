package routes

import (
	"github.com/communityhub/server/internal/container"
	"github.com/communityhub/server/internal/handlers"
	"github.com/communityhub/server/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	secret := []byte(c.Config.JWTSecret)
	isProduction := c.Config.IsProduction()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{c.Config.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{
			"status":  "OK",
			"service": "communityhub-api",
		})
	})

	api := r.Group("/api")
	{
		// Auth
		api.POST("/auth/signup", handlers.Signup(c.UserService))
		api.POST("/auth/login", handlers.Login(c.UserService, isProduction))
		api.POST("/auth/logout", handlers.Logout(isProduction))

		// Payment flow. The webhook and verification endpoints stay public:
		// Stripe authenticates itself through the signature header, and the
		// confirmation page may run without a session.
		api.POST("/create-payment-intent", handlers.CreateTicketIntent(c.PaymentService, c.Logger))
		api.POST("/donations/create-payment-intent",
			middleware.OptionalAuth(secret),
			handlers.CreateDonationIntent(c.PaymentService, c.Logger))
		api.POST("/verify-payment", handlers.VerifyPayment(c.PaymentService, c.Logger))
		api.POST("/webhooks/stripe", handlers.StripeWebhook(c.PaymentService))
		api.GET("/donations/:id", handlers.GetDonation(c.PaymentService))

		// Public event reads
		api.GET("/events", handlers.ListEvents(c.EventService))
		api.GET("/events/:id", handlers.GetEvent(c.EventService))
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(secret))
	{
		protected.POST("/events", handlers.CreateEvent(c.EventService))
		protected.PATCH("/events/:id", handlers.UpdateEvent(c.EventService))
		protected.DELETE("/events/:id", handlers.DeleteEvent(c.EventService))
		protected.POST("/events/register", handlers.RegisterForEvent(c.EventService))

		protected.POST("/upload", handlers.Upload(c.Uploader, c.Config.S3Bucket, c.Config.AWSRegion, c.Logger))
	}

	return r
}
