package container

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/communityhub/server/internal/config"
	"github.com/communityhub/server/internal/models"
	"github.com/communityhub/server/internal/payments"
	"github.com/communityhub/server/internal/services"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Container holds all application dependencies
type Container struct {
	Logger *slog.Logger
	Config *config.Config

	// Infrastructure clients
	DB       *pgxpool.Pool
	Uploader *manager.Uploader

	UserService    *services.UserService
	EventService   *services.EventService
	PaymentService *services.PaymentService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	db *pgxpool.Pool,
	uploader *manager.Uploader,
) *Container {
	// Initialize repositories and the payment provider
	repo := models.NewPostgresRepo(db)
	provider := payments.NewStripeProvider(cfg.StripeSecretKey)

	userService := services.NewUserService(repo, []byte(cfg.JWTSecret))
	eventService := services.NewEventService(repo, repo)
	paymentService := services.NewPaymentService(
		repo, repo, repo, provider, cfg.StripeWebhookSecret, logger,
	)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		DB:             db,
		Uploader:       uploader,
		UserService:    userService,
		EventService:   eventService,
		PaymentService: paymentService,
	}
}
