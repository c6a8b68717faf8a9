package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenplot/garden-leasing-backend/internal/api"
	"github.com/greenplot/garden-leasing-backend/internal/auth"
	"github.com/greenplot/garden-leasing-backend/internal/gardenfield"
	"github.com/greenplot/garden-leasing-backend/internal/leasing"
	"github.com/greenplot/garden-leasing-backend/internal/message"
	"github.com/greenplot/garden-leasing-backend/internal/payment"
	"github.com/greenplot/garden-leasing-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	StripeAPIKey  string
	StripeBaseURL string

	// AMQPURL selects the broker for lifecycle events; empty keeps
	// notifications database-only.
	AMQPURL string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Garden Field Module
	fieldRepo := gardenfield.NewPgxRepository(cfg.DBPool)
	fieldService := gardenfield.NewService(fieldRepo)

	// Message Module
	var publisher message.EventPublisher = message.NoopPublisher{}
	if cfg.AMQPURL != "" {
		publisher = message.NewAMQPPublisher(cfg.AMQPURL)
	}
	messageRepo := message.NewPgxRepository(cfg.DBPool)
	messageService := message.NewService(messageRepo, publisher)

	// Payment Gateway
	stripeGateway := payment.NewStripeGateway(cfg.StripeAPIKey, cfg.StripeBaseURL)

	// Leasing Module
	leasingRepo := leasing.NewPgxRepository(cfg.DBPool)
	leasingService := leasing.NewService(leasingRepo, userService, stripeGateway, messageService)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		FieldService:   fieldService,
		LeasingService: leasingService,
		MessageService: messageService,
		PaymentGateway: stripeGateway,
		JWTManager:     jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
