package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/greenplot/garden-leasing-backend/internal/auth"
	"github.com/greenplot/garden-leasing-backend/internal/gardenfield"
	fieldHttp "github.com/greenplot/garden-leasing-backend/internal/gardenfield/http"
	"github.com/greenplot/garden-leasing-backend/internal/leasing"
	leasingHttp "github.com/greenplot/garden-leasing-backend/internal/leasing/http"
	"github.com/greenplot/garden-leasing-backend/internal/message"
	messageHttp "github.com/greenplot/garden-leasing-backend/internal/message/http"
	"github.com/greenplot/garden-leasing-backend/internal/payment"
	paymentHttp "github.com/greenplot/garden-leasing-backend/internal/payment/http"
	"github.com/greenplot/garden-leasing-backend/internal/user"
	userHttp "github.com/greenplot/garden-leasing-backend/internal/user/http"
)

// Config carries the services the router wires into HTTP handlers.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService    user.Service
	FieldService   gardenfield.Service
	LeasingService leasing.Service
	MessageService message.Service
	PaymentGateway payment.Gateway

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, Auth) and registers routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
			"http://localhost:3000", // Frontend dev server
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	fieldHandler := fieldHttp.NewHandler(cfg.FieldService)
	leasingHandler := leasingHttp.NewHandler(cfg.LeasingService)
	messageHandler := messageHttp.NewHandler(cfg.MessageService)
	paymentHandler := paymentHttp.NewHandler(cfg.PaymentGateway, cfg.FieldService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		fieldHttp.RegisterRoutes(v1, fieldHandler, authMiddleware)
		leasingHttp.RegisterRoutes(v1, leasingHandler, authMiddleware)
		messageHttp.RegisterRoutes(v1, messageHandler, authMiddleware)
		paymentHttp.RegisterRoutes(v1, paymentHandler, authMiddleware)
	}

	return r
}

func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
