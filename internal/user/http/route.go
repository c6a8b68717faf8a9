package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers auth and account routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	g.GET("/me", authMiddleware, h.Me)
	g.PUT("/me/payment-account", authMiddleware, h.SetPaymentAccount)
}
