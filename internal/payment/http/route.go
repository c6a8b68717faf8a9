package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers payment routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/payments")
	group.Use(authMiddleware)
	{
		group.POST("/checkout-session", h.CreateCheckoutSession)
	}
}
