package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/messages")
	group.Use(authMiddleware)
	{
		group.GET("/notifications", h.Notifications)
		group.POST("/threads/:thread/open", h.OpenThread)
	}
}
