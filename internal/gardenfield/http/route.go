package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers garden field routes. Reads are public; writes
// require authentication.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/garden-fields")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)

		group.POST("", authMiddleware, h.Create)
		group.PATCH("/:id", authMiddleware, h.Update)
		group.DELETE("/:id", authMiddleware, h.Delete)
	}
}
