package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers leasing routes, including the field-scoped
// availability and diagnostic queries.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/leasings")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PATCH("/:id", h.Update)
	}

	fields := g.Group("/garden-fields/:id")
	{
		// Availability is public so prospective requesters can pick dates.
		fields.GET("/leased-date-ranges", h.LeasedDateRanges)

		fields.GET("/leasings", authMiddleware, h.ListForField)
		fields.GET("/overlaps", authMiddleware, h.Overlaps)
	}
}
