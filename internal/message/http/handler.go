package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenplot/garden-leasing-backend/internal/auth"
	"github.com/greenplot/garden-leasing-backend/internal/message"
	"github.com/greenplot/garden-leasing-backend/internal/pkg/response"
)

type Handler struct {
	service message.Service
}

func NewHandler(service message.Service) *Handler {
	return &Handler{service: service}
}

// Notifications lists the caller's unread messages, newest first.
func (h *Handler) Notifications(c *gin.Context) {
	userID := auth.GetUserID(c)

	msgs, err := h.service.UnreadNotifications(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewMessageResponse(m))
	}
	c.JSON(http.StatusOK, out)
}

// OpenThread marks every message on the thread addressed to the caller as opened.
func (h *Handler) OpenThread(c *gin.Context) {
	userID := auth.GetUserID(c)
	thread := c.Param("thread")

	if err := h.service.OpenThread(c.Request.Context(), userID, thread); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
