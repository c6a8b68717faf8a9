package http

import (
	"time"

	"github.com/greenplot/garden-leasing-backend/internal/message"
)

type MessageResponse struct {
	ID         string    `json:"id"`
	Thread     string    `json:"thread"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	LeasingID  *string   `json:"leasing_id,omitempty"`
	Kind       string    `json:"kind"`
	Opened     bool      `json:"opened"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewMessageResponse(m *message.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		Thread:     m.Thread,
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		LeasingID:  m.LeasingID,
		Kind:       m.Kind,
		Opened:     m.Opened,
		CreatedAt:  m.CreatedAt,
	}
}
