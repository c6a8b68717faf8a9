package message

import (
	"net/http"
	"time"

	"github.com/greenplot/garden-leasing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "message not found")
	ErrThreadDenied  = apperror.New(http.StatusForbidden, "not a participant of this thread")
	ErrInvalidThread = apperror.New(http.StatusBadRequest, "invalid thread id")
)

// Message is a system notification between two users. Messages between the
// same pair of users share a thread id so clients can render a conversation.
type Message struct {
	ID         string // UUID
	Thread     string // UUID shared by all messages between the two users
	FromUserID string
	ToUserID   string
	LeasingID  *string
	Kind       string // leasing.NotificationKind values
	Opened     bool
	CreatedAt  time.Time
}
