package dto

import (
	"time"

	"github.com/yigit/learncircle/internal/app/models"
)

// CreateCommentRequest represents a comment on a resource
type CreateCommentRequest struct {
	Text       string `json:"text" binding:"required" example:"Great summary"`
	UserID     int64  `json:"user_id" binding:"required,min=1" example:"2"`
	ResourceID int64  `json:"resource_id" binding:"required,min=1" example:"7"`
}

// CreateMessageRequest represents a chat message; the circle comes from the path
type CreateMessageRequest struct {
	Text   string `json:"text" binding:"required" example:"Anyone up for a study session?"`
	UserID int64  `json:"user_id" binding:"required,min=1" example:"2"`
}

// PostedResponse is returned after posting a comment or a message
type PostedResponse struct {
	ID        int64     `json:"id" example:"11"`
	Text      string    `json:"text" example:"Great summary"`
	Timestamp time.Time `json:"timestamp"`
}

// AuthoredTextResponse is one comment or message in a list
type AuthoredTextResponse struct {
	ID        int64     `json:"id" example:"11"`
	Text      string    `json:"text" example:"Great summary"`
	UserID    int64     `json:"user_id" example:"2"`
	Username  string    `json:"username" example:"grace"`
	Timestamp time.Time `json:"timestamp"`
}

// CircleMessageEvent is pushed to websocket subscribers of a circle
type CircleMessageEvent struct {
	Type     string               `json:"type" example:"message"`
	CircleID int64                `json:"circle_id" example:"1"`
	Message  AuthoredTextResponse `json:"message"`
}

// ToCommentPosted transforms a created comment
func ToCommentPosted(c *models.Comment) PostedResponse {
	return PostedResponse{ID: c.ID, Text: c.Text, Timestamp: c.Timestamp}
}

// ToMessagePosted transforms a created message
func ToMessagePosted(m *models.Message) PostedResponse {
	return PostedResponse{ID: m.ID, Text: m.Text, Timestamp: m.Timestamp}
}

// ToCommentList transforms comments in the order given
func ToCommentList(comments []*models.Comment) []AuthoredTextResponse {
	out := make([]AuthoredTextResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, AuthoredTextResponse{ID: c.ID, Text: c.Text, UserID: c.UserID, Username: c.Username, Timestamp: c.Timestamp})
	}
	return out
}

// ToMessageResponse transforms one message
func ToMessageResponse(m *models.Message) AuthoredTextResponse {
	return AuthoredTextResponse{ID: m.ID, Text: m.Text, UserID: m.UserID, Username: m.Username, Timestamp: m.Timestamp}
}

// ToMessageList transforms messages in the order given
func ToMessageList(messages []*models.Message) []AuthoredTextResponse {
	out := make([]AuthoredTextResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, ToMessageResponse(m))
	}
	return out
}

// NewCircleMessageEvent wraps a message for websocket delivery
func NewCircleMessageEvent(m *models.Message) CircleMessageEvent {
	return CircleMessageEvent{Type: "message", CircleID: m.CircleID, Message: ToMessageResponse(m)}
}
