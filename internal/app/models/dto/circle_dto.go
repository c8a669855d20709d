package dto

import (
	"time"

	"github.com/yigit/learncircle/internal/app/models"
)

// --- Request DTOs ---

// CreateCircleRequest represents data for creating a new circle
type CreateCircleRequest struct {
	Title       string         `json:"title" binding:"required,max=200" example:"Linear Algebra"`
	Description string         `json:"description" binding:"required" example:"Weekly problem sets"`
	Tags        string         `json:"tags" binding:"max=500" example:"math,matrices"`
	CreatorID   int64          `json:"creator_id" binding:"required,min=1" example:"1"`
	Privacy     models.Privacy `json:"privacy" binding:"omitempty,oneof=public private" example:"public"`
}

// MembershipRequest identifies the acting user for join/follow/unfollow
type MembershipRequest struct {
	UserID int64 `json:"user_id" binding:"required,min=1" example:"2"`
}

// --- Response DTOs ---

// CircleResponse is the circle object returned on creation
type CircleResponse struct {
	ID          int64          `json:"id" example:"1"`
	Title       string         `json:"title" example:"Linear Algebra"`
	Description string         `json:"description" example:"Weekly problem sets"`
	Tags        string         `json:"tags" example:"math,matrices"`
	CreatorID   int64          `json:"creator_id" example:"1"`
	Privacy     models.Privacy `json:"privacy" example:"public"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CircleDetailResponse adds the creator's name and member count, used by listing and lookup
type CircleDetailResponse struct {
	CircleResponse
	CreatorUsername string `json:"creator_username" example:"ada"`
	MemberCount     int    `json:"member_count" example:"12"`
}

// MembershipResponse reports a user's relationship with a circle
type MembershipResponse struct {
	IsMember    bool `json:"is_member"`
	IsFollowing bool `json:"is_following"`
}

// ToCircleResponse transforms a models.Circle
func ToCircleResponse(c *models.Circle) CircleResponse {
	return CircleResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Tags:        c.Tags,
		CreatorID:   c.CreatorID,
		Privacy:     c.Privacy,
		CreatedAt:   c.CreatedAt,
	}
}

// ToCircleDetailResponse transforms a models.Circle loaded with creator and member count
func ToCircleDetailResponse(c *models.Circle) CircleDetailResponse {
	return CircleDetailResponse{
		CircleResponse:  ToCircleResponse(c),
		CreatorUsername: c.CreatorUsername,
		MemberCount:     c.MemberCount,
	}
}

// ToCircleDetailList transforms a slice of circles, never returning nil
func ToCircleDetailList(circles []*models.Circle) []CircleDetailResponse {
	out := make([]CircleDetailResponse, 0, len(circles))
	for _, c := range circles {
		out = append(out, ToCircleDetailResponse(c))
	}
	return out
}

// ToMembershipResponse maps a membership row; nil means no relationship
func ToMembershipResponse(m *models.CircleMember) MembershipResponse {
	if m == nil {
		return MembershipResponse{}
	}
	return MembershipResponse{IsMember: m.IsMember, IsFollowing: m.IsFollowing}
}
