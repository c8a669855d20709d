package dto

import (
	"time"

	"github.com/yigit/learncircle/internal/app/models"
)

// CircleRef is a followed circle in a profile
type CircleRef struct {
	ID    int64  `json:"id" example:"1"`
	Title string `json:"title" example:"Linear Algebra"`
}

// CreatedCircleRef is a circle the user created, with its size
type CreatedCircleRef struct {
	ID          int64  `json:"id" example:"1"`
	Title       string `json:"title" example:"Linear Algebra"`
	MemberCount int    `json:"member_count" example:"12"`
}

// ProfileResponse is the aggregated user profile
type ProfileResponse struct {
	ID                  int64              `json:"id" example:"1"`
	Username            string             `json:"username" example:"ada"`
	Email               string             `json:"email" example:"ada@example.com"`
	Role                models.Role        `json:"role" example:"creator"`
	Points              int                `json:"points" example:"210"`
	Badges              string             `json:"badges" example:""`
	ReputationLevel     int                `json:"reputation_level" example:"3"`
	FollowedCircles     []CircleRef        `json:"followed_circles"`
	CreatedCircles      []CreatedCircleRef `json:"created_circles"`
	CompletedTasksCount int                `json:"completed_tasks_count" example:"5"`
}

// PointsHistoryResponse is one ledger entry
type PointsHistoryResponse struct {
	ID        int64     `json:"id" example:"9"`
	Points    int       `json:"points" example:"5"`
	Reason    string    `json:"reason" example:"New member joined Linear Algebra"`
	Timestamp time.Time `json:"timestamp"`
}

// UserProfile is the service-level aggregate behind ProfileResponse
type UserProfile struct {
	User                *models.User
	FollowedCircles     []models.CircleSummary
	CreatedCircles      []models.CircleSummary
	CompletedTasksCount int
}

// ToProfileResponse transforms an aggregated profile
func ToProfileResponse(p *UserProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:                  p.User.ID,
		Username:            p.User.Username,
		Email:               p.User.Email,
		Role:                p.User.Role,
		Points:              p.User.Points,
		Badges:              p.User.Badges,
		ReputationLevel:     p.User.ReputationLevel,
		FollowedCircles:     make([]CircleRef, 0, len(p.FollowedCircles)),
		CreatedCircles:      make([]CreatedCircleRef, 0, len(p.CreatedCircles)),
		CompletedTasksCount: p.CompletedTasksCount,
	}
	for _, c := range p.FollowedCircles {
		resp.FollowedCircles = append(resp.FollowedCircles, CircleRef{ID: c.ID, Title: c.Title})
	}
	for _, c := range p.CreatedCircles {
		resp.CreatedCircles = append(resp.CreatedCircles, CreatedCircleRef{ID: c.ID, Title: c.Title, MemberCount: c.MemberCount})
	}
	return resp
}

// ToPointsHistoryList transforms ledger entries in the order given
func ToPointsHistoryList(entries []*models.PointsHistory) []PointsHistoryResponse {
	out := make([]PointsHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, PointsHistoryResponse{ID: e.ID, Points: e.Points, Reason: e.Reason, Timestamp: e.Timestamp})
	}
	return out
}
