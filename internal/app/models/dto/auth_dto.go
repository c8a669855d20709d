package dto

import "github.com/yigit/learncircle/internal/app/models"

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username string      `json:"username" binding:"required,max=80" example:"ada"`
	Email    string      `json:"email" binding:"required,email,max=120" example:"ada@example.com"`
	Password string      `json:"password" binding:"required,min=6" example:"s3cret!"`
	Role     models.Role `json:"role" binding:"required,oneof=student creator" example:"student"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"ada"`
	Password string `json:"password" binding:"required" example:"s3cret!"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	ID       int64       `json:"id" example:"1"`
	Username string      `json:"username" example:"ada"`
	Email    string      `json:"email" example:"ada@example.com"`
	Role     models.Role `json:"role" example:"student"`
}

// LoginResponse carries the user summary plus a signed access token
type LoginResponse struct {
	ID              int64       `json:"id" example:"1"`
	Username        string      `json:"username" example:"ada"`
	Email           string      `json:"email" example:"ada@example.com"`
	Role            models.Role `json:"role" example:"creator"`
	Points          int         `json:"points" example:"60"`
	ReputationLevel int         `json:"reputation_level" example:"2"`
	Token           string      `json:"token"`
	TokenType       string      `json:"token_type" example:"Bearer"`
	ExpiresIn       int         `json:"expires_in" example:"86400"`
}

// NewRegisterResponse projects a freshly created user
func NewRegisterResponse(u *models.User) RegisterResponse {
	return RegisterResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// NewLoginResponse projects an authenticated user and its token
func NewLoginResponse(u *models.User, token string, expiresIn int) LoginResponse {
	return LoginResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		Points:          u.Points,
		ReputationLevel: u.ReputationLevel,
		Token:           token,
		TokenType:       "Bearer",
		ExpiresIn:       expiresIn,
	}
}
