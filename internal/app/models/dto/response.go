package dto

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message" example:"Joined successfully"`
}

// NewSuccessResponse creates a message-only success body
func NewSuccessResponse(message string) SuccessResponse {
	return SuccessResponse{Message: message}
}

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
