package dto

import (
	"time"

	"github.com/yigit/learncircle/internal/app/models"
)

// CreateResourceRequest represents a link/video/pdf resource given by reference
type CreateResourceRequest struct {
	Title        string              `json:"title" binding:"required,max=200" example:"Lecture 3 slides"`
	CircleID     int64               `json:"circle_id" binding:"required,min=1" example:"1"`
	CreatorID    int64               `json:"creator_id" binding:"required,min=1" example:"1"`
	ResourceType models.ResourceType `json:"resource_type" binding:"required,oneof=pdf link video" example:"link"`
	Content      string              `json:"content" example:"https://example.com/lecture3"`
}

// UploadResourceForm holds the text fields of a multipart upload
type UploadResourceForm struct {
	Title     string `form:"title" binding:"required,max=200"`
	CircleID  int64  `form:"circle_id" binding:"required,min=1"`
	CreatorID int64  `form:"creator_id" binding:"required,min=1"`
}

// ResourceCreatedResponse is returned after creating a resource
type ResourceCreatedResponse struct {
	ID           int64               `json:"id" example:"7"`
	Title        string              `json:"title" example:"Lecture 3 slides"`
	ResourceType models.ResourceType `json:"resource_type" example:"link"`
	UploadDate   time.Time           `json:"upload_date"`
}

// ResourceUploadedResponse is returned after a multipart upload
type ResourceUploadedResponse struct {
	ID           int64               `json:"id" example:"8"`
	Title        string              `json:"title" example:"Notes"`
	ResourceType models.ResourceType `json:"resource_type" example:"pdf"`
}

// ResourceResponse is one element of a circle's resource list
type ResourceResponse struct {
	ID              int64               `json:"id" example:"7"`
	Title           string              `json:"title" example:"Lecture 3 slides"`
	ResourceType    models.ResourceType `json:"resource_type" example:"pdf"`
	Content         string              `json:"content" example:"lecture-3.pdf"`
	UploadDate      time.Time           `json:"upload_date"`
	ViewCount       int                 `json:"view_count" example:"42"`
	CreatorUsername string              `json:"creator_username" example:"ada"`
}

// ViewCountResponse reports a resource's view count after a view
type ViewCountResponse struct {
	ViewCount int `json:"view_count" example:"10"`
}

// ToResourceCreatedResponse transforms a newly created resource
func ToResourceCreatedResponse(r *models.Resource) ResourceCreatedResponse {
	return ResourceCreatedResponse{ID: r.ID, Title: r.Title, ResourceType: r.ResourceType, UploadDate: r.UploadDate}
}

// ToResourceUploadedResponse transforms an uploaded resource
func ToResourceUploadedResponse(r *models.Resource) ResourceUploadedResponse {
	return ResourceUploadedResponse{ID: r.ID, Title: r.Title, ResourceType: r.ResourceType}
}

// ToResourceList transforms a circle's resources
func ToResourceList(resources []*models.Resource) []ResourceResponse {
	out := make([]ResourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, ResourceResponse{
			ID:              r.ID,
			Title:           r.Title,
			ResourceType:    r.ResourceType,
			Content:         r.Content,
			UploadDate:      r.UploadDate,
			ViewCount:       r.ViewCount,
			CreatorUsername: r.CreatorUsername,
		})
	}
	return out
}
