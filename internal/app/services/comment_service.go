package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/repositories"
)

// CommentService defines resource comment operations
type CommentService interface {
	CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*dto.PostedResponse, error)
	ListByResource(ctx context.Context, resourceID int64) ([]dto.AuthoredTextResponse, error)
}

type commentServiceImpl struct {
	commentRepo  repositories.ICommentRepository
	resourceRepo repositories.IResourceRepository
	logger       zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.ICommentRepository, resourceRepo repositories.IResourceRepository, logger zerolog.Logger) CommentService {
	return &commentServiceImpl{
		commentRepo:  commentRepo,
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

func (s *commentServiceImpl) CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*dto.PostedResponse, error) {
	comment := &models.Comment{
		Text:       req.Text,
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, referenceError(err, fmt.Sprintf("resource_id %d or user_id %d does not exist", req.ResourceID, req.UserID))
	}

	s.logger.Debug().Int64("commentID", comment.ID).Int64("resourceID", comment.ResourceID).Msg("Comment posted")

	resp := dto.ToCommentPosted(comment)
	return &resp, nil
}

func (s *commentServiceImpl) ListByResource(ctx context.Context, resourceID int64) ([]dto.AuthoredTextResponse, error) {
	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	return dto.ToCommentList(comments), nil
}
