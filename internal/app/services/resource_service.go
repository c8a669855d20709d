package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/filestorage"
)

// UploadResourceInput carries the non-file fields of a multipart upload
type UploadResourceInput struct {
	Title     string
	CircleID  int64
	CreatorID int64
}

// ResourceService defines learning resource operations
type ResourceService interface {
	CreateResource(ctx context.Context, req *dto.CreateResourceRequest) (*dto.ResourceCreatedResponse, error)
	UploadResource(ctx context.Context, in UploadResourceInput, file *multipart.FileHeader) (*dto.ResourceUploadedResponse, error)
	ListByCircle(ctx context.Context, circleID int64) ([]dto.ResourceResponse, error)
	// RecordView counts one view and returns the new total
	RecordView(ctx context.Context, id int64) (int, error)
}

type resourceServiceImpl struct {
	resourceRepo  repositories.IResourceRepository
	circleRepo    repositories.ICircleRepository
	fileStorage   filestorage.FileStorage
	pointsService PointsService
	logger        zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(
	resourceRepo repositories.IResourceRepository,
	circleRepo repositories.ICircleRepository,
	fileStorage filestorage.FileStorage,
	pointsService PointsService,
	logger zerolog.Logger,
) ResourceService {
	return &resourceServiceImpl{
		resourceRepo:  resourceRepo,
		circleRepo:    circleRepo,
		fileStorage:   fileStorage,
		pointsService: pointsService,
		logger:        logger,
	}
}

func (s *resourceServiceImpl) CreateResource(ctx context.Context, req *dto.CreateResourceRequest) (*dto.ResourceCreatedResponse, error) {
	resource := &models.Resource{
		Title:        req.Title,
		CircleID:     req.CircleID,
		CreatorID:    req.CreatorID,
		ResourceType: req.ResourceType,
		Content:      req.Content,
	}
	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, referenceError(err, "circle_id or creator_id does not exist")
	}

	s.logger.Info().Int64("resourceID", resource.ID).Int64("circleID", resource.CircleID).Msg("Resource created")

	resp := dto.ToResourceCreatedResponse(resource)
	return &resp, nil
}

func (s *resourceServiceImpl) UploadResource(ctx context.Context, in UploadResourceInput, file *multipart.FileHeader) (*dto.ResourceUploadedResponse, error) {
	if file == nil || file.Filename == "" {
		return nil, apperrors.ErrFileMissing
	}

	name := filestorage.SanitizeFilename(file.Filename)
	if name == "" {
		return nil, filestorage.ErrUnsafeFilename
	}
	// An upload that replaces an existing file must not delete it on rollback
	existed := s.fileStorage.Exists(name)

	stored, err := s.fileStorage.SaveFile(file)
	if err != nil {
		return nil, err
	}

	resource := &models.Resource{
		Title:        in.Title,
		CircleID:     in.CircleID,
		CreatorID:    in.CreatorID,
		ResourceType: models.ResourceTypePDF,
		Content:      stored,
	}
	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		if !existed {
			if delErr := s.fileStorage.DeleteFile(stored); delErr != nil {
				s.logger.Error().Err(delErr).Str("filename", stored).Msg("Failed to remove orphaned upload")
			}
		}
		return nil, referenceError(err, "circle_id or creator_id does not exist")
	}

	s.logger.Info().
		Int64("resourceID", resource.ID).
		Str("filename", stored).
		Bool("replaced", existed).
		Msg("Resource uploaded")

	resp := dto.ToResourceUploadedResponse(resource)
	return &resp, nil
}

func (s *resourceServiceImpl) ListByCircle(ctx context.Context, circleID int64) ([]dto.ResourceResponse, error) {
	if _, err := s.circleRepo.GetByID(ctx, circleID); err != nil {
		return nil, err
	}
	resources, err := s.resourceRepo.ListByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}
	return dto.ToResourceList(resources), nil
}

func (s *resourceServiceImpl) RecordView(ctx context.Context, id int64) (int, error) {
	resource, err := s.resourceRepo.IncrementViewCount(ctx, id)
	if err != nil {
		return 0, err
	}

	if resource.ViewCount%models.ViewMilestoneInterval == 0 {
		s.pointsService.AwardBestEffort(ctx, resource.CreatorID, models.PointsViewMilestone,
			fmt.Sprintf("Resource %q reached %d views", resource.Title, resource.ViewCount))
	}
	return resource.ViewCount, nil
}

// referenceError attaches a client message to foreign key failures
func referenceError(err error, message string) error {
	if errors.Is(err, apperrors.ErrInvalidReference) {
		return apperrors.NewCustomError(err, message)
	}
	return err
}
