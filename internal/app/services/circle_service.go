package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/learncircle/internal/app/auth"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

// CircleService defines circle directory and membership operations
type CircleService interface {
	ListPublic(ctx context.Context, search string) ([]dto.CircleDetailResponse, error)
	CreateCircle(ctx context.Context, req *dto.CreateCircleRequest) (*dto.CircleResponse, error)
	GetCircle(ctx context.Context, id int64) (*dto.CircleDetailResponse, error)
	DeleteCircle(ctx context.Context, id, requesterID int64) error
	// Join reports whether a membership was newly granted
	Join(ctx context.Context, circleID, userID int64) (bool, error)
	Follow(ctx context.Context, circleID, userID int64) error
	Unfollow(ctx context.Context, circleID, userID int64) error
	Membership(ctx context.Context, circleID, userID int64) (*dto.MembershipResponse, error)
}

type circleServiceImpl struct {
	circleRepo     repositories.ICircleRepository
	membershipRepo repositories.IMembershipRepository
	pointsService  PointsService
	authzService   *auth.AuthorizationService
	logger         zerolog.Logger
}

// NewCircleService creates a new CircleService
func NewCircleService(
	circleRepo repositories.ICircleRepository,
	membershipRepo repositories.IMembershipRepository,
	pointsService PointsService,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) CircleService {
	return &circleServiceImpl{
		circleRepo:     circleRepo,
		membershipRepo: membershipRepo,
		pointsService:  pointsService,
		authzService:   authzService,
		logger:         logger,
	}
}

func (s *circleServiceImpl) ListPublic(ctx context.Context, search string) ([]dto.CircleDetailResponse, error) {
	circles, err := s.circleRepo.ListPublic(ctx, search)
	if err != nil {
		return nil, err
	}
	return dto.ToCircleDetailList(circles), nil
}

func (s *circleServiceImpl) CreateCircle(ctx context.Context, req *dto.CreateCircleRequest) (*dto.CircleResponse, error) {
	privacy := req.Privacy
	if privacy == "" {
		privacy = models.PrivacyPublic
	}

	circle := &models.Circle{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		CreatorID:   req.CreatorID,
		Privacy:     privacy,
	}
	if err := s.circleRepo.Create(ctx, circle); err != nil {
		return nil, referenceError(err, fmt.Sprintf("creator_id %d does not exist", req.CreatorID))
	}

	s.logger.Info().Int64("circleID", circle.ID).Int64("creatorID", circle.CreatorID).Msg("Circle created")

	resp := dto.ToCircleResponse(circle)
	return &resp, nil
}

func (s *circleServiceImpl) GetCircle(ctx context.Context, id int64) (*dto.CircleDetailResponse, error) {
	circle, err := s.circleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToCircleDetailResponse(circle)
	return &resp, nil
}

func (s *circleServiceImpl) DeleteCircle(ctx context.Context, id, requesterID int64) error {
	if err := s.authzService.ValidateCircleOwnership(ctx, id, requesterID); err != nil {
		return err
	}
	if err := s.circleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("circleID", id).Int64("userID", requesterID).Msg("Circle deleted")
	return nil
}

func (s *circleServiceImpl) Join(ctx context.Context, circleID, userID int64) (bool, error) {
	circle, err := s.circleRepo.GetByID(ctx, circleID)
	if err != nil {
		return false, err
	}

	changed, err := s.membershipRepo.Join(ctx, userID, circleID)
	if err != nil {
		return false, userReferenceError(err, userID)
	}
	if !changed {
		return false, nil
	}

	s.pointsService.AwardBestEffort(ctx, circle.CreatorID, models.PointsCircleJoined,
		fmt.Sprintf("New member joined %s", circle.Title))
	return true, nil
}

// Follow awards the creator on every call, including repeated follows
func (s *circleServiceImpl) Follow(ctx context.Context, circleID, userID int64) error {
	circle, err := s.circleRepo.GetByID(ctx, circleID)
	if err != nil {
		return err
	}

	if err := s.membershipRepo.Follow(ctx, userID, circleID); err != nil {
		return userReferenceError(err, userID)
	}

	s.pointsService.AwardBestEffort(ctx, circle.CreatorID, models.PointsCircleFollowed,
		fmt.Sprintf("New follower on %s", circle.Title))
	return nil
}

func (s *circleServiceImpl) Unfollow(ctx context.Context, circleID, userID int64) error {
	if _, err := s.circleRepo.GetByID(ctx, circleID); err != nil {
		return err
	}
	return s.membershipRepo.Unfollow(ctx, userID, circleID)
}

func (s *circleServiceImpl) Membership(ctx context.Context, circleID, userID int64) (*dto.MembershipResponse, error) {
	if _, err := s.circleRepo.GetByID(ctx, circleID); err != nil {
		return nil, err
	}

	member, err := s.membershipRepo.Get(ctx, userID, circleID)
	if err != nil && !errors.Is(err, apperrors.ErrMembershipMissing) {
		return nil, err
	}
	resp := dto.ToMembershipResponse(member)
	return &resp, nil
}

// userReferenceError gives a foreign key failure on user_id a client-facing message
func userReferenceError(err error, userID int64) error {
	return referenceError(err, fmt.Sprintf("user_id %d does not exist", userID))
}
