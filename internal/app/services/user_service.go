package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/repositories"
)

// UserService defines profile read operations
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
	GetPointsHistory(ctx context.Context, userID int64) ([]dto.PointsHistoryResponse, error)
}

type userServiceImpl struct {
	userRepo       repositories.IUserRepository
	circleRepo     repositories.ICircleRepository
	membershipRepo repositories.IMembershipRepository
	taskRepo       repositories.ITaskRepository
	pointsService  PointsService
	logger         zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	circleRepo repositories.ICircleRepository,
	membershipRepo repositories.IMembershipRepository,
	taskRepo repositories.ITaskRepository,
	pointsService PointsService,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:       userRepo,
		circleRepo:     circleRepo,
		membershipRepo: membershipRepo,
		taskRepo:       taskRepo,
		pointsService:  pointsService,
		logger:         logger,
	}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	followed, err := s.membershipRepo.ListFollowedCircles(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.circleRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.taskRepo.CountCompletionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToProfileResponse(&dto.UserProfile{
		User:                user,
		FollowedCircles:     followed,
		CreatedCircles:      created,
		CompletedTasksCount: completed,
	})
	return &resp, nil
}

func (s *userServiceImpl) GetPointsHistory(ctx context.Context, userID int64) ([]dto.PointsHistoryResponse, error) {
	entries, err := s.pointsService.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToPointsHistoryList(entries), nil
}
