package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
)

// PointsService is the gamification rule engine
type PointsService interface {
	// AwardPoints credits a user and records the reason. A user that does not
	// exist is skipped without error.
	AwardPoints(ctx context.Context, userID int64, points int, reason string) error
	// AwardBestEffort awards points and only logs a failure
	AwardBestEffort(ctx context.Context, userID int64, points int, reason string)
	History(ctx context.Context, userID int64) ([]*models.PointsHistory, error)
}

type pointsServiceImpl struct {
	pointsRepo repositories.IPointsRepository
	userRepo   repositories.IUserRepository
	logger     zerolog.Logger
}

// NewPointsService creates a new PointsService
func NewPointsService(pointsRepo repositories.IPointsRepository, userRepo repositories.IUserRepository, logger zerolog.Logger) PointsService {
	return &pointsServiceImpl{
		pointsRepo: pointsRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

func (s *pointsServiceImpl) AwardPoints(ctx context.Context, userID int64, points int, reason string) error {
	applied, err := s.pointsRepo.Award(ctx, userID, points, reason)
	if err != nil {
		return fmt.Errorf("award %d points to user %d: %w", points, userID, err)
	}
	if !applied {
		s.logger.Debug().Int64("userID", userID).Str("reason", reason).Msg("Points award skipped, user does not exist")
		return nil
	}

	s.logger.Info().
		Int64("userID", userID).
		Int("points", points).
		Str("reason", reason).
		Msg("Points awarded")
	return nil
}

func (s *pointsServiceImpl) AwardBestEffort(ctx context.Context, userID int64, points int, reason string) {
	if err := s.AwardPoints(ctx, userID, points, reason); err != nil {
		s.logger.Error().Err(err).
			Int64("userID", userID).
			Str("reason", reason).
			Msg("Failed to award points")
	}
}

func (s *pointsServiceImpl) History(ctx context.Context, userID int64) ([]*models.PointsHistory, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.pointsRepo.ListByUser(ctx, userID)
}
