package auth

import (
	"context"
	"fmt"

	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

// AuthorizationService answers ownership questions for token-protected operations
type AuthorizationService struct {
	userRepo   repositories.IUserRepository
	circleRepo repositories.ICircleRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo repositories.IUserRepository, circleRepo repositories.ICircleRepository) *AuthorizationService {
	return &AuthorizationService{
		userRepo:   userRepo,
		circleRepo: circleRepo,
	}
}

// IsCreatorRole checks whether the user registered with the creator role
func (s *AuthorizationService) IsCreatorRole(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleCreator, nil
}

// CanModifyCircle reports whether userID created the circle
func (s *AuthorizationService) CanModifyCircle(ctx context.Context, circleID, userID int64) (bool, error) {
	circle, err := s.circleRepo.GetByID(ctx, circleID)
	if err != nil {
		return false, err
	}
	return circle.CreatorID == userID, nil
}

// ValidateCircleOwnership returns ErrCircleNotFound or a forbidden error unless
// userID created the circle
func (s *AuthorizationService) ValidateCircleOwnership(ctx context.Context, circleID, userID int64) error {
	ok, err := s.CanModifyCircle(ctx, circleID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError(fmt.Sprintf("only the creator of circle %d can do this", circleID))
	}
	return nil
}
