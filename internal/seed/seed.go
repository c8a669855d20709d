package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/app/services"
)

// Demo account created by CreateDefaultData
const (
	DemoUsername = "demo_creator"
	DemoEmail    = "demo@learncircle.local"
	DemoPassword = "learncircle"
)

var demoCircles = []dto.CreateCircleRequest{
	{Title: "Linear Algebra Study Group", Description: "Weekly problem sets and proofs", Tags: "math,linear-algebra", Privacy: models.PrivacyPublic},
	{Title: "Go Backend Reading Club", Description: "One chapter a week, then we build something", Tags: "go,backend", Privacy: models.PrivacyPublic},
	{Title: "Thesis Writing Circle", Description: "Accountability for thesis drafts", Tags: "writing", Privacy: models.PrivacyPrivate},
}

// CreateDefaultData creates a demo creator with a few circles unless the account already exists.
func CreateDefaultData(ctx context.Context, userRepo repositories.IUserRepository, svc *services.Services, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data...")

	exists, err := userRepo.UsernameExists(ctx, DemoUsername)
	if err != nil {
		return fmt.Errorf("failed to check demo user: %w", err)
	}
	if exists {
		lgr.Info().Str("username", DemoUsername).Msg("Demo user already exists, skipping seed")
		return nil
	}

	user, err := svc.AuthService.Register(ctx, &dto.RegisterRequest{
		Username: DemoUsername,
		Email:    DemoEmail,
		Password: DemoPassword,
		Role:     models.RoleCreator,
	})
	if err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	var finalErr error
	for _, req := range demoCircles {
		req.CreatorID = user.ID
		circle, err := svc.CircleService.CreateCircle(ctx, &req)
		if err != nil {
			lgr.Error().Err(err).Str("title", req.Title).Msg("Error creating demo circle")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Debug().Int64("circleID", circle.ID).Str("title", circle.Title).Msg("Demo circle created")
	}

	lgr.Info().Int64("userID", user.ID).Msg("Default data created")
	return finalErr
}
