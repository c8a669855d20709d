package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/learncircle/internal/app/auth"
	"github.com/yigit/learncircle/internal/app/repositories"
	jwtauth "github.com/yigit/learncircle/internal/pkg/auth"
	"github.com/yigit/learncircle/internal/pkg/filestorage"
)

// Services holds every service the HTTP layer depends on
type Services struct {
	AuthService     *AuthService
	PointsService   PointsService
	CircleService   CircleService
	ResourceService ResourceService
	TaskService     TaskService
	CommentService  CommentService
	MessageService  MessageService
	UserService     UserService
}

// NewServices wires the services over one set of repositories
func NewServices(
	repos *repositories.Repositories,
	fileStorage filestorage.FileStorage,
	jwtService *jwtauth.JWTService,
	publisher MessagePublisher,
	logger zerolog.Logger,
) *Services {
	authz := auth.NewAuthorizationService(repos.UserRepository, repos.CircleRepository)
	points := NewPointsService(repos.PointsRepository, repos.UserRepository, logger.With().Str("service", "points").Logger())

	return &Services{
		AuthService:   NewAuthService(repos.UserRepository, jwtService, logger.With().Str("service", "auth").Logger()),
		PointsService: points,
		CircleService: NewCircleService(repos.CircleRepository, repos.MembershipRepository, points, authz,
			logger.With().Str("service", "circle").Logger()),
		ResourceService: NewResourceService(repos.ResourceRepository, repos.CircleRepository, fileStorage, points,
			logger.With().Str("service", "resource").Logger()),
		TaskService: NewTaskService(repos.TaskRepository, repos.CircleRepository, points,
			logger.With().Str("service", "task").Logger()),
		CommentService: NewCommentService(repos.CommentRepository, repos.ResourceRepository,
			logger.With().Str("service", "comment").Logger()),
		MessageService: NewMessageService(repos.MessageRepository, repos.CircleRepository, publisher,
			logger.With().Str("service", "message").Logger()),
		UserService: NewUserService(repos.UserRepository, repos.CircleRepository, repos.MembershipRepository,
			repos.TaskRepository, points, logger.With().Str("service", "user").Logger()),
	}
}
