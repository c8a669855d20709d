package repositories

import (
	"context"

	"github.com/yigit/learncircle/internal/app/models"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	// Create inserts the user and fills ID and CreatedAt.
	// Returns apperrors.ErrUsernameAlreadyExists or apperrors.ErrEmailAlreadyExists on conflicts.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ICircleRepository defines circle persistence
type ICircleRepository interface {
	// Create returns apperrors.ErrInvalidReference when the creator does not exist.
	Create(ctx context.Context, circle *models.Circle) error
	// GetByID loads the circle with CreatorUsername and MemberCount.
	GetByID(ctx context.Context, id int64) (*models.Circle, error)
	// ListPublic returns public circles ordered by id. A non-empty search is matched
	// case-insensitively as a literal substring of title, tags or description.
	ListPublic(ctx context.Context, search string) ([]*models.Circle, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]models.CircleSummary, error)
	// Delete removes the circle and, through cascades, everything it owns.
	Delete(ctx context.Context, id int64) error
}

// IMembershipRepository manages circle_members rows
type IMembershipRepository interface {
	// Get returns apperrors.ErrMembershipMissing when the pair has no row.
	Get(ctx context.Context, userID, circleID int64) (*models.CircleMember, error)
	// Join sets is_member, creating the row if needed. changed is false when
	// the user already was a member.
	Join(ctx context.Context, userID, circleID int64) (changed bool, err error)
	// Follow sets is_following, creating the row if needed.
	Follow(ctx context.Context, userID, circleID int64) error
	// Unfollow clears is_following and deletes the row when it is left empty.
	// A missing row is not an error.
	Unfollow(ctx context.Context, userID, circleID int64) error
	ListFollowedCircles(ctx context.Context, userID int64) ([]models.CircleSummary, error)
}

// IResourceRepository defines learning resource persistence
type IResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id int64) (*models.Resource, error)
	ListByCircle(ctx context.Context, circleID int64) ([]*models.Resource, error)
	// IncrementViewCount atomically adds one view and returns the updated resource.
	IncrementViewCount(ctx context.Context, id int64) (*models.Resource, error)
}

// ITaskRepository defines task and completion persistence
type ITaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListByCircle(ctx context.Context, circleID int64) ([]*models.Task, error)
	CompletionExists(ctx context.Context, taskID, userID int64) (bool, error)
	// CreateCompletion returns apperrors.ErrAlreadyCompleted if the pair already has a row.
	CreateCompletion(ctx context.Context, completion *models.TaskCompletion) error
	CountCompletionsByUser(ctx context.Context, userID int64) (int, error)
}

// ICommentRepository defines comment persistence
type ICommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// ListByResource returns comments newest first.
	ListByResource(ctx context.Context, resourceID int64) ([]*models.Comment, error)
}

// IMessageRepository defines circle chat persistence
type IMessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	// ListByCircle returns messages oldest first.
	ListByCircle(ctx context.Context, circleID int64) ([]*models.Message, error)
}

// IPointsRepository owns the points ledger and the user totals it feeds
type IPointsRepository interface {
	// Award credits points to a user, appends a ledger row and recomputes the
	// reputation level, all atomically. applied is false if the user does not exist.
	Award(ctx context.Context, userID int64, points int, reason string) (applied bool, err error)
	// ListByUser returns ledger entries newest first.
	ListByUser(ctx context.Context, userID int64) ([]*models.PointsHistory, error)
}
