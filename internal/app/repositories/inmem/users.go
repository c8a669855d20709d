package inmem

import (
	"context"

	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

type userRepository struct {
	db *Store
}

// NewUserRepository creates an in-memory user repository
func NewUserRepository(db *Store) repositories.IUserRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) Create(_ context.Context, user *models.User) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, u := range repo.db.users {
		if u.Username == user.Username {
			return apperrors.ErrUsernameAlreadyExists
		}
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	if user.ReputationLevel == 0 {
		user.ReputationLevel = models.MinReputationLevel
	}
	user.ID = repo.db.nextID("users")
	user.CreatedAt = repo.db.now()

	stored := *user
	repo.db.users[user.ID] = &stored
	return nil
}

func (repo *userRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if u, ok := repo.db.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (repo *userRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, u := range repo.db.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (repo *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := repo.GetByUsername(ctx, username)
	return err == nil, nil
}

func (repo *userRepository) EmailExists(_ context.Context, email string) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, u := range repo.db.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}
