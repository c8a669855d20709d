package inmem

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

type resourceRepository struct {
	db *Store
}

// NewResourceRepository creates an in-memory resource repository
func NewResourceRepository(db *Store) repositories.IResourceRepository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) detail(r *models.Resource) *models.Resource {
	out := *r
	out.CreatorUsername = repo.db.usernameOf(r.CreatorID)
	return &out
}

func (repo *resourceRepository) Create(_ context.Context, resource *models.Resource) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.circles[resource.CircleID]; !ok {
		return fmt.Errorf("circle %d: %w", resource.CircleID, apperrors.ErrInvalidReference)
	}
	if _, ok := repo.db.users[resource.CreatorID]; !ok {
		return fmt.Errorf("creator %d: %w", resource.CreatorID, apperrors.ErrInvalidReference)
	}

	resource.ID = repo.db.nextID("resources")
	resource.UploadDate = repo.db.now()
	resource.ViewCount = 0

	stored := *resource
	stored.CreatorUsername = ""
	repo.db.resources[resource.ID] = &stored
	return nil
}

func (repo *resourceRepository) GetByID(_ context.Context, id int64) (*models.Resource, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	r, ok := repo.db.resources[id]
	if !ok {
		return nil, apperrors.ErrLearningResourceNotFound
	}
	return repo.detail(r), nil
}

func (repo *resourceRepository) ListByCircle(_ context.Context, circleID int64) ([]*models.Resource, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	out := make([]*models.Resource, 0)
	for _, r := range repo.db.resources {
		if r.CircleID == circleID {
			out = append(out, repo.detail(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (repo *resourceRepository) IncrementViewCount(_ context.Context, id int64) (*models.Resource, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	r, ok := repo.db.resources[id]
	if !ok {
		return nil, apperrors.ErrLearningResourceNotFound
	}
	r.ViewCount++
	out := *r
	return &out, nil
}
