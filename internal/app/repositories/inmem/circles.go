package inmem

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

type circleRepository struct {
	db *Store
}

// NewCircleRepository creates an in-memory circle repository
func NewCircleRepository(db *Store) repositories.ICircleRepository {
	return &circleRepository{db: db}
}

// detail copies a circle and fills the joined fields; read lock required
func (repo *circleRepository) detail(c *models.Circle) *models.Circle {
	out := *c
	out.CreatorUsername = repo.db.usernameOf(c.CreatorID)
	out.MemberCount = repo.db.memberCount(c.ID)
	return &out
}

func (repo *circleRepository) Create(_ context.Context, circle *models.Circle) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.users[circle.CreatorID]; !ok {
		return fmt.Errorf("creator %d: %w", circle.CreatorID, apperrors.ErrInvalidReference)
	}

	circle.ID = repo.db.nextID("circles")
	circle.CreatedAt = repo.db.now()

	stored := *circle
	stored.CreatorUsername, stored.MemberCount = "", 0
	repo.db.circles[circle.ID] = &stored
	return nil
}

func (repo *circleRepository) GetByID(_ context.Context, id int64) (*models.Circle, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	c, ok := repo.db.circles[id]
	if !ok {
		return nil, apperrors.ErrCircleNotFound
	}
	return repo.detail(c), nil
}

func (repo *circleRepository) ListPublic(_ context.Context, search string) ([]*models.Circle, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	needle := strings.ToLower(search)
	out := make([]*models.Circle, 0)
	for _, c := range repo.db.circles {
		if c.Privacy != models.PrivacyPublic {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Title), needle) &&
			!strings.Contains(strings.ToLower(c.Tags), needle) &&
			!strings.Contains(strings.ToLower(c.Description), needle) {
			continue
		}
		out = append(out, repo.detail(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (repo *circleRepository) ListByCreator(_ context.Context, creatorID int64) ([]models.CircleSummary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	out := make([]models.CircleSummary, 0)
	for _, c := range repo.db.circles {
		if c.CreatorID == creatorID {
			out = append(out, models.CircleSummary{ID: c.ID, Title: c.Title, MemberCount: repo.db.memberCount(c.ID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (repo *circleRepository) Delete(_ context.Context, id int64) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.circles[id]; !ok {
		return apperrors.ErrCircleNotFound
	}
	repo.db.deleteCircle(id)
	return nil
}
