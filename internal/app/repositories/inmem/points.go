package inmem

import (
	"context"
	"sort"

	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
)

type pointsRepository struct {
	db *Store
}

// NewPointsRepository creates an in-memory points repository
func NewPointsRepository(db *Store) repositories.IPointsRepository {
	return &pointsRepository{db: db}
}

func (repo *pointsRepository) Award(_ context.Context, userID int64, points int, reason string) (bool, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	u, ok := repo.db.users[userID]
	if !ok {
		return false, nil
	}

	u.Points += points
	u.ReputationLevel = models.ReputationLevel(u.Points, u.ReputationLevel)

	id := repo.db.nextID("points_history")
	repo.db.points[id] = &models.PointsHistory{
		ID:        id,
		UserID:    userID,
		Points:    points,
		Reason:    reason,
		Timestamp: repo.db.now(),
	}
	return true, nil
}

func (repo *pointsRepository) ListByUser(_ context.Context, userID int64) ([]*models.PointsHistory, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	out := make([]*models.PointsHistory, 0)
	for _, e := range repo.db.points {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
