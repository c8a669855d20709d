package inmem

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

type membershipRepository struct {
	db *Store
}

// NewMembershipRepository creates an in-memory membership repository
func NewMembershipRepository(db *Store) repositories.IMembershipRepository {
	return &membershipRepository{db: db}
}

// find returns the stored row for the pair; lock required
func (repo *membershipRepository) find(userID, circleID int64) *models.CircleMember {
	for _, m := range repo.db.members {
		if m.UserID == userID && m.CircleID == circleID {
			return m
		}
	}
	return nil
}

// checkRefs mirrors the circle_members foreign keys; lock required
func (repo *membershipRepository) checkRefs(userID, circleID int64) error {
	if _, ok := repo.db.users[userID]; !ok {
		return fmt.Errorf("user %d: %w", userID, apperrors.ErrInvalidReference)
	}
	if _, ok := repo.db.circles[circleID]; !ok {
		return fmt.Errorf("circle %d: %w", circleID, apperrors.ErrInvalidReference)
	}
	return nil
}

func (repo *membershipRepository) insert(userID, circleID int64, following, member bool) {
	id := repo.db.nextID("circle_members")
	repo.db.members[id] = &models.CircleMember{
		ID:          id,
		UserID:      userID,
		CircleID:    circleID,
		IsFollowing: following,
		IsMember:    member,
		JoinedAt:    repo.db.now(),
	}
}

func (repo *membershipRepository) Get(_ context.Context, userID, circleID int64) (*models.CircleMember, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if m := repo.find(userID, circleID); m != nil {
		out := *m
		return &out, nil
	}
	return nil, apperrors.ErrMembershipMissing
}

func (repo *membershipRepository) Join(_ context.Context, userID, circleID int64) (bool, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if m := repo.find(userID, circleID); m != nil {
		if m.IsMember {
			return false, nil
		}
		m.IsMember = true
		return true, nil
	}
	if err := repo.checkRefs(userID, circleID); err != nil {
		return false, err
	}
	repo.insert(userID, circleID, false, true)
	return true, nil
}

func (repo *membershipRepository) Follow(_ context.Context, userID, circleID int64) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if m := repo.find(userID, circleID); m != nil {
		m.IsFollowing = true
		return nil
	}
	if err := repo.checkRefs(userID, circleID); err != nil {
		return err
	}
	repo.insert(userID, circleID, true, false)
	return nil
}

func (repo *membershipRepository) Unfollow(_ context.Context, userID, circleID int64) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	m := repo.find(userID, circleID)
	if m == nil {
		return nil
	}
	m.IsFollowing = false
	if m.Empty() {
		delete(repo.db.members, m.ID)
	}
	return nil
}

func (repo *membershipRepository) ListFollowedCircles(_ context.Context, userID int64) ([]models.CircleSummary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	rows := make([]*models.CircleMember, 0)
	for _, m := range repo.db.members {
		if m.UserID == userID && m.IsFollowing {
			rows = append(rows, m)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	out := make([]models.CircleSummary, 0, len(rows))
	for _, m := range rows {
		if c, ok := repo.db.circles[m.CircleID]; ok {
			out = append(out, models.CircleSummary{ID: c.ID, Title: c.Title})
		}
	}
	return out, nil
}
