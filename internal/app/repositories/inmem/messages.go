package inmem

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

type commentRepository struct {
	db *Store
}

// NewCommentRepository creates an in-memory comment repository
func NewCommentRepository(db *Store) repositories.ICommentRepository {
	return &commentRepository{db: db}
}

func (repo *commentRepository) Create(_ context.Context, comment *models.Comment) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.resources[comment.ResourceID]; !ok {
		return fmt.Errorf("resource %d: %w", comment.ResourceID, apperrors.ErrInvalidReference)
	}
	if _, ok := repo.db.users[comment.UserID]; !ok {
		return fmt.Errorf("user %d: %w", comment.UserID, apperrors.ErrInvalidReference)
	}

	comment.ID = repo.db.nextID("comments")
	comment.Timestamp = repo.db.now()

	stored := *comment
	stored.Username = ""
	repo.db.comments[comment.ID] = &stored
	return nil
}

func (repo *commentRepository) ListByResource(_ context.Context, resourceID int64) ([]*models.Comment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	out := make([]*models.Comment, 0)
	for _, c := range repo.db.comments {
		if c.ResourceID == resourceID {
			cp := *c
			cp.Username = repo.db.usernameOf(c.UserID)
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

type messageRepository struct {
	db *Store
}

// NewMessageRepository creates an in-memory message repository
func NewMessageRepository(db *Store) repositories.IMessageRepository {
	return &messageRepository{db: db}
}

func (repo *messageRepository) Create(_ context.Context, message *models.Message) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.circles[message.CircleID]; !ok {
		return fmt.Errorf("circle %d: %w", message.CircleID, apperrors.ErrInvalidReference)
	}
	if _, ok := repo.db.users[message.UserID]; !ok {
		return fmt.Errorf("user %d: %w", message.UserID, apperrors.ErrInvalidReference)
	}

	message.ID = repo.db.nextID("messages")
	message.Timestamp = repo.db.now()
	message.Username = repo.db.usernameOf(message.UserID)

	stored := *message
	stored.Username = ""
	repo.db.messages[message.ID] = &stored
	return nil
}

func (repo *messageRepository) ListByCircle(_ context.Context, circleID int64) ([]*models.Message, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	out := make([]*models.Message, 0)
	for _, m := range repo.db.messages {
		if m.CircleID == circleID {
			cp := *m
			cp.Username = repo.db.usernameOf(m.UserID)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
