package inmem

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

type taskRepository struct {
	db *Store
}

// NewTaskRepository creates an in-memory task repository
func NewTaskRepository(db *Store) repositories.ITaskRepository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) detail(t *models.Task) *models.Task {
	out := *t
	out.CompletionCount = 0
	for _, c := range repo.db.completions {
		if c.TaskID == t.ID {
			out.CompletionCount++
		}
	}
	return &out
}

func (repo *taskRepository) Create(_ context.Context, task *models.Task) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.circles[task.CircleID]; !ok {
		return fmt.Errorf("circle %d: %w", task.CircleID, apperrors.ErrInvalidReference)
	}

	task.ID = repo.db.nextID("tasks")
	task.CreatedAt = repo.db.now()

	stored := *task
	stored.CompletionCount = 0
	repo.db.tasks[task.ID] = &stored
	return nil
}

func (repo *taskRepository) GetByID(_ context.Context, id int64) (*models.Task, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	t, ok := repo.db.tasks[id]
	if !ok {
		return nil, apperrors.ErrTaskNotFound
	}
	return repo.detail(t), nil
}

func (repo *taskRepository) ListByCircle(_ context.Context, circleID int64) ([]*models.Task, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	out := make([]*models.Task, 0)
	for _, t := range repo.db.tasks {
		if t.CircleID == circleID {
			out = append(out, repo.detail(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (repo *taskRepository) hasCompletion(taskID, userID int64) bool {
	for _, c := range repo.db.completions {
		if c.TaskID == taskID && c.UserID == userID {
			return true
		}
	}
	return false
}

func (repo *taskRepository) CompletionExists(_ context.Context, taskID, userID int64) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.hasCompletion(taskID, userID), nil
}

func (repo *taskRepository) CreateCompletion(_ context.Context, completion *models.TaskCompletion) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.hasCompletion(completion.TaskID, completion.UserID) {
		return apperrors.ErrAlreadyCompleted
	}
	if _, ok := repo.db.tasks[completion.TaskID]; !ok {
		return fmt.Errorf("task %d: %w", completion.TaskID, apperrors.ErrInvalidReference)
	}
	if _, ok := repo.db.users[completion.UserID]; !ok {
		return fmt.Errorf("user %d: %w", completion.UserID, apperrors.ErrInvalidReference)
	}

	completion.ID = repo.db.nextID("task_completions")
	completion.CompletionDate = repo.db.now()

	stored := *completion
	repo.db.completions[completion.ID] = &stored
	return nil
}

func (repo *taskRepository) CountCompletionsByUser(_ context.Context, userID int64) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	n := 0
	for _, c := range repo.db.completions {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}
