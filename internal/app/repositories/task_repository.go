package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/dberrors"
)

const taskCompletionsUniqueKey = "uq_task_completions_task_user"

// TaskRepository handles database operations for tasks and their completions
type TaskRepository struct {
	db *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) selectTaskDetailsQuery() squirrel.SelectBuilder {
	return psql.Select(
		"t.id", "t.title", "t.description", "t.due_date", "t.circle_id", "t.created_at",
		"(SELECT COUNT(*) FROM task_completions tc WHERE tc.task_id = t.id) AS completion_count",
	).From("tasks t")
}

func scanTaskDetails(row pgx.Row) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.CircleID, &t.CreatedAt, &t.CompletionCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("error scanning task: %w", err)
	}
	return t, nil
}

// Create inserts a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	sql, args, err := psql.Insert("tasks").
		Columns("title", "description", "due_date", "circle_id").
		Values(task.Title, task.Description, task.DueDate, task.CircleID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create task SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&task.ID, &task.CreatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return fmt.Errorf("circle %d: %w", task.CircleID, apperrors.ErrInvalidReference)
		}
		return fmt.Errorf("error creating task: %w", err)
	}
	return nil
}

// GetByID retrieves a task with its completion count
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	sql, args, err := r.selectTaskDetailsQuery().Where(squirrel.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get task SQL: %w", err)
	}
	return scanTaskDetails(r.db.QueryRow(ctx, sql, args...))
}

// ListByCircle lists a circle's tasks in creation order
func (r *TaskRepository) ListByCircle(ctx context.Context, circleID int64) ([]*models.Task, error) {
	sql, args, err := r.selectTaskDetailsQuery().
		Where(squirrel.Eq{"t.circle_id": circleID}).
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list tasks SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTaskDetails(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return tasks, nil
}

// CompletionExists checks whether a user already completed a task
func (r *TaskRepository) CompletionExists(ctx context.Context, taskID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM task_completions WHERE task_id = $1 AND user_id = $2)`,
		taskID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking completion: %w", err)
	}
	return exists, nil
}

// CreateCompletion records a completion; the unique key closes the check-then-insert race
func (r *TaskRepository) CreateCompletion(ctx context.Context, completion *models.TaskCompletion) error {
	sql, args, err := psql.Insert("task_completions").
		Columns("task_id", "user_id").
		Values(completion.TaskID, completion.UserID).
		Suffix("RETURNING id, completion_date").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create completion SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&completion.ID, &completion.CompletionDate)
	switch {
	case err == nil:
		return nil
	case dberrors.IsDuplicateConstraintError(err, taskCompletionsUniqueKey):
		return apperrors.ErrAlreadyCompleted
	case dberrors.IsForeignKeyError(err):
		return fmt.Errorf("task %d or user %d: %w", completion.TaskID, completion.UserID, apperrors.ErrInvalidReference)
	default:
		return fmt.Errorf("error creating completion: %w", err)
	}
}

// CountCompletionsByUser counts the tasks a user completed
func (r *TaskRepository) CountCompletionsByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM task_completions WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting completions: %w", err)
	}
	return n, nil
}
