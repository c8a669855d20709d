package models

import "time"

// Task is an assignment posted to a circle
type Task struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	DueDate     time.Time `db:"due_date"`
	CircleID    int64     `db:"circle_id"`
	CreatedAt   time.Time `db:"created_at"`

	CompletionCount int `db:"completion_count"`
}

// TaskCompletion records that a user finished a task. Unique per (task, user).
type TaskCompletion struct {
	ID             int64     `db:"id"`
	TaskID         int64     `db:"task_id"`
	UserID         int64     `db:"user_id"`
	CompletionDate time.Time `db:"completion_date"`
}
