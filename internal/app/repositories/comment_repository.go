package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/dberrors"
)

// CommentRepository handles database operations for resource comments
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	sql, args, err := psql.Insert("comments").
		Columns("text", "user_id", "resource_id").
		Values(comment.Text, comment.UserID, comment.ResourceID).
		Suffix("RETURNING id, timestamp").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create comment SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&comment.ID, &comment.Timestamp); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return fmt.Errorf("resource %d or user %d: %w", comment.ResourceID, comment.UserID, apperrors.ErrInvalidReference)
		}
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}

// ListByResource lists a resource's comments, newest first
func (r *CommentRepository) ListByResource(ctx context.Context, resourceID int64) ([]*models.Comment, error) {
	sql, args, err := psql.Select("cm.id", "cm.text", "cm.user_id", "cm.resource_id", "cm.timestamp", "u.username").
		From("comments cm").
		Join("users u ON u.id = cm.user_id").
		Where(squirrel.Eq{"cm.resource_id": resourceID}).
		OrderBy("cm.timestamp DESC", "cm.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list comments SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.Text, &c.UserID, &c.ResourceID, &c.Timestamp, &c.Username); err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return comments, nil
}
