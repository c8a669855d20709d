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

// ResourceRepository handles database operations for learning resources
type ResourceRepository struct {
	db *pgxpool.Pool
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) selectResourceDetailsQuery() squirrel.SelectBuilder {
	return psql.Select(
		"r.id", "r.title", "r.circle_id", "r.creator_id", "r.resource_type", "r.content",
		"r.upload_date", "r.view_count", "u.username AS creator_username",
	).From("resources r").
		Join("users u ON u.id = r.creator_id")
}

func scanResourceDetails(row pgx.Row) (*models.Resource, error) {
	res := &models.Resource{}
	err := row.Scan(&res.ID, &res.Title, &res.CircleID, &res.CreatorID, &res.ResourceType, &res.Content,
		&res.UploadDate, &res.ViewCount, &res.CreatorUsername)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLearningResourceNotFound
		}
		return nil, fmt.Errorf("error scanning resource: %w", err)
	}
	return res, nil
}

// Create inserts a new resource
func (r *ResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	sql, args, err := psql.Insert("resources").
		Columns("title", "circle_id", "creator_id", "resource_type", "content").
		Values(resource.Title, resource.CircleID, resource.CreatorID, resource.ResourceType, resource.Content).
		Suffix("RETURNING id, upload_date, view_count").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create resource SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&resource.ID, &resource.UploadDate, &resource.ViewCount)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return fmt.Errorf("circle %d or creator %d: %w", resource.CircleID, resource.CreatorID, apperrors.ErrInvalidReference)
		}
		return fmt.Errorf("error creating resource: %w", err)
	}
	return nil
}

// GetByID retrieves a resource with its creator's username
func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	sql, args, err := r.selectResourceDetailsQuery().Where(squirrel.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get resource SQL: %w", err)
	}
	return scanResourceDetails(r.db.QueryRow(ctx, sql, args...))
}

// ListByCircle lists a circle's resources in creation order
func (r *ResourceRepository) ListByCircle(ctx context.Context, circleID int64) ([]*models.Resource, error) {
	sql, args, err := r.selectResourceDetailsQuery().
		Where(squirrel.Eq{"r.circle_id": circleID}).
		OrderBy("r.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list resources SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing resources: %w", err)
	}
	defer rows.Close()

	resources := make([]*models.Resource, 0)
	for rows.Next() {
		res, err := scanResourceDetails(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return resources, nil
}

// IncrementViewCount bumps view_count with a single UPDATE ... RETURNING
func (r *ResourceRepository) IncrementViewCount(ctx context.Context, id int64) (*models.Resource, error) {
	sql, args, err := psql.Update("resources").
		Set("view_count", squirrel.Expr("view_count + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, title, circle_id, creator_id, resource_type, content, upload_date, view_count").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building view count SQL: %w", err)
	}

	res := &models.Resource{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&res.ID, &res.Title, &res.CircleID, &res.CreatorID,
		&res.ResourceType, &res.Content, &res.UploadDate, &res.ViewCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLearningResourceNotFound
		}
		return nil, fmt.Errorf("error incrementing view count: %w", err)
	}
	return res, nil
}
