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

// CircleRepository handles database operations for circles
type CircleRepository struct {
	db *pgxpool.Pool
}

// NewCircleRepository creates a new CircleRepository
func NewCircleRepository(db *pgxpool.Pool) *CircleRepository {
	return &CircleRepository{db: db}
}

// selectCircleDetailsQuery selects circles joined with their creator and member count
func (r *CircleRepository) selectCircleDetailsQuery() squirrel.SelectBuilder {
	return psql.Select(
		"c.id", "c.title", "c.description", "c.tags", "c.creator_id", "c.privacy", "c.created_at",
		"u.username AS creator_username",
		"(SELECT COUNT(*) FROM circle_members cm WHERE cm.circle_id = c.id) AS member_count",
	).From("circles c").
		Join("users u ON u.id = c.creator_id")
}

func scanCircleDetails(row pgx.Row) (*models.Circle, error) {
	c := &models.Circle{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Tags, &c.CreatorID, &c.Privacy, &c.CreatedAt,
		&c.CreatorUsername, &c.MemberCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCircleNotFound
		}
		return nil, fmt.Errorf("error scanning circle: %w", err)
	}
	return c, nil
}

// Create inserts a new circle
func (r *CircleRepository) Create(ctx context.Context, circle *models.Circle) error {
	sql, args, err := psql.Insert("circles").
		Columns("title", "description", "tags", "creator_id", "privacy").
		Values(circle.Title, circle.Description, circle.Tags, circle.CreatorID, circle.Privacy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create circle SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&circle.ID, &circle.CreatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return fmt.Errorf("creator %d: %w", circle.CreatorID, apperrors.ErrInvalidReference)
		}
		return fmt.Errorf("error creating circle: %w", err)
	}
	return nil
}

// GetByID retrieves a circle with its creator's username and member count
func (r *CircleRepository) GetByID(ctx context.Context, id int64) (*models.Circle, error) {
	sql, args, err := r.selectCircleDetailsQuery().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get circle SQL: %w", err)
	}
	return scanCircleDetails(r.db.QueryRow(ctx, sql, args...))
}

// ListPublic lists public circles, optionally filtered by a search term
func (r *CircleRepository) ListPublic(ctx context.Context, search string) ([]*models.Circle, error) {
	builder := r.selectCircleDetailsQuery().
		Where(squirrel.Eq{"c.privacy": models.PrivacyPublic}).
		OrderBy("c.id")

	if search != "" {
		pattern := containsPattern(search)
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"c.title": pattern},
			squirrel.ILike{"c.tags": pattern},
			squirrel.ILike{"c.description": pattern},
		})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list circles SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing circles: %w", err)
	}
	defer rows.Close()

	circles := make([]*models.Circle, 0)
	for rows.Next() {
		c, err := scanCircleDetails(rows)
		if err != nil {
			return nil, err
		}
		circles = append(circles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return circles, nil
}

// ListByCreator returns summaries of the circles a user created
func (r *CircleRepository) ListByCreator(ctx context.Context, creatorID int64) ([]models.CircleSummary, error) {
	sql, args, err := psql.Select(
		"c.id", "c.title",
		"(SELECT COUNT(*) FROM circle_members cm WHERE cm.circle_id = c.id)",
	).From("circles c").
		Where(squirrel.Eq{"c.creator_id": creatorID}).
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list created circles SQL: %w", err)
	}
	return queryCircleSummaries(ctx, r.db, sql, args, true)
}

// Delete removes a circle; children go with it through ON DELETE CASCADE
func (r *CircleRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("circles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete circle SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting circle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCircleNotFound
	}
	return nil
}

// queryCircleSummaries scans (id, title[, member_count]) rows
func queryCircleSummaries(ctx context.Context, db *pgxpool.Pool, sql string, args []interface{}, withCount bool) ([]models.CircleSummary, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing circle summaries: %w", err)
	}
	defer rows.Close()

	out := make([]models.CircleSummary, 0)
	for rows.Next() {
		var s models.CircleSummary
		dest := []interface{}{&s.ID, &s.Title}
		if withCount {
			dest = append(dest, &s.MemberCount)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning circle summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return out, nil
}
