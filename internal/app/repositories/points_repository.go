package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/db"
)

// PointsRepository handles the points ledger and user point totals
type PointsRepository struct {
	db *pgxpool.Pool
}

// NewPointsRepository creates a new PointsRepository
func NewPointsRepository(db *pgxpool.Pool) *PointsRepository {
	return &PointsRepository{db: db}
}

// Award locks the user row, applies the delta and level, and appends a ledger entry
func (r *PointsRepository) Award(ctx context.Context, userID int64, points int, reason string) (bool, error) {
	applied := false

	err := db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var total, level int
		err := tx.QueryRow(ctx,
			`SELECT points, reputation_level FROM users WHERE id = $1 FOR UPDATE`, userID).
			Scan(&total, &level)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error locking user: %w", err)
		}

		total += points
		level = models.ReputationLevel(total, level)

		updateSQL, updateArgs, err := psql.Update("users").
			Set("points", total).
			Set("reputation_level", level).
			Where(squirrel.Eq{"id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building points update SQL: %w", err)
		}
		if _, err := tx.Exec(ctx, updateSQL, updateArgs...); err != nil {
			return fmt.Errorf("error updating user points: %w", err)
		}

		insertSQL, insertArgs, err := psql.Insert("points_history").
			Columns("user_id", "points", "reason").
			Values(userID, points, reason).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building ledger insert SQL: %w", err)
		}
		if _, err := tx.Exec(ctx, insertSQL, insertArgs...); err != nil {
			return fmt.Errorf("error appending ledger entry: %w", err)
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// ListByUser returns a user's ledger, newest first
func (r *PointsRepository) ListByUser(ctx context.Context, userID int64) ([]*models.PointsHistory, error) {
	sql, args, err := psql.Select("id", "user_id", "points", "reason", "timestamp").
		From("points_history").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("timestamp DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building points history SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing points history: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.PointsHistory, 0)
	for rows.Next() {
		e := &models.PointsHistory{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Points, &e.Reason, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("error scanning points history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return entries, nil
}
