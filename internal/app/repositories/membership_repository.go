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
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/dberrors"
)

// MembershipRepository handles the circle_members table
type MembershipRepository struct {
	db *pgxpool.Pool
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Get returns the membership row for a user and circle
func (r *MembershipRepository) Get(ctx context.Context, userID, circleID int64) (*models.CircleMember, error) {
	sql, args, err := psql.Select("id", "user_id", "circle_id", "is_following", "is_member", "joined_at").
		From("circle_members").
		Where(squirrel.Eq{"user_id": userID, "circle_id": circleID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get membership SQL: %w", err)
	}

	m := &models.CircleMember{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.UserID, &m.CircleID, &m.IsFollowing, &m.IsMember, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMembershipMissing
		}
		return nil, fmt.Errorf("error getting membership: %w", err)
	}
	return m, nil
}

// Join inserts a member row or promotes a follower-only row in one statement.
// No row comes back when the user already was a member.
func (r *MembershipRepository) Join(ctx context.Context, userID, circleID int64) (bool, error) {
	sql, args, err := psql.Insert("circle_members").
		Columns("user_id", "circle_id", "is_following", "is_member").
		Values(userID, circleID, false, true).
		Suffix(`ON CONFLICT (user_id, circle_id) DO UPDATE SET is_member = TRUE
			WHERE circle_members.is_member = FALSE RETURNING id`).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building join SQL: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	case dberrors.IsForeignKeyError(err):
		return false, fmt.Errorf("user %d: %w", userID, apperrors.ErrInvalidReference)
	default:
		return false, fmt.Errorf("error joining circle: %w", err)
	}
}

// Follow inserts a follower-only row or sets is_following on the existing one
func (r *MembershipRepository) Follow(ctx context.Context, userID, circleID int64) error {
	sql, args, err := psql.Insert("circle_members").
		Columns("user_id", "circle_id", "is_following", "is_member").
		Values(userID, circleID, true, false).
		Suffix("ON CONFLICT (user_id, circle_id) DO UPDATE SET is_following = TRUE").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building follow SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return fmt.Errorf("user %d: %w", userID, apperrors.ErrInvalidReference)
		}
		return fmt.Errorf("error following circle: %w", err)
	}
	return nil
}

// Unfollow drops follower-only rows and clears the flag on member rows
func (r *MembershipRepository) Unfollow(ctx context.Context, userID, circleID int64) error {
	pair := squirrel.Eq{"user_id": userID, "circle_id": circleID}

	deleteSQL, deleteArgs, err := psql.Delete("circle_members").
		Where(pair).Where(squirrel.Eq{"is_member": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building unfollow delete SQL: %w", err)
	}
	updateSQL, updateArgs, err := psql.Update("circle_members").
		Set("is_following", false).
		Where(pair).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building unfollow update SQL: %w", err)
	}

	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
			return fmt.Errorf("error removing follower row: %w", err)
		}
		if _, err := tx.Exec(ctx, updateSQL, updateArgs...); err != nil {
			return fmt.Errorf("error clearing follow flag: %w", err)
		}
		return nil
	})
}

// ListFollowedCircles returns the circles a user follows
func (r *MembershipRepository) ListFollowedCircles(ctx context.Context, userID int64) ([]models.CircleSummary, error) {
	sql, args, err := psql.Select("c.id", "c.title").
		From("circle_members cm").
		Join("circles c ON c.id = cm.circle_id").
		Where(squirrel.Eq{"cm.user_id": userID, "cm.is_following": true}).
		OrderBy("cm.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list followed circles SQL: %w", err)
	}
	return queryCircleSummaries(ctx, r.db, sql, args, false)
}
