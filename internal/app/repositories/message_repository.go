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

// MessageRepository handles database operations for circle chat messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message and fills in the author's username
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	// Insert and author lookup in one statement.
	const sql = `
		WITH inserted AS (
			INSERT INTO messages (text, user_id, circle_id)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, timestamp
		)
		SELECT i.id, i.timestamp, u.username
		FROM inserted i JOIN users u ON u.id = i.user_id`

	err := r.db.QueryRow(ctx, sql, message.Text, message.UserID, message.CircleID).
		Scan(&message.ID, &message.Timestamp, &message.Username)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return fmt.Errorf("circle %d or user %d: %w", message.CircleID, message.UserID, apperrors.ErrInvalidReference)
		}
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

// ListByCircle lists a circle's messages, oldest first
func (r *MessageRepository) ListByCircle(ctx context.Context, circleID int64) ([]*models.Message, error) {
	sql, args, err := psql.Select("m.id", "m.text", "m.user_id", "m.circle_id", "m.timestamp", "u.username").
		From("messages m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.circle_id": circleID}).
		OrderBy("m.timestamp ASC", "m.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list messages SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.Text, &m.UserID, &m.CircleID, &m.Timestamp, &m.Username); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return messages, nil
}
