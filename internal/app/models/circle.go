package models

import "time"

// Circle is a user-created topic group others can join or follow
type Circle struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Tags        string    `db:"tags"`
	CreatorID   int64     `db:"creator_id"`
	Privacy     Privacy   `db:"privacy"`
	CreatedAt   time.Time `db:"created_at"`

	// Populated by listing/detail queries
	CreatorUsername string `db:"creator_username"`
	MemberCount     int    `db:"member_count"`
}

// CircleMember links a user to a circle. A row with both flags false is never kept.
type CircleMember struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	CircleID    int64     `db:"circle_id"`
	IsFollowing bool      `db:"is_following"`
	IsMember    bool      `db:"is_member"`
	JoinedAt    time.Time `db:"joined_at"`
}

// Empty reports whether the row carries no relationship at all
func (m *CircleMember) Empty() bool {
	return !m.IsFollowing && !m.IsMember
}

// CircleSummary is the short form used in profiles
type CircleSummary struct {
	ID          int64
	Title       string
	MemberCount int
}
