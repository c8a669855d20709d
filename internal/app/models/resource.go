package models

import "time"

// Resource is a piece of learning material shared in a circle
type Resource struct {
	ID           int64        `db:"id"`
	Title        string       `db:"title"`
	CircleID     int64        `db:"circle_id"`
	CreatorID    int64        `db:"creator_id"`
	ResourceType ResourceType `db:"resource_type"`
	Content      string       `db:"content"` // stored filename or external URL
	UploadDate   time.Time    `db:"upload_date"`
	ViewCount    int          `db:"view_count"`

	CreatorUsername string `db:"creator_username"`
}

// Comment is a remark on a resource
type Comment struct {
	ID         int64     `db:"id"`
	Text       string    `db:"text"`
	UserID     int64     `db:"user_id"`
	ResourceID int64     `db:"resource_id"`
	Timestamp  time.Time `db:"timestamp"`

	Username string `db:"username"`
}
