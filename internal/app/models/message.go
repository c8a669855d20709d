package models

import "time"

// Message is a chat line posted to a circle
type Message struct {
	ID        int64     `db:"id"`
	Text      string    `db:"text"`
	UserID    int64     `db:"user_id"`
	CircleID  int64     `db:"circle_id"`
	Timestamp time.Time `db:"timestamp"`

	Username string `db:"username"`
}
