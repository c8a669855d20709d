package models

import "time"

// Point awards granted by engagement events.
const (
	PointsCircleJoined   = 5
	PointsCircleFollowed = 10
	PointsViewMilestone  = 5
	PointsTaskCompleted  = 15

	// ViewMilestoneInterval: every N-th view of a resource pays its creator.
	ViewMilestoneInterval = 10
)

// MinReputationLevel is the level every new user starts at
const MinReputationLevel = 1

// levelThresholds is checked top-down; the first threshold reached wins.
var levelThresholds = []struct {
	minPoints int
	level     int
}{
	{1000, 5},
	{500, 4},
	{200, 3},
	{50, 2},
}

// PointsHistory is one append-only ledger entry
type PointsHistory struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Points    int       `db:"points"`
	Reason    string    `db:"reason"`
	Timestamp time.Time `db:"timestamp"`
}

// ReputationLevel returns the level for a cumulative point total.
// Levels only move up: a total that falls back under a threshold keeps currentLevel.
func ReputationLevel(totalPoints, currentLevel int) int {
	for _, t := range levelThresholds {
		if totalPoints >= t.minPoints {
			return max(t.level, currentLevel)
		}
	}
	return currentLevel
}
