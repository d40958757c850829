package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MissionBoard is one account's daily mission state for one calendar date.
// Mission progress is derived from the counters, so recording a round is a single $inc.
type MissionBoard struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Date         string             `bson:"date" json:"date"`
	StreakTarget int                `bson:"streakTarget" json:"streakTarget"`
	RoundsPlayed int                `bson:"roundsPlayed" json:"roundsPlayed"`
	CoinsEarned  int                `bson:"coinsEarned" json:"coinsEarned"`
	BestStreak   int                `bson:"bestStreak" json:"bestStreak"`
	Claimed      []string           `bson:"claimed" json:"claimed"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsClaimed reports whether a mission reward was already paid out
func (b *MissionBoard) IsClaimed(missionID string) bool {
	return contains(b.Claimed, missionID)
}

// Mission is the client view of a single daily task
type Mission struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Target   int    `json:"target"`
	Progress int    `json:"progress"`
	Reward   int    `json:"reward"`
	Complete bool   `json:"complete"`
	Claimed  bool   `json:"claimed"`
}
