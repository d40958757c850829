package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account aggregate: credentials, scores, streak and cosmetic progression
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username        string             `bson:"username" json:"username"`
	PasswordHash    string             `bson:"passwordHash" json:"-"`
	IsGuest         bool               `bson:"isGuest" json:"isGuest"`
	Scores          []ScoreEntry       `bson:"scores" json:"scores"`
	Streak          int                `bson:"streak" json:"streak"`
	LastPlayedDate  string             `bson:"lastPlayedDate,omitempty" json:"lastPlayedDate,omitempty"` // YYYY-MM-DD
	Coins           int                `bson:"coins" json:"coins"`
	Badges          []string           `bson:"badges" json:"badges"`
	Avatar          Avatar             `bson:"avatar" json:"avatar"`
	OwnedItems      []string           `bson:"ownedItems" json:"ownedItems"`
	Settings        Settings           `bson:"settings" json:"settings"`
	UnlockedPlanets []string           `bson:"unlockedPlanets" json:"unlockedPlanets"`
	RecentRequests  []string           `bson:"recentRequests,omitempty" json:"-"`
	Revision        int64              `bson:"revision" json:"-"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ScoreEntry is one completed round. Entries are only ever appended.
type ScoreEntry struct {
	Game       string    `bson:"game" json:"game"`
	Score      int       `bson:"score" json:"score"`
	Difficulty string    `bson:"difficulty" json:"difficulty"`
	PlayedAt   time.Time `bson:"playedAt" json:"playedAt"`
}

// Avatar holds the three equipped catalog slots
type Avatar struct {
	Helmet string `bson:"helmet" json:"helmet"`
	Suit   string `bson:"suit" json:"suit"`
	Pet    string `bson:"pet" json:"pet"`
}

type Settings struct {
	CalmMode         bool    `bson:"calmMode" json:"calmMode"`
	CelebrationStyle string  `bson:"celebrationStyle" json:"celebrationStyle"` // standard, quiet, none
	AnimationSpeed   float64 `bson:"animationSpeed" json:"animationSpeed"`
}

// NewUser returns an account with the defaults every new pilot starts from
func NewUser(username, passwordHash string, now time.Time) *User {
	return &User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		PasswordHash: passwordHash,
		Scores:       []ScoreEntry{},
		Badges:       []string{},
		Avatar:       Avatar{Helmet: "default", Suit: "default", Pet: "none"},
		OwnedItems:   []string{},
		Settings: Settings{
			CelebrationStyle: "standard",
			AnimationSpeed:   1.0,
		},
		UnlockedPlanets: []string{"learning"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HasBadge reports whether badge is already in the badge set
func (u *User) HasBadge(badge string) bool {
	return contains(u.Badges, badge)
}

// HasPlanet reports whether planet is unlocked
func (u *User) HasPlanet(planet string) bool {
	return contains(u.UnlockedPlanets, planet)
}

// OwnsItem reports whether a catalog item has already been paid for
func (u *User) OwnsItem(itemID string) bool {
	return contains(u.OwnedItems, itemID)
}

// SeenRequest reports whether a score-save request id was already applied
func (u *User) SeenRequest(requestID string) bool {
	return requestID != "" && contains(u.RecentRequests, requestID)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ProgressChange is everything one saved round writes to an account, applied as a single update
type ProgressChange struct {
	Score          ScoreEntry
	Streak         int
	LastPlayedDate string
	CoinDelta      int
	NewBadges      []string
	NewPlanets     []string
	RequestID      string
}
