package models

import (
	"time"
)

// Badge describes an achievement in the trophy room catalog
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Category    string `json:"category"` // "streak", "skill", "wealth"
}

// Planet is one stage of the linear galaxy map
type Planet struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// AvatarItem is a purchasable cosmetic for one avatar slot
type AvatarItem struct {
	ID   string `json:"id"`
	Slot string `json:"slot"` // helmet, suit, pet
	Name string `json:"name"`
	Cost int    `json:"cost"`
	Icon string `json:"icon,omitempty"`
}

// LeaderboardEntry is one account's best score for a game
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Game     string `json:"game"`
}

// Event types pushed to connected clients
const (
	EventScoreSaved     = "score_saved"
	EventBadgeAwarded   = "badge_awarded"
	EventPlanetUnlocked = "planet_unlocked"
	EventCoinsChanged   = "coins_changed"
	EventMissionClaimed = "mission_claimed"
)

// GamificationEvent represents a progression event to push via WebSocket
type GamificationEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	Game      string    `json:"game,omitempty"`
	BadgeName string    `json:"badgeName,omitempty"`
	Planet    string    `json:"planet,omitempty"`
	Mission   string    `json:"mission,omitempty"`
	Points    int       `json:"points,omitempty"`
	Coins     int       `json:"coins"`
	Streak    int       `json:"streak,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
